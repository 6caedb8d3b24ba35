package schema

import "github.com/hamba/avro/v2"

const CatalogItemSchemaTextV1 = `{
	"type": "record",
	"namespace": "goods.catalog",
	"name": "catalog_item",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "raw_category", "type": "string", "default": ""},
		{"name": "category", "type": "string"},
		{"name": "image_url", "type": "string"},
		{"name": "link", "type": "string"},
		{"name": "company", "type": "string"},
		{"name": "tags", "type": {"type": "array", "items": "string"}}
	]
}`

// A CatalogItemV1 is the change feed record of a stored catalog item.
type CatalogItemV1 struct {
	ID          string   `avro:"id"`
	Name        string   `avro:"name"`
	Price       string   `avro:"price"`
	RawCategory string   `avro:"raw_category"`
	Category    string   `avro:"category"`
	ImageURL    string   `avro:"image_url"`
	Link        string   `avro:"link"`
	Company     string   `avro:"company"`
	Tags        []string `avro:"tags"`
}

// CatalogItemV1Avro panics if the schema text is invalid.
func CatalogItemV1Avro() avro.Schema {
	return avro.MustParse(CatalogItemSchemaTextV1)
}
