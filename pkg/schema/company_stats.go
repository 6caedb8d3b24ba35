package schema

import "github.com/hamba/avro/v2"

const CompanyStatsSchemaTextV1 = `{
	"type": "record",
	"namespace": "goods.catalog",
	"name": "company_stats",
	"fields": [
		{"name": "company", "type": "string"},
		{"name": "items", "type": "long"},
		{"name": "last_item_id", "type": "string"}
	]
}`

// A CompanyStatsV1 is the group table value keyed by company.
type CompanyStatsV1 struct {
	Company    string `avro:"company"`
	Items      int64  `avro:"items"`
	LastItemID string `avro:"last_item_id"`
}

func CompanyStatsV1Avro() avro.Schema {
	return avro.MustParse(CompanyStatsSchemaTextV1)
}
