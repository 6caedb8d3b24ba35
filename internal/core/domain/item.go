package domain

import (
	"fmt"
	"strings"
	"time"
)

// A Category is the canonical catalog category.
type Category string

const (
	CategoryDresses       Category = "Dresses"
	CategoryTops          Category = "Tops"
	CategoryBottoms       Category = "Bottoms"
	CategoryOuterwear     Category = "Outerwear"
	CategoryMiscellaneous Category = "Miscellaneous"
)

// Categories lists the closed set of canonical categories.
var Categories = []Category{
	CategoryDresses,
	CategoryTops,
	CategoryBottoms,
	CategoryOuterwear,
	CategoryMiscellaneous,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// A RawItem is a listing as extracted from the source markup,
// before validation and classification.
type RawItem struct {
	Name        string
	Price       string
	RawCategory string
	ImageURL    string
	Link        string
}

// Validate checks that every mandatory field is present and the price
// can be read as a decimal. When requireCategory is set the raw category
// is mandatory too.
func (r RawItem) Validate(requireCategory bool) error {
	const op = "RawItem.Validate"

	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Price) == "" {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(r.ImageURL) == "" {
		missing = append(missing, "imageUrl")
	}
	if strings.TrimSpace(r.Link) == "" {
		missing = append(missing, "link")
	}
	if requireCategory && strings.TrimSpace(r.RawCategory) == "" {
		missing = append(missing, "rawCategory")
	}
	if len(missing) != 0 {
		return fmt.Errorf(
			"%s: %w: missing %s", op, ErrMalformedItem,
			strings.Join(missing, ", "),
		)
	}

	if _, err := ParsePrice(r.Price); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// A RawBatch is the outcome of a single extraction: the items passing
// the output filter and the number of malformed items dropped.
type RawBatch struct {
	Items     []RawItem
	Malformed int
}

// A CatalogItem is the unit of the catalog.
type CatalogItem struct {
	ID          string
	Name        string
	Price       string
	RawCategory string
	Category    Category
	ImageURL    string
	Link        string
	Company     string
	Tags        []string
}

// HasTag reports whether the item carries tag.
func (i CatalogItem) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// A Source describes the retailer behind a source adapter.
type Source struct {
	Tag             string
	Company         string
	ListingURL      string
	ConditionTag    string
	RequireCategory bool
}

// NormalizeImageURL turns protocol-relative URLs into https ones.
func NormalizeImageURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "//") {
		return "https:" + s
	}
	return s
}

// An IngestReport sums up a single ingestion run.
type IngestReport struct {
	Source     string
	Extracted  int
	Malformed  int
	Duplicates int
	Inserted   int
	Duration   time.Duration
}

// A Page is a single page of the filtered catalog.
type Page struct {
	Items   []CatalogItem
	HasMore bool
}

// A CatalogView is the initial catalog state shown to a client.
type CatalogView struct {
	Items         []CatalogItem
	Total         int
	AvailableTags []string
}
