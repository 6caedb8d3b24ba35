package httphandler

import "github.com/niksmo/good-goods/internal/core/domain"

type (
	Item struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Price       string   `json:"price"`
		RawCategory string   `json:"rawCategory,omitempty"`
		Category    string   `json:"category"`
		ImageURL    string   `json:"imageUrl"`
		Link        string   `json:"link"`
		Company     string   `json:"company"`
		Tags        []string `json:"tags"`
	}

	ItemsResponse struct {
		Items   []Item `json:"items"`
		HasMore bool   `json:"hasMore"`
		Error   string `json:"error,omitempty"`
	}

	TagsResponse struct {
		Tags []string `json:"tags"`
	}

	CatalogResponse struct {
		Items         []Item   `json:"items"`
		Total         int      `json:"total"`
		AvailableTags []string `json:"availableTags"`
	}

	CompaniesResponse struct {
		Companies map[string]int64 `json:"companies"`
	}
)

func toItems(vs []domain.CatalogItem) []Item {
	items := make([]Item, len(vs))
	for i, v := range vs {
		tags := v.Tags
		if tags == nil {
			tags = []string{}
		}
		items[i] = Item{
			ID:          v.ID,
			Name:        v.Name,
			Price:       v.Price,
			RawCategory: v.RawCategory,
			Category:    string(v.Category),
			ImageURL:    v.ImageURL,
			Link:        v.Link,
			Company:     v.Company,
			Tags:        tags,
		}
	}
	return items
}

// ToDomain converts a transport item back to the catalog item.
func (v Item) ToDomain() domain.CatalogItem {
	return domain.CatalogItem{
		ID:          v.ID,
		Name:        v.Name,
		Price:       v.Price,
		RawCategory: v.RawCategory,
		Category:    domain.Category(v.Category),
		ImageURL:    v.ImageURL,
		Link:        v.Link,
		Company:     v.Company,
		Tags:        v.Tags,
	}
}
