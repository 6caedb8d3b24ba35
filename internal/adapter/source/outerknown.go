package source

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
)

const (
	TagOuterknown = "outerknown"

	outerknownListingURL = "https://www.outerknown.com/collections/outerworn"
)

func newOuterknown(cfg Config) listing {
	return listing{
		src: domain.Source{
			Tag:          TagOuterknown,
			Company:      "Outerknown",
			ListingURL:   listingURL(cfg, TagOuterknown, outerknownListingURL),
			ConditionTag: "Pre-Owned",
		},
		itemSelector:   ".collection-grid__item",
		overlays:       []string{"#closeIconContainer"},
		extract:        extractOuterknown,
		reveal:         loadMoreReveal{control: "a.button--secondary"},
		revealCycles:   cfg.RevealCycles,
		overlayTimeout: cfg.OverlayTimeout,
	}
}

// nostoData is the product payload embedded in every grid item.
type nostoData struct {
	Name       string          `json:"name"`
	Price      json.RawMessage `json:"price"`
	Categories []string        `json:"categories"`
	ImageURL   string          `json:"imageUrl"`
	URL        string          `json:"url"`
}

func extractOuterknown(sel *goquery.Selection, base *url.URL) (domain.RawItem, bool) {
	raw := strings.TrimSpace(sel.Find(".nosto-data").First().Text())
	if raw == "" {
		return domain.RawItem{}, false
	}

	var data nostoData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return domain.RawItem{}, false
	}

	var price string
	if p := strings.Trim(string(data.Price), `" `); p != "" && p != "null" {
		price = "$" + strings.TrimPrefix(p, "$")
	}

	return domain.RawItem{
		Name:        strings.TrimSpace(data.Name),
		Price:       price,
		RawCategory: strings.Join(data.Categories, ", "),
		ImageURL:    domain.NormalizeImageURL(data.ImageURL),
		Link:        resolve(base, data.URL),
	}, true
}
