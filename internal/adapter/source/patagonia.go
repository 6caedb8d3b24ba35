package source

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
)

const (
	TagPatagonia = "patagonia"

	patagoniaListingURL = "https://www.patagonia.com/shop/web-specials/recycled" +
		"?prefn1=isSale&prefv1=true&page=6"
)

func newPatagonia(cfg Config) listing {
	return listing{
		src: domain.Source{
			Tag:             TagPatagonia,
			Company:         "Patagonia",
			ListingURL:      listingURL(cfg, TagPatagonia, patagoniaListingURL),
			ConditionTag:    "Recycled",
			RequireCategory: true,
		},
		itemSelector:   ".product-tile__wrapper",
		overlays:       []string{".modal.show", ".modal-backdrop.show"},
		extract:        extractPatagonia,
		reveal:         noReveal{},
		revealCycles:   cfg.RevealCycles,
		overlayTimeout: cfg.OverlayTimeout,
	}
}

func extractPatagonia(sel *goquery.Selection, base *url.URL) (domain.RawItem, bool) {
	return domain.RawItem{
		Name:        text(sel.Find(".product-tile__name")),
		Price:       text(sel.Find(".sales.text-sales-price .value")),
		RawCategory: attr(sel.Find(`[itemprop="category"]`), "content"),
		ImageURL:    domain.NormalizeImageURL(attr(sel.Find(`meta[itemprop="image"]`), "content")),
		Link:        resolve(base, attr(sel.Find(".product-tile__cover a"), "href")),
	}, true
}
