package source

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
)

const (
	TagMadeTrade = "madetrade"

	madeTradeListingURL = "https://www.madetrade.com/collections/clothing" +
		"?filter.p.tag=__value%3ARecycled"
)

func newMadeTrade(cfg Config) listing {
	return listing{
		src: domain.Source{
			Tag:          TagMadeTrade,
			Company:      "MadeTrade",
			ListingURL:   listingURL(cfg, TagMadeTrade, madeTradeListingURL),
			ConditionTag: "Recycled",
		},
		itemSelector:   ".ProductItem",
		extract:        extractMadeTrade,
		reveal:         scrollReveal{param: "page"},
		revealCycles:   cfg.RevealCycles,
		overlayTimeout: cfg.OverlayTimeout,
	}
}

func extractMadeTrade(sel *goquery.Selection, base *url.URL) (domain.RawItem, bool) {
	title := sel.Find(".ProductItem__Title a")

	price := text(sel.Find(".ProductItem__PriceList .Price--highlight"))
	if price == "" {
		price = text(sel.Find(".ProductItem__Price"))
	}

	return domain.RawItem{
		Name:     text(title),
		Price:    price,
		ImageURL: firstSrcsetURL(attr(sel.Find(".ProductItem__ImageWrapper img"), "data-srcset")),
		Link:     resolve(base, attr(title, "href")),
	}, true
}
