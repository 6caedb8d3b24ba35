// Package source holds the retailer adapters. Every retailer is a
// listing description driven by the same extraction loop.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

const (
	DefaultRevealCycles   = 5
	DefaultOverlayTimeout = 5 * time.Second
)

// A Config tunes every adapter of a registry.
type Config struct {
	RevealCycles   int
	OverlayTimeout time.Duration
	// ListingURLs overrides the listing URL per source tag.
	ListingURLs map[string]string
}

func (c Config) normalize() Config {
	if c.RevealCycles <= 0 {
		c.RevealCycles = DefaultRevealCycles
	}
	if c.OverlayTimeout <= 0 {
		c.OverlayTimeout = DefaultOverlayTimeout
	}
	return c
}

// An extractFn reads a single item node. It returns false when the
// node cannot be read at all.
type extractFn func(sel *goquery.Selection, base *url.URL) (domain.RawItem, bool)

var _ port.SourceAdapter = (*listing)(nil)

// A listing is a retailer listing page with its markup rules.
type listing struct {
	src            domain.Source
	itemSelector   string
	overlays       []string
	extract        extractFn
	reveal         revealer
	revealCycles   int
	overlayTimeout time.Duration
}

func (l listing) Source() domain.Source {
	return l.src
}

// FetchRawItems navigates to the listing, reveals further items within
// the cycle bound and returns the items passing the output filter along
// with the malformed count. The count is kept when every item is malformed.
func (l listing) FetchRawItems(
	ctx context.Context, s port.Session,
) (domain.RawBatch, error) {
	const op = "listing.FetchRawItems"
	log := slog.With("op", op, "source", l.src.Tag)

	listingURL, err := url.Parse(l.src.ListingURL)
	if err != nil {
		return domain.RawBatch{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.Navigate(ctx, listingURL.String())
	if err != nil {
		return domain.RawBatch{}, fmt.Errorf("%s: %w", op, err)
	}

	var acc accumulator
	l.dismissOverlays(ctx, doc)
	acc.add(l.extractAll(doc))

	for cycle := 1; cycle <= l.revealCycles; cycle++ {
		next, ok := l.reveal.next(listingURL, doc, cycle)
		if !ok {
			break
		}

		nextDoc, err := s.Navigate(ctx, next)
		if err != nil {
			log.Warn("reveal stopped", "cycle", cycle, "err", err)
			break
		}
		l.dismissOverlays(ctx, nextDoc)

		if acc.add(l.extractAll(nextDoc)) == 0 {
			log.Debug("no growth, reveal finished", "cycle", cycle)
			break
		}
		doc = nextDoc
	}

	if acc.nodes == 0 {
		return domain.RawBatch{}, fmt.Errorf(
			"%s: %w: no item nodes", op, domain.ErrEmptyResult,
		)
	}

	items, dropped := keepValid(acc.items, l.src.RequireCategory)
	batch := domain.RawBatch{Items: items, Malformed: dropped}
	if dropped != 0 {
		log.Info("malformed items dropped", "dropped", dropped)
	}
	if len(items) == 0 {
		return batch, fmt.Errorf(
			"%s: %w: %d malformed items", op, domain.ErrEmptyResult, dropped,
		)
	}
	return batch, nil
}

func (l listing) extractAll(doc *goquery.Document) (items []domain.RawItem) {
	doc.Find(l.itemSelector).Each(func(_ int, sel *goquery.Selection) {
		item, ok := l.extract(sel, doc.Url)
		if !ok {
			item = domain.RawItem{}
		}
		items = append(items, item)
	})
	return items
}

// dismissOverlays removes obstructing overlay nodes within the overlay
// timeout. A missing overlay is not an error.
func (l listing) dismissOverlays(ctx context.Context, doc *goquery.Document) {
	const op = "listing.dismissOverlays"

	if len(l.overlays) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, l.overlayTimeout)
	defer cancel()

	removed := 0
	for _, sel := range l.overlays {
		if ctx.Err() != nil {
			slog.Info("overlay dismissal timed out", "op", op, "source", l.src.Tag)
			return
		}
		found := doc.Find(sel)
		removed += found.Length()
		found.Remove()
	}
	if removed == 0 {
		slog.Debug("no overlay found", "op", op, "source", l.src.Tag)
	}
}

// An accumulator collects items across reveal cycles, skipping
// items already seen.
type accumulator struct {
	items []domain.RawItem
	seen  map[string]struct{}
	nodes int
}

// add returns the number of new identifiable items.
func (a *accumulator) add(items []domain.RawItem) (grown int) {
	if a.seen == nil {
		a.seen = make(map[string]struct{})
	}
	a.nodes += len(items)

	for _, item := range items {
		key := item.Link
		if key == "" {
			a.items = append(a.items, item)
			continue
		}
		if _, ok := a.seen[key]; ok {
			continue
		}
		a.seen[key] = struct{}{}
		a.items = append(a.items, item)
		grown++
	}
	return grown
}

func keepValid(
	items []domain.RawItem, requireCategory bool,
) (kept []domain.RawItem, dropped int) {
	for _, item := range items {
		if item.Validate(requireCategory) != nil {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	return kept, dropped
}

func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.First().Text()), " ")
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.First().Attr(name)
	return strings.TrimSpace(v)
}

// resolve makes href absolute against base. An empty href stays empty.
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// firstSrcsetURL returns the first candidate of a srcset attribute.
func firstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(srcset), ",")
	u, _, _ := strings.Cut(strings.TrimSpace(first), " ")
	return domain.NormalizeImageURL(u)
}
