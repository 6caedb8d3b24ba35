package source

import (
	"fmt"
	"slices"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

// A Registry selects adapters by their variant tag.
type Registry struct {
	adapters map[string]port.SourceAdapter
}

func NewRegistry(cfg Config) Registry {
	cfg = cfg.normalize()
	r := Registry{adapters: make(map[string]port.SourceAdapter)}
	for _, l := range []listing{
		newMadeTrade(cfg),
		newOuterknown(cfg),
		newPatagonia(cfg),
	} {
		r.adapters[l.src.Tag] = l
	}
	return r
}

// Tags lists the known variant tags in sorted order.
func (r Registry) Tags() []string {
	tags := make([]string, 0, len(r.adapters))
	for tag := range r.adapters {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func (r Registry) Get(tag string) (port.SourceAdapter, error) {
	const op = "Registry.Get"
	a, ok := r.adapters[tag]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, domain.ErrUnknownSource, tag)
	}
	return a, nil
}

// Select returns the adapters for tags, or all of them when tags is empty.
func (r Registry) Select(tags []string) ([]port.SourceAdapter, error) {
	const op = "Registry.Select"

	if len(tags) == 0 {
		tags = r.Tags()
	}

	adapters := make([]port.SourceAdapter, 0, len(tags))
	for _, tag := range tags {
		a, err := r.Get(tag)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func listingURL(cfg Config, tag, fallback string) string {
	if u, ok := cfg.ListingURLs[tag]; ok && u != "" {
		return u
	}
	return fallback
}
