package domain

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	paramTags       = "tags"
	paramCategories = "categories"
	paramCompanies  = "companies"
	paramPrice      = "price"
	paramPage       = "page"
)

// A FilterSpec selects a page of the catalog.
//
// An empty dimension puts no constraint on the result.
type FilterSpec struct {
	Tags       []string
	Categories []string
	Companies  []string
	Price      PriceBucket
	Page       int
}

// Normalize returns a copy with sorted and deduplicated dimensions
// and the page clamped to 1.
func (f FilterSpec) Normalize() FilterSpec {
	return FilterSpec{
		Tags:       normalizeSet(f.Tags),
		Categories: normalizeSet(f.Categories),
		Companies:  normalizeSet(f.Companies),
		Price:      f.Price,
		Page:       max(f.Page, 1),
	}
}

// Skip returns the offset of the filter page.
func (f FilterSpec) Skip(pageSize int) int {
	return (max(f.Page, 1) - 1) * pageSize
}

// Matches reports whether item satisfies every constraint of the filter.
// Tags use all-of semantics, categories and companies use membership.
func (f FilterSpec) Matches(item CatalogItem) bool {
	for _, tag := range f.Tags {
		if !item.HasTag(tag) {
			return false
		}
	}

	if len(f.Categories) != 0 &&
		!slices.Contains(f.Categories, string(item.Category)) {
		return false
	}

	if len(f.Companies) != 0 && !slices.Contains(f.Companies, item.Company) {
		return false
	}

	if f.Price != PriceAny {
		price, err := ParsePrice(item.Price)
		if err != nil || !f.Price.Contains(price) {
			return false
		}
	}
	return true
}

// Values encodes the filter as URL query values. Empty dimensions are omitted.
func (f FilterSpec) Values(withPage bool) url.Values {
	n := f.Normalize()
	v := make(url.Values)
	for _, t := range n.Tags {
		v.Add(paramTags, t)
	}
	for _, c := range n.Categories {
		v.Add(paramCategories, c)
	}
	for _, c := range n.Companies {
		v.Add(paramCompanies, c)
	}
	if n.Price != PriceAny {
		v.Set(paramPrice, string(n.Price))
	}
	if withPage && n.Page > 1 {
		v.Set(paramPage, strconv.Itoa(n.Page))
	}
	return v
}

// Key is the canonical serialization of the filter without the page.
// Equivalent filters produce the same key regardless of value order.
func (f FilterSpec) Key() string {
	return f.Values(false).Encode()
}

// FilterFromValues decodes URL query values. Multi-valued dimensions
// accept repeated keys, comma-joined values or both.
func FilterFromValues(v url.Values) (FilterSpec, error) {
	const op = "domain.FilterFromValues"

	price, err := ParsePriceBucket(v.Get(paramPrice))
	if err != nil {
		return FilterSpec{}, fmt.Errorf("%s: %w", op, err)
	}

	page := 1
	if s := v.Get(paramPage); s != "" {
		page, err = strconv.Atoi(s)
		if err != nil || page < 1 {
			return FilterSpec{}, fmt.Errorf(
				"%s: %w: page %q", op, ErrInvalidFilter, s,
			)
		}
	}

	f := FilterSpec{
		Tags:       splitValues(v[paramTags]),
		Categories: splitValues(v[paramCategories]),
		Companies:  splitValues(v[paramCompanies]),
		Price:      price,
		Page:       page,
	}
	return f.Normalize(), nil
}

func splitValues(vs []string) (out []string) {
	for _, v := range vs {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func normalizeSet(vs []string) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
