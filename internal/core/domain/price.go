package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice interprets a free-form display price such as "$1,049.50"
// by dropping every character that is neither a digit nor a dot.
func ParsePrice(s string) (decimal.Decimal, error) {
	const op = "domain.ParsePrice"

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)

	if digits == "" {
		return decimal.Zero, fmt.Errorf(
			"%s: %w: no digits in price %q", op, ErrMalformedItem, s,
		)
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf(
			"%s: %w: price %q: %w", op, ErrMalformedItem, s, err,
		)
	}
	return d, nil
}

// A PriceBucket is a price range token used by filters.
type PriceBucket string

const (
	PriceAny      PriceBucket = ""
	PriceLess50   PriceBucket = "less-50"
	Price50to100  PriceBucket = "50-100"
	Price100to200 PriceBucket = "100-200"
	Price200to500 PriceBucket = "200-500"
	PriceMore500  PriceBucket = "more-500"
)

// PriceBuckets lists the buckets in ascending order.
var PriceBuckets = []PriceBucket{
	PriceLess50,
	Price50to100,
	Price100to200,
	Price200to500,
	PriceMore500,
}

var bucketBounds = map[PriceBucket][2]int64{
	PriceLess50:   {0, 50},
	Price50to100:  {50, 100},
	Price100to200: {100, 200},
	Price200to500: {200, 500},
	PriceMore500:  {500, -1},
}

func ParsePriceBucket(s string) (PriceBucket, error) {
	const op = "domain.ParsePriceBucket"
	b := PriceBucket(strings.TrimSpace(s))
	if b == PriceAny {
		return PriceAny, nil
	}
	if _, ok := bucketBounds[b]; !ok {
		return PriceAny, fmt.Errorf(
			"%s: %w: unknown price bucket %q", op, ErrInvalidFilter, s,
		)
	}
	return b, nil
}

// Bounds returns the left-closed lower bound and the right-open upper bound.
// The upper bound is invalid for the topmost bucket.
func (b PriceBucket) Bounds() (lo decimal.Decimal, hi decimal.NullDecimal) {
	bounds, ok := bucketBounds[b]
	if !ok {
		return decimal.Zero, decimal.NullDecimal{}
	}
	lo = decimal.NewFromInt(bounds[0])
	if bounds[1] >= 0 {
		hi = decimal.NewNullDecimal(decimal.NewFromInt(bounds[1]))
	}
	return lo, hi
}

// Contains reports whether price falls in the bucket.
// The empty bucket contains every price.
func (b PriceBucket) Contains(price decimal.Decimal) bool {
	if b == PriceAny {
		return true
	}
	lo, hi := b.Bounds()
	if price.LessThan(lo) {
		return false
	}
	return !hi.Valid || price.LessThan(hi.Decimal)
}

// BucketOf returns the unique bucket holding price.
func BucketOf(price decimal.Decimal) PriceBucket {
	for _, b := range PriceBuckets {
		if b.Contains(price) {
			return b
		}
	}
	return PriceAny
}
