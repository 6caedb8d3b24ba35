package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/good-goods/internal/core/port"
	"github.com/niksmo/good-goods/pkg/schema"
)

var _ port.CompanyStatsReader = (*CompanyStatsView)(nil)

type tableGetter interface {
	Get(key string) (any, error)
}

// A CompanyStatsView reads the company stats group table.
type CompanyStatsView struct {
	gv    *goka.View
	table tableGetter
}

func NewCompanyStatsView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (*CompanyStatsView, error) {
	const op = "NewCompanyStatsView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		newCompanyStatsCodec(),
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &CompanyStatsView{gv: gv, table: gv}, nil
}

func (v *CompanyStatsView) Run(ctx context.Context) {
	const op = "CompanyStatsView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// CompanyCounts returns the number of announced items for every company.
// Companies missing from the table count zero.
func (v *CompanyStatsView) CompanyCounts(
	ctx context.Context, companies []string,
) (map[string]int64, error) {
	const op = "CompanyStatsView.CompanyCounts"

	counts := make(map[string]int64, len(companies))
	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return nil, opErr(err, op)
		}

		value, err := v.table.Get(company)
		if err != nil {
			return nil, opErr(err, op)
		}
		if value == nil {
			counts[company] = 0
			continue
		}

		stats, ok := value.(schema.CompanyStatsV1)
		if !ok {
			return nil, opErr(
				fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
			)
		}
		counts[company] = stats.Items
	}
	return counts, nil
}
