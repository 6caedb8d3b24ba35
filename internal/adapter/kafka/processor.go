package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/good-goods/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A catalogItemCodec used for serde [schema.CatalogItemV1]
type catalogItemCodec struct {
	serde Serde
}

func newCatalogItemCodec(s Serde) catalogItemCodec {
	return catalogItemCodec{s}
}

func (c catalogItemCodec) Encode(v any) ([]byte, error) {
	const op = "catalogItemCodec.Encode"
	if _, ok := v.(schema.CatalogItemV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c catalogItemCodec) Decode(data []byte) (any, error) {
	const op = "catalogItemCodec.Decode"
	var s schema.CatalogItemV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A companyStatsCodec used for serde [schema.CompanyStatsV1] in the
// group table. Table values are not registered in the schema registry.
type companyStatsCodec struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newCompanyStatsCodec() companyStatsCodec {
	s := schema.CompanyStatsV1Avro()
	return companyStatsCodec{
		encode: schema.AvroEncodeFn(s),
		decode: schema.AvroDecodeFn(s),
	}
}

func (c companyStatsCodec) Encode(v any) ([]byte, error) {
	const op = "companyStatsCodec.Encode"
	if _, ok := v.(schema.CompanyStatsV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.encode(v)
}

func (c companyStatsCodec) Decode(data []byte) (any, error) {
	const op = "companyStatsCodec.Decode"
	var s schema.CompanyStatsV1
	if err := c.decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A CompanyStatsProcessor counts change feed items per company into
// its group table.
type CompanyStatsProcessor struct {
	opPrefix string
	proc     processor
}

func NewCompanyStatsProc(
	seedBrokers []string,
	inputStream string,
	group string,
	itemSerde Serde,
	opts ...goka.ProcessorOption,
) (*CompanyStatsProcessor, error) {
	const op = "NewCompanyStatsProc"

	p := CompanyStatsProcessor{opPrefix: "CompanyStatsProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newCatalogItemCodec(itemSerde),
			p.processFn,
		),
		goka.Persist(newCompanyStatsCodec()),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return &p, nil
}

func (p *CompanyStatsProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *CompanyStatsProcessor) Close() {
	p.proc.close()
}

func (p *CompanyStatsProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	item, _ := msg.(schema.CatalogItemV1)
	stats, _ := ctx.Value().(schema.CompanyStatsV1)

	stats.Company = ctx.Key()
	stats.Items++
	stats.LastItemID = item.ID
	ctx.SetValue(stats)

	slog.Debug(
		"company stats updated",
		"op", makeOp(p.opPrefix, op),
		"company", stats.Company,
		"items", stats.Items,
	)
}
