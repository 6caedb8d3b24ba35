package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
	"github.com/niksmo/good-goods/pkg/retry"
	"github.com/niksmo/good-goods/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ItemsPublisher = (*ItemsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	retry    retry.RetryConfig
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

// produce sends rs and retries only the records that failed, so an
// acknowledged record is never sent twice by this producer.
func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"

	pending := rs
	err := retry.Do(ctx, p.retry, func() error {
		var (
			failed   []*kgo.Record
			firstErr error
		)
		for _, res := range p.cl.ProduceSync(ctx, pending...) {
			if res.Err != nil {
				failed = append(failed, res.Record)
				if firstErr == nil {
					firstErr = res.Err
				}
			}
		}
		pending = failed
		return firstErr
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An ItemsProducer announces stored [domain.CatalogItem] to the change
// feed topic. Records are keyed by company.
type ItemsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewItemsProducer(opts ...ProducerOpt) (ItemsProducer, error) {
	const op = "NewItemsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ItemsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "ItemsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		retry: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
		},
	}

	return ItemsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p ItemsProducer) Close() {
	p.producer.close()
}

func (p ItemsProducer) PublishItems(
	ctx context.Context, vs []domain.CatalogItem,
) error {
	const op = "PublishItems"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	if len(vs) == 0 {
		return nil
	}

	rs, err := p.createRecords(vs)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	slog.Debug("items published", "op", makeOp(p.opPrefix, op), "nItems", len(rs))
	return nil
}

func (p ItemsProducer) createRecords(
	vs []domain.CatalogItem,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	rs = make([]*kgo.Record, 0, len(vs))
	for _, v := range vs {
		s := p.toSchema(v)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		r := &kgo.Record{Key: []byte(s.Company), Value: b}
		rs = append(rs, r)
	}

	return rs, nil
}

func (ItemsProducer) toSchema(v domain.CatalogItem) schema.CatalogItemV1 {
	return catalogItemToSchemaV1(v)
}
