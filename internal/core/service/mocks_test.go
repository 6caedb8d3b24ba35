package service_test

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Navigate(
	ctx context.Context, url string,
) (*goquery.Document, error) {
	args := m.Called(ctx, url)
	doc, _ := args.Get(0).(*goquery.Document)
	return doc, args.Error(1)
}

func (m *MockSession) Close() error {
	return m.Called().Error(0)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Open(ctx context.Context) (port.Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(port.Session)
	return s, args.Error(1)
}

type MockAdapter struct {
	mock.Mock
	src domain.Source
}

func (m *MockAdapter) Source() domain.Source {
	return m.src
}

func (m *MockAdapter) FetchRawItems(
	ctx context.Context, s port.Session,
) (domain.RawBatch, error) {
	args := m.Called(ctx, s)
	batch, _ := args.Get(0).(domain.RawBatch)
	return batch, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) InsertMany(
	ctx context.Context, items []domain.CatalogItem,
) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, items)
	if fn, ok := args.Get(0).(func([]domain.CatalogItem) []domain.CatalogItem); ok {
		return fn(items), args.Error(1)
	}
	stored, _ := args.Get(0).([]domain.CatalogItem)
	return stored, args.Error(1)
}

// storeAll reports every item passed to InsertMany as stored.
func storeAll(items []domain.CatalogItem) []domain.CatalogItem {
	return items
}

func (m *MockStore) Find(
	ctx context.Context, f domain.FilterSpec, skip, limit int,
) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, f, skip, limit)
	items, _ := args.Get(0).([]domain.CatalogItem)
	return items, args.Error(1)
}

func (m *MockStore) Count(ctx context.Context, f domain.FilterSpec) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) DistinctTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishItems(
	ctx context.Context, items []domain.CatalogItem,
) error {
	return m.Called(ctx, items).Error(0)
}

type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) Run(
	ctx context.Context, a port.SourceAdapter,
) (domain.IngestReport, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(domain.IngestReport), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(
	name, rawCategory string,
) (domain.Category, []string) {
	args := m.Called(name, rawCategory)
	tags, _ := args.Get(1).([]string)
	return args.Get(0).(domain.Category), tags
}
