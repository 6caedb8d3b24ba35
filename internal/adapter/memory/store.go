// Package memory is an in-process catalog store keeping insertion order.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/niksmo/good-goods/internal/core/domain"
	"github.com/niksmo/good-goods/internal/core/port"
)

var _ port.CatalogStore = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	items []domain.CatalogItem
	links map[string]struct{}
}

func New() *Store {
	return &Store{links: make(map[string]struct{})}
}

// InsertMany appends items with unseen links. Items without an id get
// a fresh one.
func (s *Store) InsertMany(
	ctx context.Context, items []domain.CatalogItem,
) ([]domain.CatalogItem, error) {
	const op = "memory.Store.InsertMany"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if _, ok := s.links[item.Link]; ok {
			continue
		}
		s.links[item.Link] = struct{}{}

		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Tags = slices.Clone(item.Tags)
		s.items = append(s.items, item)
		stored = append(stored, item)
	}
	return stored, nil
}

func (s *Store) Find(
	ctx context.Context, f domain.FilterSpec, skip, limit int,
) ([]domain.CatalogItem, error) {
	const op = "memory.Store.Find"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogItem, 0, limit)
	matched := 0
	for _, item := range s.items {
		if !f.Matches(item) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		if len(out) == limit {
			break
		}
		item.Tags = slices.Clone(item.Tags)
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f domain.FilterSpec) (int, error) {
	const op = "memory.Store.Count"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, item := range s.items {
		if f.Matches(item) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DistinctTags(ctx context.Context) ([]string, error) {
	const op = "memory.Store.DistinctTags"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, item := range s.items {
		for _, t := range item.Tags {
			set[t] = struct{}{}
		}
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags, nil
}

func (s *Store) Close() {}
