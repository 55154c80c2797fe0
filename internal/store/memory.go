package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seenimoa/genassets/pkg/models"
)

// MemoryStore is a mutex-guarded in-process Repository.
type MemoryStore struct {
	mu         sync.RWMutex
	now        Clock
	indexes    map[uint64]models.Index
	stocks     map[uint64][]models.Stock
	historical map[uint64][]models.HistoricalPoint

	nextIndexID uint64
	nextStockID uint64
	nextPointID uint64
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the store clock.
func WithMemoryClock(c Clock) MemoryOption {
	return func(m *MemoryStore) { m.now = c }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		now:        time.Now,
		indexes:    make(map[uint64]models.Index),
		stocks:     make(map[uint64][]models.Stock),
		historical: make(map[uint64][]models.HistoricalPoint),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) CreateIndex(_ context.Context, idx models.Index) (models.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextIndexID++
	idx.ID = m.nextIndexID
	if idx.CreatedAt.IsZero() {
		idx.CreatedAt = m.now()
	}
	m.indexes[idx.ID] = idx
	return idx, nil
}

func (m *MemoryStore) GetIndex(_ context.Context, id uint64) (models.Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indexes[id]
	if !ok {
		return models.Index{}, fmt.Errorf("index %d: %w", id, ErrNotFound)
	}
	return idx, nil
}

func (m *MemoryStore) UpdateIndex(_ context.Context, id uint64, u models.IndexUpdate) (models.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indexes[id]
	if !ok {
		return models.Index{}, fmt.Errorf("index %d: %w", id, ErrNotFound)
	}
	u.Apply(&idx)
	m.indexes[id] = idx
	return idx, nil
}

func (m *MemoryStore) ListIndexes(_ context.Context) ([]models.Index, error) {
	m.mu.RLock()
	out := make([]models.Index, 0, len(m.indexes))
	for _, idx := range m.indexes {
		out = append(out, idx)
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) AddStock(_ context.Context, s models.Stock) (models.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.indexes[s.IndexID]; !ok {
		return models.Stock{}, fmt.Errorf("stock %s: index %d: %w", s.Symbol, s.IndexID, ErrNotFound)
	}
	m.nextStockID++
	s.ID = m.nextStockID
	m.stocks[s.IndexID] = append(m.stocks[s.IndexID], s)
	return s, nil
}

func (m *MemoryStore) StocksByIndex(_ context.Context, indexID uint64) ([]models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]models.Stock{}, m.stocks[indexID]...)
	sortStocks(out)
	return out, nil
}

func (m *MemoryStore) AddHistorical(_ context.Context, p models.HistoricalPoint) (models.HistoricalPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.indexes[p.IndexID]; !ok {
		return models.HistoricalPoint{}, fmt.Errorf("historical point: index %d: %w", p.IndexID, ErrNotFound)
	}
	m.nextPointID++
	p.ID = m.nextPointID
	m.historical[p.IndexID] = append(m.historical[p.IndexID], p)
	return p, nil
}

func (m *MemoryStore) HistoricalByIndex(_ context.Context, indexID uint64, days int) ([]models.HistoricalPoint, error) {
	m.mu.RLock()
	points := append([]models.HistoricalPoint(nil), m.historical[indexID]...)
	m.mu.RUnlock()

	return windowFilter(points, m.now(), days), nil
}

func (m *MemoryStore) PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error) {
	indexes, err := m.ListIndexes(ctx)
	if err != nil {
		return models.PortfolioSummary{}, err
	}

	m.mu.RLock()
	total := 0
	for _, s := range m.stocks {
		total += len(s)
	}
	m.mu.RUnlock()

	return summarize(indexes, total), nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
