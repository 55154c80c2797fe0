package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
	"go.uber.org/zap"

	"github.com/seenimoa/genassets/pkg/models"
)

// Sequence keys live outside the badgerhold type prefixes.
var (
	indexSeqKey = []byte("seq:index")
	stockSeqKey = []byte("seq:stock")
	pointSeqKey = []byte("seq:historical")
)

const seqBandwidth = 100

// BadgerStore is a Repository backed by badgerhold. IDs come from
// native badger sequences.
type BadgerStore struct {
	store  *badgerhold.Store
	logger *zap.Logger
	now    Clock

	indexSeq *badger.Sequence
	stockSeq *badger.Sequence
	pointSeq *badger.Sequence
}

// BadgerOption configures a BadgerStore.
type BadgerOption func(*BadgerStore)

// WithBadgerClock overrides the store clock.
func WithBadgerClock(c Clock) BadgerOption {
	return func(b *BadgerStore) { b.now = c }
}

// OpenBadger opens (or creates) a badger database at path.
func OpenBadger(path string, logger *zap.Logger, opts ...BadgerOption) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Debug("opening badger database", zap.String("path", path))

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = badgerLogger{logger.Sugar().Named("badger")}

	s, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	b := &BadgerStore{store: s, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}

	db := s.Badger()
	if b.indexSeq, err = db.GetSequence(indexSeqKey, seqBandwidth); err == nil {
		if b.stockSeq, err = db.GetSequence(stockSeqKey, seqBandwidth); err == nil {
			b.pointSeq, err = db.GetSequence(pointSeqKey, seqBandwidth)
		}
	}
	if err != nil {
		b.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to lease id sequence: %w", err)
	}

	logger.Info("badger database initialized", zap.String("path", path))
	return b, nil
}

// nextID returns the next non-zero value of seq.
func nextID(seq *badger.Sequence) (uint64, error) {
	for {
		n, err := seq.Next()
		if err != nil {
			return 0, err
		}
		if n != 0 {
			return n, nil
		}
	}
}

func (b *BadgerStore) CreateIndex(_ context.Context, idx models.Index) (models.Index, error) {
	id, err := nextID(b.indexSeq)
	if err != nil {
		return models.Index{}, fmt.Errorf("failed to allocate index id: %w", err)
	}
	idx.ID = id
	if idx.CreatedAt.IsZero() {
		idx.CreatedAt = b.now()
	}
	if err := b.store.Insert(idx.ID, idx); err != nil {
		return models.Index{}, fmt.Errorf("failed to save index: %w", err)
	}
	return idx, nil
}

func (b *BadgerStore) GetIndex(_ context.Context, id uint64) (models.Index, error) {
	var idx models.Index
	if err := b.store.Get(id, &idx); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return models.Index{}, fmt.Errorf("index %d: %w", id, ErrNotFound)
		}
		return models.Index{}, fmt.Errorf("failed to get index: %w", err)
	}
	return idx, nil
}

func (b *BadgerStore) UpdateIndex(ctx context.Context, id uint64, u models.IndexUpdate) (models.Index, error) {
	var out models.Index
	err := b.store.Badger().Update(func(tx *badger.Txn) error {
		var idx models.Index
		if err := b.store.TxGet(tx, id, &idx); err != nil {
			return err
		}
		u.Apply(&idx)
		out = idx
		return b.store.TxUpdate(tx, id, idx)
	})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return models.Index{}, fmt.Errorf("index %d: %w", id, ErrNotFound)
		}
		return models.Index{}, fmt.Errorf("failed to update index: %w", err)
	}
	return out, nil
}

func (b *BadgerStore) ListIndexes(_ context.Context) ([]models.Index, error) {
	var indexes []models.Index
	if err := b.store.Find(&indexes, nil); err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	sortNewestFirst(indexes)
	return indexes, nil
}

func (b *BadgerStore) AddStock(ctx context.Context, s models.Stock) (models.Stock, error) {
	if _, err := b.GetIndex(ctx, s.IndexID); err != nil {
		return models.Stock{}, fmt.Errorf("stock %s: %w", s.Symbol, err)
	}
	id, err := nextID(b.stockSeq)
	if err != nil {
		return models.Stock{}, fmt.Errorf("failed to allocate stock id: %w", err)
	}
	s.ID = id
	if err := b.store.Insert(s.ID, s); err != nil {
		return models.Stock{}, fmt.Errorf("failed to save stock: %w", err)
	}
	return s, nil
}

func (b *BadgerStore) StocksByIndex(_ context.Context, indexID uint64) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := b.store.Find(&stocks, badgerhold.Where("IndexID").Eq(indexID)); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}
	sortStocks(stocks)
	return stocks, nil
}

func (b *BadgerStore) AddHistorical(ctx context.Context, p models.HistoricalPoint) (models.HistoricalPoint, error) {
	if _, err := b.GetIndex(ctx, p.IndexID); err != nil {
		return models.HistoricalPoint{}, fmt.Errorf("historical point: %w", err)
	}
	id, err := nextID(b.pointSeq)
	if err != nil {
		return models.HistoricalPoint{}, fmt.Errorf("failed to allocate historical id: %w", err)
	}
	p.ID = id
	if err := b.store.Insert(p.ID, p); err != nil {
		return models.HistoricalPoint{}, fmt.Errorf("failed to save historical point: %w", err)
	}
	return p, nil
}

func (b *BadgerStore) HistoricalByIndex(_ context.Context, indexID uint64, days int) ([]models.HistoricalPoint, error) {
	var points []models.HistoricalPoint
	if err := b.store.Find(&points, badgerhold.Where("IndexID").Eq(indexID)); err != nil {
		return nil, fmt.Errorf("failed to list historical points: %w", err)
	}
	return windowFilter(points, b.now(), days), nil
}

func (b *BadgerStore) PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error) {
	indexes, err := b.ListIndexes(ctx)
	if err != nil {
		return models.PortfolioSummary{}, err
	}
	var stocks []models.Stock
	if err := b.store.Find(&stocks, nil); err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("failed to count stocks: %w", err)
	}
	return summarize(indexes, len(stocks)), nil
}

// Close releases the leased sequences and closes the database.
func (b *BadgerStore) Close() error {
	for _, seq := range []*badger.Sequence{b.indexSeq, b.stockSeq, b.pointSeq} {
		if seq == nil {
			continue
		}
		if err := seq.Release(); err != nil {
			b.logger.Warn("failed to release sequence", zap.Error(err))
		}
	}
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// badgerLogger adapts zap to badger's logger interface.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
