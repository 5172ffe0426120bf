package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-process TransactionsRepository with the same
// filter semantics as the PostgreSQL implementation. It backs local runs
// (STORAGE_DRIVER=memory) and property tests.
//
// ReplaceAll swaps the whole slice under the write lock; readers work on the
// slice they captured, so a snapshot never observes a half-replaced table.
type MemoryRepository struct {
	mu     sync.RWMutex
	rows   []models.Transaction
	nextID int64
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) Ping(context.Context) error { return nil }

func (m *MemoryRepository) ReplaceAll(ctx context.Context, records []models.Transaction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rows := make([]models.Transaction, len(records))

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range records {
		rec.ID = m.nextID
		m.nextID++
		rows[i] = rec
	}
	m.rows = rows
	return len(rows), nil
}

func (m *MemoryRepository) ReadSnapshot(ctx context.Context, fn func(r TransactionsReader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m.frozen())
}

func (m *MemoryRepository) ListTransactions(ctx context.Context, f models.FilterCriteria) ([]models.Transaction, error) {
	return m.frozen().ListTransactions(ctx, f)
}

func (m *MemoryRepository) CountTransactions(ctx context.Context, f models.FilterCriteria) (int64, error) {
	return m.frozen().CountTransactions(ctx, f)
}

func (m *MemoryRepository) GetStatistics(ctx context.Context, f models.FilterCriteria) (models.SalesStatistics, error) {
	return m.frozen().GetStatistics(ctx, f)
}

func (m *MemoryRepository) GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error) {
	return m.frozen().GetPriceHistogram(ctx, f)
}

func (m *MemoryRepository) GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error) {
	return m.frozen().GetCategoryCounts(ctx, f)
}

func (m *MemoryRepository) frozen() memoryReader {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memoryReader{rows: m.rows}
}

// memoryReader evaluates facets over an immutable slice ordered by ID.
type memoryReader struct {
	rows []models.Transaction
}

func (r memoryReader) filter(ctx context.Context, f models.FilterCriteria) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Transaction
	for _, rec := range r.rows {
		if matchesSearch(rec, search) && (!f.MonthFiltered() || matchesMonth(rec, f.Month)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r memoryReader) ListTransactions(ctx context.Context, f models.FilterCriteria) ([]models.Transaction, error) {
	matched, err := r.filter(ctx, f)
	if err != nil {
		return nil, err
	}
	offset := f.Offset()
	if offset < 0 || offset >= int64(len(matched)) {
		return []models.Transaction{}, nil
	}
	end := min(int(offset)+f.Limit(), len(matched))
	return append([]models.Transaction(nil), matched[int(offset):end]...), nil
}

func (r memoryReader) CountTransactions(ctx context.Context, f models.FilterCriteria) (int64, error) {
	matched, err := r.filter(ctx, f)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r memoryReader) GetStatistics(ctx context.Context, f models.FilterCriteria) (models.SalesStatistics, error) {
	matched, err := r.filter(ctx, f)
	if err != nil {
		return models.SalesStatistics{}, err
	}
	stats := models.SalesStatistics{TotalSales: decimal.Zero}
	for _, rec := range matched {
		if rec.Sold {
			stats.TotalSales = stats.TotalSales.Add(rec.Price)
			stats.SoldItems++
		} else {
			stats.UnsoldItems++
		}
	}
	return stats, nil
}

func (r memoryReader) GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error) {
	matched, err := r.filter(ctx, f)
	if err != nil {
		return nil, err
	}
	out := models.EmptyHistogram()
	for _, rec := range matched {
		out[models.PriceRangeIndex(rec.Price)].Count++
	}
	return out, nil
}

func (r memoryReader) GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error) {
	matched, err := r.filter(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, rec := range matched {
		counts[categoryKey(rec.Category)]++
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// matchesSearch mirrors the SQL predicate: an empty search matches every row.
// Price is compared in its NUMERIC(12,2) text form.
func matchesSearch(rec models.Transaction, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), lowered) ||
		strings.Contains(strings.ToLower(rec.Description), lowered) ||
		strings.Contains(rec.Price.StringFixed(2), lowered)
}

// matchesMonth compares the calendar month in UTC, matching a UTC database session.
func matchesMonth(rec models.Transaction, month int) bool {
	if rec.DateOfSale.IsZero() {
		return false
	}
	return int(rec.DateOfSale.UTC().Month()) == month
}

func categoryKey(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return models.UnknownCategory
}
