package service

import (
	"context"
	"sort"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/guttosm/salespulse/internal/storage"
)

// AggregateService defines business logic for computing dashboard facets.
//
// Every method applies the same base predicate (month + search) built from
// the given FilterCriteria. Storage failures are returned as
// apperror.StorageUnavailable and no partial result is ever returned.
type AggregateService interface {
	GetSnapshot(ctx context.Context, f models.FilterCriteria) (*models.Snapshot, error)
	ListTransactions(ctx context.Context, f models.FilterCriteria) (*models.TransactionPage, error)
	GetStatistics(ctx context.Context, f models.FilterCriteria) (*models.SalesStatistics, error)
	GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error)
	GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error)
}

type aggregateService struct {
	repo storage.TransactionsRepository
}

func NewAggregateService(repo storage.TransactionsRepository) AggregateService {
	return &aggregateService{repo: repo}
}

// GetSnapshot computes all five facets inside one read snapshot so they
// describe the same slice of data even if a reseed runs concurrently.
func (s *aggregateService) GetSnapshot(ctx context.Context, f models.FilterCriteria) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := s.repo.ReadSnapshot(ctx, func(r storage.TransactionsReader) error {
		page, err := listPage(ctx, r, f)
		if err != nil {
			return err
		}
		stats, err := r.GetStatistics(ctx, f)
		if err != nil {
			return err
		}
		hist, err := r.GetPriceHistogram(ctx, f)
		if err != nil {
			return err
		}
		cats, err := r.GetCategoryCounts(ctx, f)
		if err != nil {
			return err
		}

		snap = models.Snapshot{
			Transactions: page.Transactions,
			Total:        page.Total,
			Statistics:   stats,
			BarChart:     hist,
			PieChart:     sortCategories(cats),
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Storage("compute snapshot", err)
	}
	return &snap, nil
}

func (s *aggregateService) ListTransactions(ctx context.Context, f models.FilterCriteria) (*models.TransactionPage, error) {
	var page *models.TransactionPage
	err := s.repo.ReadSnapshot(ctx, func(r storage.TransactionsReader) error {
		p, err := listPage(ctx, r, f)
		page = p
		return err
	})
	if err != nil {
		return nil, apperror.Storage("list transactions", err)
	}
	return page, nil
}

func (s *aggregateService) GetStatistics(ctx context.Context, f models.FilterCriteria) (*models.SalesStatistics, error) {
	stats, err := s.repo.GetStatistics(ctx, f)
	if err != nil {
		return nil, apperror.Storage("sales statistics", err)
	}
	return &stats, nil
}

func (s *aggregateService) GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error) {
	hist, err := s.repo.GetPriceHistogram(ctx, f)
	if err != nil {
		return nil, apperror.Storage("price histogram", err)
	}
	return hist, nil
}

func (s *aggregateService) GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error) {
	cats, err := s.repo.GetCategoryCounts(ctx, f)
	if err != nil {
		return nil, apperror.Storage("category counts", err)
	}
	return sortCategories(cats), nil
}

func listPage(ctx context.Context, r storage.TransactionsReader, f models.FilterCriteria) (*models.TransactionPage, error) {
	rows, err := r.ListTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := r.CountTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Transaction{}
	}
	return &models.TransactionPage{Transactions: rows, Total: total}, nil
}

// sortCategories orders by count desc, then name, and never returns nil.
func sortCategories(cats []models.CategoryCount) []models.CategoryCount {
	out := make([]models.CategoryCount, len(cats))
	copy(out, cats)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
