package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/salespulse/internal/domain/models"
	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TransactionsReader defines the read-side facet queries. Every method applies
// the same base predicate built by FilterConditions.
type TransactionsReader interface {
	ListTransactions(ctx context.Context, f models.FilterCriteria) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, f models.FilterCriteria) (int64, error)
	GetStatistics(ctx context.Context, f models.FilterCriteria) (models.SalesStatistics, error)
	GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error)
	GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error)
}

// TransactionsRepository defines contract for DB operations.
type TransactionsRepository interface {
	TransactionsReader

	// ReadSnapshot runs fn against a reader whose queries all observe the same
	// committed state of the table.
	ReadSnapshot(ctx context.Context, fn func(r TransactionsReader) error) error

	// ReplaceAll deletes every row and inserts records in one transaction,
	// returning the number of rows inserted.
	ReplaceAll(ctx context.Context, records []models.Transaction) (int, error)

	Ping(ctx context.Context) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type transactionsRepository struct {
	reader
	db *sql.DB
}

// NewTransactionsRepository returns a PostgreSQL-backed repository.
func NewTransactionsRepository(db *sql.DB) TransactionsRepository {
	return &transactionsRepository{reader: reader{q: db}, db: db}
}

func (r *transactionsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReadSnapshot opens a REPEATABLE READ, READ ONLY transaction so a concurrent
// reseed cannot skew one facet against another.
func (r *transactionsRepository) ReadSnapshot(ctx context.Context, fn func(r TransactionsReader) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(reader{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// ReplaceAll swaps the table contents inside one transaction, so readers see
// either the previous set or the new one, never an empty table.
func (r *transactionsRepository) ReplaceAll(ctx context.Context, records []models.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"transactions",
		"title",
		"description",
		"price",
		"category",
		"sold",
		"date_of_sale",
		"image",
	))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare copy: %w", err)
	}

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			toNullString(rec.Title),
			toNullString(rec.Description),
			rec.Price,
			toNullString(rec.Category),
			rec.Sold,
			toNullTime(rec.DateOfSale),
			toNullString(rec.Image),
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, fmt.Errorf("copy row: %w", err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("close copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	return len(records), nil
}

// reader implements TransactionsReader over a *sql.DB or a *sql.Tx.
type reader struct {
	q querier
}

const transactionColumns = "id, title, description, price, category, sold, date_of_sale, image"

// ListTransactions returns the requested window ordered by id.
func (r reader) ListTransactions(ctx context.Context, f models.FilterCriteria) ([]models.Transaction, error) {
	c := FilterConditions(f)
	query := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY id LIMIT %s OFFSET %s`,
		transactionColumns, c.Where(), c.Placeholder(f.Limit()), c.Placeholder(f.Offset()))

	rows, err := r.q.QueryContext(ctx, query, c.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Transaction, 0, f.Limit())
	for rows.Next() {
		var (
			rec                          models.Transaction
			title, desc, category, image sql.NullString
			dateOfSale                   sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &title, &desc, &rec.Price, &category, &rec.Sold, &dateOfSale, &image); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Title = title.String
		rec.Description = desc.String
		rec.Category = category.String
		rec.Image = image.String
		if dateOfSale.Valid {
			rec.DateOfSale = dateOfSale.Time
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// CountTransactions counts every row matching the base predicate.
func (r reader) CountTransactions(ctx context.Context, f models.FilterCriteria) (int64, error) {
	c := FilterConditions(f)
	var total int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM transactions %s`, c.Where())
	if err := r.q.QueryRowContext(ctx, query, c.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

// GetStatistics returns the sold total and sold/unsold counts in one pass.
func (r reader) GetStatistics(ctx context.Context, f models.FilterCriteria) (models.SalesStatistics, error) {
	c := FilterConditions(f)
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(price) FILTER (WHERE sold), 0) AS total_sales,
			COUNT(*) FILTER (WHERE sold) AS sold_items,
			COUNT(*) FILTER (WHERE NOT sold) AS unsold_items
		FROM transactions %s`, c.Where())

	var (
		stats models.SalesStatistics
		total decimal.NullDecimal
	)
	if err := r.q.QueryRowContext(ctx, query, c.Args()...).Scan(&total, &stats.SoldItems, &stats.UnsoldItems); err != nil {
		return models.SalesStatistics{}, fmt.Errorf("sales statistics: %w", err)
	}
	stats.TotalSales = decimal.Zero
	if total.Valid {
		stats.TotalSales = total.Decimal
	}
	return stats, nil
}

// GetPriceHistogram counts rows per fixed price bucket. Buckets without rows
// are still emitted with a zero count.
func (r reader) GetPriceHistogram(ctx context.Context, f models.FilterCriteria) ([]models.PriceRangeCount, error) {
	c := FilterConditions(f)
	query := fmt.Sprintf(`SELECT %s AS bucket, COUNT(*) FROM transactions %s GROUP BY bucket ORDER BY bucket`,
		bucketExpr(), c.Where())

	rows, err := r.q.QueryContext(ctx, query, c.Args()...)
	if err != nil {
		return nil, fmt.Errorf("price histogram: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := models.EmptyHistogram()
	for rows.Next() {
		var idx int
		var count int64
		if err := rows.Scan(&idx, &count); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("unexpected bucket index %d", idx)
		}
		out[idx].Count = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buckets: %w", err)
	}
	return out, nil
}

// GetCategoryCounts groups matching rows by category. Absent or blank
// categories are reported as models.UnknownCategory.
func (r reader) GetCategoryCounts(ctx context.Context, f models.FilterCriteria) ([]models.CategoryCount, error) {
	c := FilterConditions(f)
	query := fmt.Sprintf(`SELECT COALESCE(NULLIF(TRIM(category), ''), '%s') AS category, COUNT(*) FROM transactions %s GROUP BY 1`,
		models.UnknownCategory, c.Where())

	rows, err := r.q.QueryContext(ctx, query, c.Args()...)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// bucketExpr renders a CASE expression mapping price to its index in
// models.PriceRanges.
func bucketExpr() string {
	var b strings.Builder
	b.WriteString("CASE")
	last := len(models.PriceRanges) - 1
	for i, pr := range models.PriceRanges {
		if pr.Unbounded {
			last = i
			break
		}
		fmt.Fprintf(&b, " WHEN price <= %d THEN %d", pr.Max, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", last)
	return b.String()
}

func toNullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toNullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
