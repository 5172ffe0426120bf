package models

import "math"

const (
	// MonthUnfiltered disables the month predicate.
	MonthUnfiltered = 0
	DefaultPerPage  = 10
	MaxPerPage      = 100
)

// FilterCriteria holds the per-request filter applied identically to every
// facet of a snapshot.
//
// Fields:
//   - Month: calendar month 1-12, or MonthUnfiltered.
//   - Search: case-insensitive substring over title, description and price.
//     Empty means "match everything".
//   - Page: 1-based page index.
//   - PerPage: page size.
//   - ExplicitOffset: when non-nil, overrides the offset derived from Page.
type FilterCriteria struct {
	Month          int
	Search         string
	Page           int
	PerPage        int
	ExplicitOffset *int
}

// DefaultFilter returns an unfiltered first page of DefaultPerPage rows.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{Month: MonthUnfiltered, Page: 1, PerPage: DefaultPerPage}
}

// MonthFiltered reports whether the month predicate is active.
func (f FilterCriteria) MonthFiltered() bool {
	return f.Month != MonthUnfiltered
}

// Limit returns the page size, falling back to DefaultPerPage.
func (f FilterCriteria) Limit() int {
	if f.PerPage <= 0 {
		return DefaultPerPage
	}
	return f.PerPage
}

// Offset returns the row offset of the requested page. It is not clamped to
// the number of matching rows: a page past the end is simply empty.
// Offsets that would overflow saturate at math.MaxInt64.
func (f FilterCriteria) Offset() int64 {
	if f.ExplicitOffset != nil {
		if *f.ExplicitOffset < 0 {
			return 0
		}
		return int64(*f.ExplicitOffset)
	}
	page := int64(f.Page)
	if page < 1 {
		page = 1
	}
	limit := int64(f.Limit())
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}
