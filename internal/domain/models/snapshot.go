package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnknownCategory labels records whose category is absent or blank.
const UnknownCategory = "Unknown"

// SalesStatistics summarizes the sold/unsold split of a filtered slice.
type SalesStatistics struct {
	TotalSales  decimal.Decimal `json:"totalSales" swaggertype:"number" example:"4520.75"`
	SoldItems   int64           `json:"soldItems" example:"12"`
	UnsoldItems int64           `json:"unsoldItems" example:"11"`
}

// PriceRangeCount is one histogram bucket.
type PriceRangeCount struct {
	Range string `json:"range" example:"101-200"`
	Count int64  `json:"count" example:"4"`
}

// CategoryCount is the number of records in one category.
type CategoryCount struct {
	Category string `json:"category" example:"electronics"`
	Count    int64  `json:"count" example:"6"`
}

// TransactionPage is one window of rows plus the total matching count.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total" example:"23"`
}

// Snapshot is every facet of the dashboard computed over one FilterCriteria.
//
// swagger:model Snapshot
type Snapshot struct {
	Transactions []Transaction     `json:"transactions"`
	Total        int64             `json:"total" example:"23"`
	Statistics   SalesStatistics   `json:"statistics"`
	BarChart     []PriceRangeCount `json:"barChart"`
	PieChart     []CategoryCount   `json:"pieChart"`
}

// PriceRange is a histogram bucket upper-bounded by Max (inclusive).
// Unbounded marks the last bucket, which has no upper limit.
type PriceRange struct {
	Min       int64
	Max       int64
	Unbounded bool
}

// Label renders "min-max", or "min-above" for the unbounded bucket.
func (r PriceRange) Label() string {
	if r.Unbounded {
		return fmt.Sprintf("%d-above", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// PriceRanges are the fixed histogram buckets in ascending order.
//
// A price belongs to the first bucket whose Max it does not exceed, so each
// bucket covers (previous Max, Max]. This leaves no gaps for fractional
// prices between the integer labels.
var PriceRanges = []PriceRange{
	{Min: 0, Max: 100},
	{Min: 101, Max: 200},
	{Min: 201, Max: 300},
	{Min: 301, Max: 400},
	{Min: 401, Max: 500},
	{Min: 501, Max: 600},
	{Min: 601, Max: 700},
	{Min: 701, Max: 800},
	{Min: 801, Max: 900},
	{Min: 901, Unbounded: true},
}

// PriceRangeIndex returns the index in PriceRanges that price falls into.
func PriceRangeIndex(price decimal.Decimal) int {
	for i, r := range PriceRanges {
		if r.Unbounded || price.LessThanOrEqual(decimal.NewFromInt(r.Max)) {
			return i
		}
	}
	return len(PriceRanges) - 1
}

// EmptyHistogram returns every bucket with a zero count.
func EmptyHistogram() []PriceRangeCount {
	out := make([]PriceRangeCount, len(PriceRanges))
	for i, r := range PriceRanges {
		out[i] = PriceRangeCount{Range: r.Label()}
	}
	return out
}
