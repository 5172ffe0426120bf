package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceRangeLabels(t *testing.T) {
	want := []string{"0-100", "101-200", "201-300", "301-400", "401-500", "501-600", "601-700", "701-800", "801-900", "901-above"}
	if len(PriceRanges) != len(want) {
		t.Fatalf("want %d ranges got %d", len(want), len(PriceRanges))
	}
	for i, r := range PriceRanges {
		if r.Label() != want[i] {
			t.Fatalf("range %d: want %q got %q", i, want[i], r.Label())
		}
	}
}

func TestPriceRangeIndex(t *testing.T) {
	cases := []struct {
		price string
		want  int
	}{
		{"0", 0},
		{"99.99", 0},
		{"100", 0},
		{"100.01", 1},
		{"100.50", 1},
		{"200", 1},
		{"450", 4},
		{"900", 8},
		{"900.01", 9},
		{"901", 9},
		{"15000", 9},
	}
	for _, tc := range cases {
		t.Run(tc.price, func(t *testing.T) {
			if got := PriceRangeIndex(decimal.RequireFromString(tc.price)); got != tc.want {
				t.Fatalf("price %s: want bucket %d got %d", tc.price, tc.want, got)
			}
		})
	}
}

func TestEmptyHistogram(t *testing.T) {
	h := EmptyHistogram()
	if len(h) != 10 || h[9].Range != "901-above" {
		t.Fatalf("unexpected histogram %+v", h)
	}
	for _, b := range h {
		if b.Count != 0 {
			t.Fatalf("expected zero counts, got %+v", b)
		}
	}
}

func TestFilterCriteria_Offset(t *testing.T) {
	five := 5
	cases := []struct {
		name string
		f    FilterCriteria
		want int64
	}{
		{name: "first page", f: FilterCriteria{Page: 1, PerPage: 10}, want: 0},
		{name: "third page", f: FilterCriteria{Page: 3, PerPage: 10}, want: 20},
		{name: "zero page treated as first", f: FilterCriteria{Page: 0, PerPage: 10}, want: 0},
		{name: "default per page", f: FilterCriteria{Page: 2}, want: 10},
		{name: "explicit offset wins", f: FilterCriteria{Page: 4, PerPage: 10, ExplicitOffset: &five}, want: 5},
		{name: "not clamped", f: FilterCriteria{Page: 99, PerPage: 10}, want: 980},
		{name: "huge page saturates", f: FilterCriteria{Page: math.MaxInt, PerPage: 10}, want: math.MaxInt64},
		{name: "overflowing product saturates", f: FilterCriteria{Page: 1844674407370955162, PerPage: 10}, want: math.MaxInt64},
		{name: "largest exact page", f: FilterCriteria{Page: 922337203685477581, PerPage: 10}, want: 9223372036854775800},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Offset(); got != tc.want {
				t.Fatalf("want %d got %d", tc.want, got)
			}
		})
	}
}

func TestSnapshotJSON_NumbersUnquoted(t *testing.T) {
	s := Snapshot{Statistics: SalesStatistics{TotalSales: decimal.RequireFromString("12.50")}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"totalSales":12.5`) {
		t.Fatalf("expected unquoted decimal, got %s", b)
	}
}
