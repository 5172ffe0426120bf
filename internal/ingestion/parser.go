package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/salespulse/internal/domain/models"
)

// FeedItem is one element of the feed array as it arrives on the wire.
// Price and DateOfSale are kept raw and coerced by ToTransaction.
type FeedItem struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Title       string          `json:"title"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Sold        bool            `json:"sold"`
	DateOfSale  string          `json:"dateOfSale"`
}

// dateLayouts are tried in order when parsing dateOfSale.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToTransaction maps a feed item onto a record. No transformation is applied
// beyond type coercion; the ID is left for storage to assign.
func (it FeedItem) ToTransaction() (models.Transaction, error) {
	price, err := parsePrice(it.Price)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("item %q: %w", it.Title, err)
	}
	date, err := parseDate(it.DateOfSale)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("item %q: %w", it.Title, err)
	}
	return models.Transaction{
		Title:       it.Title,
		Description: it.Description,
		Price:       price,
		Category:    it.Category,
		Sold:        it.Sold,
		DateOfSale:  date,
		Image:       it.Image,
	}, nil
}

// ToTransactions converts every item, failing on the first bad one so a
// partial feed never replaces the table.
func ToTransactions(items []FeedItem) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0, len(items))
	for i, it := range items {
		rec, err := it.ToTransaction()
		if err != nil {
			return nil, fmt.Errorf("feed item %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// parsePrice accepts a JSON number or a numeric string. Missing or null
// prices become zero; negative prices are rejected.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, fmt.Errorf("price: %w", err)
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return decimal.Zero, nil
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price %s: %w", text, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price %s is negative", text)
	}
	return d.Round(2), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("dateOfSale %q: unsupported format", s)
}
