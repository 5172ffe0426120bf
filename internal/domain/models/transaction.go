package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and sales totals are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction represents a single row of the transactions table.
//
// Rows are created only by the seeder (bulk replace from the feed) and are
// never mutated individually. ID is assigned by the database at insert time
// and is the sole ordering key for pagination.
//
// swagger:model Transaction
type Transaction struct {
	ID          int64           `json:"id" example:"1"`
	Title       string          `json:"title" example:"Fjallraven Backpack"`
	Description string          `json:"description" example:"Your perfect pack for everyday use"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"329.85"`
	Category    string          `json:"category" example:"men's clothing"`
	Sold        bool            `json:"sold" example:"false"`
	DateOfSale  time.Time       `json:"dateOfSale" example:"2021-11-27T20:29:54+05:30"`
	Image       string          `json:"image,omitempty" example:"https://example.com/image.jpg"`
}
