package ingestion

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFeedItem_ToTransaction_TableDriven(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		wantErr   bool
		wantPrice string
		wantDate  time.Time
	}{
		{
			name:      "number price, RFC3339 date",
			raw:       `{"title":"Laptop","price":329.85,"description":"d","category":"electronics","sold":true,"dateOfSale":"2021-11-27T20:29:54+05:30","image":"x.jpg"}`,
			wantPrice: "329.85",
			wantDate:  time.Date(2021, 11, 27, 14, 59, 54, 0, time.UTC),
		},
		{
			name:      "string price, fractional seconds",
			raw:       `{"title":"Ring","price":"9.99","dateOfSale":"2022-03-01T10:00:00.000Z"}`,
			wantPrice: "9.99",
			wantDate:  time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "date only",
			raw:       `{"title":"Shirt","price":22,"dateOfSale":"2022-07-15"}`,
			wantPrice: "22",
			wantDate:  time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "null price is zero",
			raw:       `{"title":"Free","price":null}`,
			wantPrice: "0",
		},
		{name: "bad price", raw: `{"title":"X","price":"abc"}`, wantErr: true},
		{name: "negative price", raw: `{"title":"X","price":-1}`, wantErr: true},
		{name: "bad date", raw: `{"title":"X","price":1,"dateOfSale":"27/11/2021"}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var it FeedItem
			if err := json.Unmarshal([]byte(tc.raw), &it); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			rec, err := it.ToTransaction()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", rec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if rec.Price.String() != tc.wantPrice {
				t.Fatalf("price: want %s got %s", tc.wantPrice, rec.Price.String())
			}
			if !rec.DateOfSale.Equal(tc.wantDate) {
				t.Fatalf("date: want %v got %v", tc.wantDate, rec.DateOfSale)
			}
			if rec.ID != 0 {
				t.Fatalf("id must be left to storage, got %d", rec.ID)
			}
		})
	}
}

func TestToTransactions_FailsWholeBatch(t *testing.T) {
	items := []FeedItem{
		{Title: "ok", Price: json.RawMessage(`1`)},
		{Title: "bad", Price: json.RawMessage(`"nope"`)},
	}
	out, err := ToTransactions(items)
	if err == nil || out != nil {
		t.Fatalf("expected batch failure, got out=%v err=%v", out, err)
	}
}
