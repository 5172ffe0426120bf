package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFeed(url string, retries int) *FeedClient {
	c := NewFeedClient(url, FeedOptions{Timeout: 2 * time.Second, MaxRetries: retries, RatePerSec: 1000})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestFeedClient_FetchItems_TableDriven(t *testing.T) {
	cases := []struct {
		name      string
		statuses  []int
		body      string
		retries   int
		wantErr   bool
		wantCalls int32
		wantItems int
	}{
		{name: "ok", statuses: []int{200}, body: `[{"title":"a","price":1},{"title":"b","price":"2.5"}]`, wantCalls: 1, wantItems: 2},
		{name: "retries 503 then succeeds", statuses: []int{503, 200}, body: `[]`, retries: 2, wantCalls: 2},
		{name: "retries 429", statuses: []int{429, 429, 200}, body: `[{"title":"a"}]`, retries: 3, wantCalls: 3, wantItems: 1},
		{name: "gives up after max retries", statuses: []int{500, 500, 500}, retries: 2, wantErr: true, wantCalls: 3},
		{name: "404 is not retried", statuses: []int{404}, retries: 3, wantErr: true, wantCalls: 1},
		{name: "undecodable body", statuses: []int{200}, body: `{"not":"an array"}`, wantErr: true, wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				status := tc.statuses[len(tc.statuses)-1]
				if int(n) <= len(tc.statuses) {
					status = tc.statuses[n-1]
				}
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(tc.body))
				}
			}))
			defer srv.Close()

			items, err := newTestFeed(srv.URL, tc.retries).FetchItems(context.Background())
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
			} else if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got := atomic.LoadInt32(&calls); got != tc.wantCalls {
				t.Fatalf("calls: want %d got %d", tc.wantCalls, got)
			}
			if !tc.wantErr && len(items) != tc.wantItems {
				t.Fatalf("items: want %d got %d", tc.wantItems, len(items))
			}
		})
	}
}

func TestFeedClient_FetchRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"x"}]`))
	}))
	defer srv.Close()

	raw, err := newTestFeed(srv.URL, 0).FetchRaw(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(raw) != `[{"id":1,"title":"x"}]` {
		t.Fatalf("body not passed through: %s", raw)
	}
}

func TestFeedClient_FetchRaw_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	if _, err := newTestFeed(srv.URL, 0).FetchRaw(context.Background()); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestFeedClient_CanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestFeed(srv.URL, 5)
	c.sleep = func(context.Context, time.Duration) error { return context.Canceled }
	if _, err := c.FetchItems(context.Background()); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestAddJitter_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := addJitter(time.Second)
		if d < 500*time.Millisecond || d > 1500*time.Millisecond {
			t.Fatalf("jitter out of bounds: %v", d)
		}
	}
}
