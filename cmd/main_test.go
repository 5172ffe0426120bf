package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/salespulse/internal/domain/models"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return port
}

func TestServe_ContextCancelShutsDown(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- serve(ctx, dummyHandler{}, port, func() { close(cleaned) }) }()

	// wait until the server answers
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://127.0.0.1:" + port + "/")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
	select {
	case <-cleaned:
	default:
		t.Fatalf("cleanup not called")
	}
}

func TestServe_SignalPath(t *testing.T) {
	port := freePort(t)
	cleaned := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), dummyHandler{}, port, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(100 * time.Millisecond)

	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
	if err := <-done; err != nil {
		t.Fatalf("serve returned %v", err)
	}
}

func TestServe_ListenErrorRunsCleanup(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	_, busy, _ := net.SplitHostPort(l.Addr().String())

	cleaned := false
	err = serve(context.Background(), dummyHandler{}, busy, func() { cleaned = true })
	if err == nil {
		t.Fatalf("expected bind error on busy port")
	}
	if !cleaned {
		t.Fatalf("cleanup not called after listen failure")
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"api", "seed", "migrate", "snapshot"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
	if root.Flags().Lookup("port") == nil {
		t.Fatalf("root should accept api flags")
	}
}

func TestSeedCmd_MemoryDriver(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95,"description":"pack","category":"men's clothing","image":"","sold":false,"dateOfSale":"2021-11-27T20:29:54+05:30"},
			{"id":2,"title":"Laptop","price":"329.85","description":"fast","category":"electronics","image":"","sold":true,"dateOfSale":"2022-03-27T20:29:54+05:30"}
		]`))
	}))
	defer feed.Close()

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("FEED_URL", feed.URL)
	t.Setenv("LOG_LEVEL", "disabled")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"seed", "--timeout", "5s"})

	if err := root.Execute(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "seeded 2 transactions" {
		t.Fatalf("output %q", got)
	}
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "disabled")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestSnapshotCmd_PrintsSnapshot(t *testing.T) {
	var gotQuery string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactions":[],"total":0,"statistics":{"totalSales":0,"soldItems":0,"unsoldItems":0},"barChart":[],"pieChart":[]}`))
	}))
	defer api.Close()

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "disabled")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"snapshot", "--server", api.URL, "--month", "7", "--search", "bag"})

	if err := root.Execute(); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if gotQuery != "month=7&page=1&perPage=10&search=bag" {
		t.Fatalf("query %q", gotQuery)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("output is not a snapshot: %v (%s)", err, out.String())
	}
	if snap.Total != 0 || snap.Transactions == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
