package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/guttosm/salespulse/internal/middleware"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&mockAggService{snap: sampleSnapshot()}, &mockSeeder{})
	r := NewRouter(h, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}, RateLimitPerMin: 100})

	req := httptest.NewRequest(http.MethodGet, "/api/combined?month=3&page=1&perPage=10", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected CORS origin header %q", got)
	}

	var out models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Total != 23 || len(out.BarChart) != 10 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_RoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockAggService{snap: sampleSnapshot()}, &mockSeeder{raw: []byte(`[]`)}), RouterOptions{})

	want := map[string]bool{
		"/api/init": false, "/api/combined": false, "/api/transactions": false, "/api/statistics": false,
		"/api/barchart": false, "/api/piechart": false, "/api/external": false, "/swagger/*any": false,
	}
	for _, ri := range r.Routes() {
		if _, ok := want[ri.Path]; ok && ri.Method == http.MethodGet {
			want[ri.Path] = true
		}
	}
	for path, ok := range want {
		if !ok {
			t.Fatalf("route %s not registered", path)
		}
	}
}

func TestNewRouter_DisallowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockAggService{snap: sampleSnapshot()}, &mockSeeder{}), RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed origin, got %d", w.Code)
	}
}

func TestCorsConfig_Wildcard(t *testing.T) {
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins {
		t.Fatalf("expected allow-all for *")
	}
	if cfg := corsConfig(nil); !cfg.AllowAllOrigins {
		t.Fatalf("expected allow-all when empty")
	}
}

type deadlineSeeder struct {
	mockSeeder
	hasDeadline bool
}

func (d *deadlineSeeder) Reseed(ctx context.Context) (int, error) {
	_, d.hasDeadline = ctx.Deadline()
	return 3, nil
}

type deadlineService struct {
	*mockAggService
	hasDeadline bool
}

func (d *deadlineService) GetSnapshot(ctx context.Context, f models.FilterCriteria) (*models.Snapshot, error) {
	_, d.hasDeadline = ctx.Deadline()
	return d.mockAggService.GetSnapshot(ctx, f)
}

func TestNewRouter_RequestTimeoutSkipsFeedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &deadlineService{mockAggService: &mockAggService{snap: sampleSnapshot()}}
	seeder := &deadlineSeeder{}
	r := NewRouter(NewHandler(svc, seeder), RouterOptions{RequestTimeout: time.Second})

	for _, path := range []string{"/api/init", "/api/combined"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", path, w.Code, w.Body.String())
		}
	}
	if seeder.hasDeadline {
		t.Fatalf("/api/init must not inherit the request timeout")
	}
	if !svc.hasDeadline {
		t.Fatalf("/api/combined should run under the request timeout")
	}
}
