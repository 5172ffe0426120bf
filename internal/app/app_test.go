package app

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/salespulse/config"
	"github.com/guttosm/salespulse/internal/storage"
)

func testConfig(driver string) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:            "8080",
			RateLimitPerMin: 60,
			RequestTimeout:  time.Second,
		},
		StorageDriver: driver,
		Postgres: config.PostgresConfig{
			Host:     "127.0.0.1",
			Port:     54329, // unlikely mapped
			User:     "x",
			Password: "y",
			DBName:   "z",
			SSLMode:  "disable",
		},
		Feed: config.FeedConfig{URL: "http://feed.invalid/items.json", Timeout: time.Second, MaxRetries: 0, RatePerSec: 1},
	}
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	db, err := InitPostgres(testConfig(config.DriverPostgres))
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = testConfig(config.DriverPostgres)

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	oldOpen, oldMigrate, oldCfg := postgresOpener, migrator, config.AppConfig
	migrated := false
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { migrated = true; return nil }
	config.AppConfig = testConfig(config.DriverPostgres)
	config.AppConfig.Server.MigrateOnStart = true
	t.Cleanup(func() {
		postgresOpener, migrator, config.AppConfig = oldOpen, oldMigrate, oldCfg
	})

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err=%v", err)
	}
	if !migrated {
		t.Fatalf("expected migrations to run on start")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
	}

	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildDependencies_MigrationFailureClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { return errors.New("dirty schema") }
	t.Cleanup(func() { postgresOpener, migrator = oldOpen, oldMigrate })

	cfg := testConfig(config.DriverPostgres)
	cfg.Server.MigrateOnStart = true
	if _, err := BuildDependencies(cfg); err == nil {
		t.Fatalf("expected migration error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("db not closed: %v", err)
	}
}

func TestBuildDependencies_SkipsMigrationWhenDisabled(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { t.Fatalf("migrator must not run"); return nil }
	t.Cleanup(func() { postgresOpener, migrator = oldOpen, oldMigrate })

	deps, err := BuildDependencies(testConfig(config.DriverPostgres))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	deps.Close()
}

func TestBuildDependencies_Memory(t *testing.T) {
	oldOpen := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) {
		t.Fatalf("postgres must not be opened for the memory driver")
		return nil, nil
	}
	t.Cleanup(func() { postgresOpener = oldOpen })

	deps, err := BuildDependencies(testConfig(config.DriverMemory))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer deps.Close()

	if _, ok := deps.Repo.(*storage.MemoryRepository); !ok {
		t.Fatalf("repo is %T, want *storage.MemoryRepository", deps.Repo)
	}
	if deps.Service == nil || deps.Seeder == nil || deps.Feed == nil {
		t.Fatalf("dependencies not wired: %+v", deps)
	}
	if deps.Feed.URL() != "http://feed.invalid/items.json" {
		t.Fatalf("feed url=%q", deps.Feed.URL())
	}
}

func TestBuildDependencies_UnknownDriver(t *testing.T) {
	if _, err := BuildDependencies(testConfig("sqlite")); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
