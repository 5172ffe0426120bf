package app

import (
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/salespulse/db"
	"github.com/guttosm/salespulse/internal/logger"
)

// RunMigrations applies every pending embedded goose migration.
func RunMigrations(conn *sql.DB) error {
	goose.SetBaseFS(db.Migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersion(conn)
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.L().Info().Int64("version", version).Msg("migrations applied")
	return nil
}

// migrator is an indirection used by BuildDependencies; overridden in tests.
var migrator = RunMigrations

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Component("migrate").Info().Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Component("migrate").Fatal().Msgf(format, v...)
}
