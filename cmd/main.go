package main

//
//  @title           salespulse API
//  @version         1.0
//  @description     Product transaction ingestion and dashboard aggregation service.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/salespulse
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        transactions
//  @tag.description Paged transaction listing and the combined dashboard snapshot
//
//  @tag.name        charts
//  @tag.description Statistics, price histogram and category counts
//
//  @tag.name        seed
//  @tag.description Reseeding from and proxying the external feed
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"os"

	_ "github.com/guttosm/salespulse/docs" // swagger docs
	"github.com/guttosm/salespulse/internal/logger"
)

// main is the entry point of the salespulse application.
//
// Commands:
//   - api:      Starts the REST API (default when no command is given).
//   - seed:     Fetches the feed once and replaces stored transactions.
//   - migrate:  Applies pending database migrations.
//   - snapshot: Prints one dashboard snapshot fetched from a running API.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.L().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
