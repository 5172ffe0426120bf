package ingestion

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/guttosm/salespulse/internal/logger"
)

// Feed is the upstream source of records.
type Feed interface {
	FetchItems(ctx context.Context) ([]FeedItem, error)
	FetchRaw(ctx context.Context) (json.RawMessage, error)
}

// Replacer is the write side of storage used by the Seeder.
type Replacer interface {
	ReplaceAll(ctx context.Context, records []models.Transaction) (int, error)
}

// DefaultReseedTimeout bounds one shared reseed run.
const DefaultReseedTimeout = 2 * time.Minute

// Seeder replaces the stored records with the current contents of the feed.
type Seeder struct {
	feed    Feed
	store   Replacer
	group   singleflight.Group
	timeout time.Duration
}

func NewSeeder(feed Feed, store Replacer) *Seeder {
	return &Seeder{feed: feed, store: store, timeout: DefaultReseedTimeout}
}

// Reseed fetches the feed and replaces every stored record with it.
//
// Behavior:
//   - The feed is fetched and fully decoded before storage is touched, so a
//     failing feed never wipes the table (apperror.UpstreamFetchFailed).
//   - The replace is a single storage call (apperror.StorageUnavailable on error).
//   - Concurrent calls share one in-flight run and its result.
//   - The run is detached from the caller's cancellation and bounded by its
//     own timeout. A caller whose ctx ends stops waiting; the run goes on for
//     everyone else.
//
// Returns the number of records inserted.
func (s *Seeder) Reseed(ctx context.Context) (int, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan("reseed", func() (any, error) {
		runCtx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()
		return s.reseed(runCtx)
	})

	select {
	case <-ctx.Done():
		return 0, apperror.Upstream("reseed wait", ctx.Err())
	case res := <-ch:
		if res.Shared {
			logger.L().Debug().Msg("joined in-flight reseed")
		}
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	}
}

func (s *Seeder) reseed(ctx context.Context) (int, error) {
	log := logger.Component("seeder")
	start := time.Now()

	items, err := s.feed.FetchItems(ctx)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("feed fetch failed")
		return 0, apperror.Upstream("fetch feed", err)
	}
	records, err := ToTransactions(items)
	if err != nil {
		log.Error().Err(err).Msg("feed decode failed")
		return 0, apperror.Upstream("decode feed", err)
	}
	log.Info().Int("items", len(records)).Dur("elapsed", time.Since(start)).Msg("feed fetched")

	n, err := s.store.ReplaceAll(ctx, records)
	if err != nil {
		log.Error().Err(err).Msg("replace transactions failed")
		return 0, apperror.Storage("replace transactions", err)
	}

	log.Info().Int("rows", n).Dur("elapsed", time.Since(start)).Msg("reseed done")
	return n, nil
}

// FetchRaw proxies the feed body untouched. Storage is not involved.
func (s *Seeder) FetchRaw(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.feed.FetchRaw(ctx)
	if err != nil {
		return nil, apperror.Upstream("fetch feed", err)
	}
	return raw, nil
}
