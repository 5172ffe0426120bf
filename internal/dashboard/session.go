package dashboard

import (
	"context"
	"sync"

	"github.com/guttosm/salespulse/internal/domain/models"
	"github.com/guttosm/salespulse/internal/logger"
)

// Fetcher loads a snapshot for a filter. *Client implements it.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, f models.FilterCriteria) (*models.Snapshot, error)
}

// Transition is any State method that may start a fetch, e.g. State.NextPage.
type Transition func(State) (State, *Request)

// Session owns a State and performs the fetches its transitions request.
// Fetches run concurrently; a response is applied only if its request is
// still the latest one.
type Session struct {
	mu      sync.Mutex
	state   State
	fetcher Fetcher
	wg      sync.WaitGroup
}

// NewSession returns a Session in the initial state.
func NewSession(fetcher Fetcher) *Session {
	return &Session{state: NewState(), fetcher: fetcher}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EditSearch updates the pending search text.
func (s *Session) EditSearch(text string) {
	s.mu.Lock()
	s.state = s.state.EditSearch(text)
	s.mu.Unlock()
}

// Dispatch applies t and, if it requested data, fetches it in the background.
func (s *Session) Dispatch(ctx context.Context, t Transition) {
	s.mu.Lock()
	next, req := t(s.state)
	s.state = next
	s.mu.Unlock()

	if req == nil {
		return
	}

	s.wg.Add(1)
	go func(req Request) {
		defer s.wg.Done()
		snap, err := s.fetcher.FetchSnapshot(ctx, req.Criteria)

		s.mu.Lock()
		defer s.mu.Unlock()
		if req.Generation != s.state.Generation {
			logger.Component("dashboard").Debug().
				Uint64("generation", req.Generation).
				Uint64("latest", s.state.Generation).
				Msg("dropping stale response")
			return
		}
		if err != nil {
			s.state = s.state.Fail(req.Generation, err)
			return
		}
		s.state = s.state.Receive(req.Generation, snap)
	}(*req)
}

// Wait blocks until every in-flight fetch has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}
