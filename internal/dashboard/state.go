package dashboard

import (
	"strings"

	"github.com/guttosm/salespulse/internal/domain/models"
)

// InitialMonth is the month selected when the dashboard opens (March).
const InitialMonth = 3

// Committed holds the filter values the current snapshot was requested with.
type Committed struct {
	Month  int
	Search string
	Page   int
}

// State is the dashboard view model. Transitions are pure: each returns a new
// State and, when the transition needs data, the Request to issue.
//
// PendingSearch is what the user is typing; it only reaches Committed on
// SubmitSearch. Generation identifies the latest issued request so that
// responses to superseded requests are dropped.
type State struct {
	Committed     Committed
	PendingSearch string
	PerPage       int
	Snapshot      *models.Snapshot
	Loading       bool
	Generation    uint64
	Err           error
}

// Request is a fetch the caller must perform and report back with Receive or Fail.
type Request struct {
	Generation uint64
	Criteria   models.FilterCriteria
}

// NewState returns the initial state: March, first page, empty search.
func NewState() State {
	return State{
		Committed: Committed{Month: InitialMonth, Page: 1},
		PerPage:   models.DefaultPerPage,
	}
}

// Criteria converts the committed filter into storage criteria.
func (s State) Criteria() models.FilterCriteria {
	return models.FilterCriteria{
		Month:   s.Committed.Month,
		Search:  strings.TrimSpace(s.Committed.Search),
		Page:    s.Committed.Page,
		PerPage: s.PerPage,
	}
}

// TotalPages is ceil(total/perPage), with a floor of 1. It is 1 until a
// snapshot has been received.
func (s State) TotalPages() int {
	if s.Snapshot == nil || s.PerPage <= 0 {
		return 1
	}
	pages := int((s.Snapshot.Total + int64(s.PerPage) - 1) / int64(s.PerPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// Load starts a fetch for the current committed filter.
func (s State) Load() (State, *Request) {
	return s.fetch()
}

// EditSearch updates the pending search text only.
func (s State) EditSearch(text string) State {
	s.PendingSearch = text
	return s
}

// SubmitSearch commits the pending search and goes back to page 1.
func (s State) SubmitSearch() (State, *Request) {
	s.Committed.Search = s.PendingSearch
	s.Committed.Page = 1
	return s.fetch()
}

// SelectMonth switches month (0 for all months) and goes back to page 1.
// Out-of-range months are ignored.
func (s State) SelectMonth(month int) (State, *Request) {
	if month < models.MonthUnfiltered || month > 12 {
		return s, nil
	}
	s.Committed.Month = month
	s.Committed.Page = 1
	return s.fetch()
}

// NextPage advances one page unless already on the last one.
func (s State) NextPage() (State, *Request) {
	if s.Committed.Page >= s.TotalPages() {
		return s, nil
	}
	s.Committed.Page++
	return s.fetch()
}

// PrevPage goes back one page unless already on the first one.
func (s State) PrevPage() (State, *Request) {
	if s.Committed.Page <= 1 {
		return s, nil
	}
	s.Committed.Page--
	return s.fetch()
}

// Receive applies the snapshot for request gen. Stale generations are ignored.
func (s State) Receive(gen uint64, snap *models.Snapshot) State {
	if gen != s.Generation {
		return s
	}
	s.Snapshot = snap
	s.Loading = false
	s.Err = nil
	return s
}

// Fail records the error for request gen and keeps the previous snapshot.
// Stale generations are ignored.
func (s State) Fail(gen uint64, err error) State {
	if gen != s.Generation {
		return s
	}
	s.Loading = false
	s.Err = err
	return s
}

func (s State) fetch() (State, *Request) {
	s.Generation++
	s.Loading = true
	return s, &Request{Generation: s.Generation, Criteria: s.Criteria()}
}
