package dashboard

import (
	"sync"

	"listingsdash/internal/grid"
)

// TableID identifies one of the two rendered tables.
type TableID string

const (
	AllListingsTable TableID = "allListingsTable"
	NewListingsTable TableID = "newListingsTable"
)

type slot struct {
	// sequence number of the latest load issued for this slot
	issued uint64
	table  *grid.Table
}

// State is everything the engine remembers between network round trips: the grid bound
// to each table slot, the request sequence numbers used to discard stale responses and
// the last observed job liveness. Nothing in it is persisted.
type State struct {
	mu sync.Mutex

	slots map[TableID]*slot

	countsIssued uint64
	summary      string

	lastObservedIsRunning bool
}

func NewState() *State {
	return &State{
		slots: map[TableID]*slot{
			AllListingsTable: {},
			NewListingsTable: {},
		},
	}
}

func (s *State) slot(id TableID) *slot {
	sl, ok := s.slots[id]
	if !ok {
		sl = &slot{}
		s.slots[id] = sl
	}
	return sl
}

// issueLoad returns the sequence number of a new load for the slot.
func (s *State) issueLoad(id TableID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slot(id)
	sl.issued++
	return sl.issued
}

// withLatestLoad runs fn under the state lock if seq is still the latest load issued for
// the slot and reports whether it ran.
func (s *State) withLatestLoad(id TableID, seq uint64, fn func(sl *slot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slot(id)
	if sl.issued != seq {
		return false
	}
	fn(sl)
	return true
}

// Table returns the grid currently bound to the slot, nil if none was ever rendered.
func (s *State) Table(id TableID) *grid.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot(id).table
}

// tables returns the grids of the given slots in one critical section.
func (s *State) tables(ids ...TableID) []*grid.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*grid.Table, len(ids))
	for i, id := range ids {
		out[i] = s.slot(id).table
	}
	return out
}

func (s *State) issueCounts() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countsIssued++
	return s.countsIssued
}

func (s *State) withLatestCounts(seq uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countsIssued != seq {
		return false
	}
	fn()
	return true
}

// Summary returns the last count summary written to the view.
func (s *State) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *State) LastObservedIsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastObservedIsRunning
}

// observe records a job status observation and reports whether it is the first idle
// observation after the job was seen running.
func (s *State) observe(isRunning bool) (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isRunning {
		s.lastObservedIsRunning = true
		return false
	}
	finished = s.lastObservedIsRunning
	s.lastObservedIsRunning = false
	return finished
}
