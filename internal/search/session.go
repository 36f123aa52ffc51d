package search

import (
	"context"
	"sync"

	"zotsearch/internal/biblio"
)

// Session issues queries on behalf of a single user. Submitting a query
// cancels the one still in flight, and only the newest query's response is
// ever returned as a result.
type Session struct {
	searcher Searcher

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSession wraps s.
func NewSession(s Searcher) *Session {
	return &Session{searcher: s}
}

// Submit runs q, superseding any earlier query. It returns ErrSuperseded if a
// newer query was submitted before this one completed.
func (s *Session) Submit(ctx context.Context, q biblio.Query) (*biblio.SearchResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	resp, err := s.searcher.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel aborts the in-flight query, if any. Its Submit returns
// ErrSuperseded.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
