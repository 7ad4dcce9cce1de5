package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

var (
	// ErrNotFound is returned when no load report matches the request.
	ErrNotFound = errors.New("no load reports recorded")
)

// MemoryStore is a concurrency-safe in-memory history of load reports.
type MemoryStore struct {
	mu sync.RWMutex

	// time-ordered, oldest first
	reports []dinsar.LoadReport

	// retention configuration
	maxHistory int           // max number of reports kept
	maxAge     time.Duration // optional max age for reports

	clock clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(maxHistory, maxAge, clockwork.NewRealClock())
}

// NewMemoryStoreWithClock is NewMemoryStore with an explicit time source for age retention.
func NewMemoryStoreWithClock(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveReport appends a report and enforces retention.
func (s *MemoryStore) SaveReport(report dinsar.LoadReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.reports) > s.maxHistory {
		over := len(s.reports) - s.maxHistory
		s.reports = append([]dinsar.LoadReport(nil), s.reports[over:]...)
	}

	// Enforce retention by age. The newest report is always kept.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.reports)-1; i++ {
			if !s.reports[i].StartedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.reports = s.reports[i:]
		}
	}
}

// GetLatest returns the most recent report.
func (s *MemoryStore) GetLatest() (dinsar.LoadReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return dinsar.LoadReport{}, ErrNotFound
	}
	return s.reports[len(s.reports)-1], nil
}

// GetRange returns all reports started between from and to (inclusive).
func (s *MemoryStore) GetRange(from, to time.Time) ([]dinsar.LoadReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []dinsar.LoadReport
	for _, r := range s.reports {
		if !r.StartedAt.Before(from) && !r.StartedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len returns the number of retained reports.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
