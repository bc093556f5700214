// Package history keeps the results of sent and dry-run messages for the outbox view.
package history

import (
	"sync"
	"time"

	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/rs/zerolog"
)

// DefaultMaxEntries bounds the store when no limit is given.
const DefaultMaxEntries = 500

// Entry is one send attempt
type Entry struct {
	ID         uint64
	Time       time.Time
	Subject    string
	Recipients []string
	Size       int
	Duration   time.Duration
	Err        error
	Raw        []byte
	DryRun     bool
}

// Failed reports whether the attempt returned an error.
func (e Entry) Failed() bool {
	return e.Err != nil
}

// FromResult builds an entry from a send result and its error.
func FromResult(t time.Time, subject string, res sender.Result, err error) Entry {
	e := Entry{
		Time:       t,
		Subject:    subject,
		Recipients: res.Recipients,
		Size:       res.Size,
		Duration:   res.Duration,
		Err:        err,
		Raw:        res.Raw,
		DryRun:     res.DryRun,
	}
	if res.Subject != "" {
		e.Subject = res.Subject
	}
	return e
}

// Store holds send attempts in memory with thread-safe access, oldest first.
// When full, the oldest entries are dropped.
type Store struct {
	mu      sync.RWMutex
	logger  zerolog.Logger
	max     int
	nextID  uint64
	entries []Entry
}

// NewStore creates a store keeping at most maxEntries entries.
func NewStore(logger zerolog.Logger, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		logger:  logger,
		max:     maxEntries,
		nextID:  1,
		entries: make([]Entry, 0),
	}
}

// Add stores an entry and returns it with its assigned ID.
func (s *Store) Add(e Entry) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, e)

	if over := len(s.entries) - s.max; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
	}
	s.logger.Debug().Uint64("id", e.ID).Int("total", len(s.entries)).Msg("Send result added to history")
	return e
}

// GetAll returns all entries, oldest first
func (s *Store) GetAll() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// GetLatest returns the most recent n entries, oldest first
func (s *Store) GetLatest(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.entries) - n
	if start < 0 {
		start = 0
	}
	result := make([]Entry, len(s.entries)-start)
	copy(result, s.entries[start:])
	return result
}

// Get returns an entry by ID, or nil when it is unknown or was dropped.
func (s *Store) Get(id uint64) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			result := s.entries[i]
			return &result
		}
	}
	return nil
}

// Count returns the number of stored entries
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes all entries. IDs keep counting up.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]Entry, 0)
}
