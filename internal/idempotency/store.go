package idempotency

import (
	"sync"
	"time"
)

// Store deduplicates webhook event deliveries by event id. It is purely
// in-process: durable state stays with the external platforms, so a
// restart forgets history and dedup is best-effort across redeliveries
// within the TTL window.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*Record
	ttlWindow time.Duration // default TTL window when creating entries
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow: how long a processed event id is remembered (e.g., 48*time.Hour).
func NewStore(ttlWindow time.Duration) *Store {
	return &Store{
		entries:   map[string]*Record{},
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// Begin claims an event id for processing.
// Returns (true, nil) if the id was unseen (or expired) and is now IN_PROGRESS.
// Returns (false, rec) if a live record exists; the caller inspects rec.Status.
// A FAILED record is reclaimed so a redelivery can retry the relay.
func (s *Store) Begin(eventID string) (bool, *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if rec, ok := s.entries[eventID]; ok {
		if !rec.ExpiresAt.After(now) {
			delete(s.entries, eventID)
		} else if rec.Status != StatusFailed {
			cp := *rec
			return false, &cp
		}
		// expired or failed: the id is claimable again
	}

	s.entries[eventID] = &Record{
		EventID:   eventID,
		Status:    StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttlWindow),
	}
	return true, nil
}

// get retrieves a live record by event id. If not found or expired, returns nil.
func (s *Store) get(eventID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[eventID]
	if !ok {
		return nil
	}
	if !rec.ExpiresAt.After(s.nowFunc()) {
		delete(s.entries, eventID)
		return nil
	}
	cp := *rec
	return &cp
}

// MarkDone sets status to DONE and stores the response body & status for replay.
func (s *Store) MarkDone(eventID, responseBody string, responseStatus int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[eventID]
	if !ok {
		return
	}
	rec.Status = StatusDone
	rec.ResponseBody = responseBody
	rec.ResponseStatus = responseStatus
	rec.UpdatedAt = s.nowFunc()
}

// MarkFailed marks the record as FAILED and optionally stores a note.
func (s *Store) MarkFailed(eventID, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[eventID]
	if !ok {
		return
	}
	rec.Status = StatusFailed
	rec.Note = note
	rec.UpdatedAt = s.nowFunc()
}

// Sweep drops expired entries. Begin and Get free expired entries they
// touch, but event ids arrive once each, so only a periodic sweep bounds
// memory over the life of the process.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	removed := 0
	for id, rec := range s.entries {
		if !rec.ExpiresAt.After(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// SweepEvery runs Sweep on the given interval until the returned stop
// function is called.
func (s *Store) SweepEvery(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
