// ABOUTME: Shared clock state store
// ABOUTME: Mutex-guarded last-value-wins cache of the remote conductor clock
package clock

import (
	"errors"
	"sync"
	"time"
)

// ErrStoreUnavailable is returned by Read when a writer crashed mid-update
// and the stored state can no longer be trusted.
var ErrStoreUnavailable = errors.New("clock store unavailable: poisoned by a crashed writer")

// Snapshot is a consistent copy of the clock state at one point in time.
type Snapshot struct {
	Stamp      float64
	Paused     bool
	LastUpdate time.Time // zero until the first tick is applied
}

// Updated reports whether at least one tick has ever been applied.
func (s Snapshot) Updated() bool {
	return !s.LastUpdate.IsZero()
}

// Age returns the time elapsed since the last applied tick.
func (s Snapshot) Age() time.Duration {
	if !s.Updated() {
		return 0
	}
	return time.Since(s.LastUpdate)
}

// Store holds the last-known state of the remote clock. It is shared by
// construction between the subscription goroutine (the single writer) and
// any number of readers; all access goes through its lock.
//
// Go locks do not poison the way some runtimes' do, so poisoning is modeled
// explicitly: a panic escaping a writer while the lock is held marks the
// store unavailable before the panic propagates, and every later Read
// surfaces that instead of fabricating a default snapshot.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	poisoned   bool
	stamp      float64
	paused     bool
	lastUpdate time.Time
}

// NewStore creates an empty store. Stamp and paused hold zero values and
// LastUpdate is unset until the first Write.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Write records a new clock value and stamps the update time. It never
// fails; the new value is visible to all readers as soon as Write returns.
func (s *Store) Write(stamp float64, paused bool) {
	s.mu.Lock()
	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			s.mu.Unlock()
			panic(r)
		}
		s.mu.Unlock()
	}()

	s.stamp = stamp
	s.paused = paused
	s.lastUpdate = s.now()
}

// Read returns a consistent copy of the current state. The stamp and
// paused flag in a snapshot always come from the same Write. The only
// failure mode is a poisoned store, reported as ErrStoreUnavailable.
func (s *Store) Read() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.poisoned {
		return Snapshot{}, ErrStoreUnavailable
	}

	return Snapshot{
		Stamp:      s.stamp,
		Paused:     s.paused,
		LastUpdate: s.lastUpdate,
	}, nil
}
