// Package filterstore holds the live filter selection. It is the single place
// where the selection changes and notifies its subscribers once per change.
package filterstore

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coursedeck/internal/domain"
)

// DefaultDebounce is the quiescence window for free-text search
const DefaultDebounce = 350 * time.Millisecond

// Listener receives every new model, in write order
type Listener func(domain.FilterModel)

type subscriber struct {
	id uint64
	fn Listener
}

// Store is an observable single-writer cell holding a FilterModel
type Store struct {
	// writeMu serializes writes together with their notifications, so
	// subscribers observe models in the order they were produced.
	writeMu sync.Mutex

	mu     sync.RWMutex
	model  domain.FilterModel
	subs   []subscriber
	nextID uint64

	timerMu    sync.Mutex
	debounce   time.Duration
	timer      *time.Timer
	timerGen   uint64
	pending    bool
	pendingVal string
	closed     bool

	log zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithDebounce sets the free-text quiescence window
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the store logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log.With().Str("component", "filterstore").Logger()
	}
}

// New creates a store seeded with initial
func New(initial domain.FilterModel, opts ...Option) *Store {
	s := &Store{
		model:    initial.Normalize(),
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the live model
func (s *Store) Current() domain.FilterModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Subscribe registers fn for every subsequent write and returns an
// unsubscribe function. Listeners run synchronously on the writer's
// goroutine and must not write back to the store.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Merge applies p to the current model, stores and returns the result. A
// patch that sets SearchText directly supersedes any pending debounced text.
func (s *Store) Merge(p domain.Partial) domain.FilterModel {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.SearchText != nil {
		s.cancelPending()
	}
	return s.write(func(m domain.FilterModel) domain.FilterModel { return m.Apply(p) })
}

// Reset replaces the model with the default one and drops pending search text
func (s *Store) Reset() domain.FilterModel {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.cancelPending()
	return s.write(func(domain.FilterModel) domain.FilterModel { return domain.Default() })
}

// SetSearchText schedules a SearchText merge once no further call arrives
// within the debounce window.
func (s *Store) SetSearchText(text string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerGen++
	gen := s.timerGen
	s.pending = true
	s.pendingVal = text
	s.timer = time.AfterFunc(s.debounce, func() { s.fireSearch(gen, text) })
}

// CommitSearchText merges text immediately, skipping the debounce window
func (s *Store) CommitSearchText(text string) domain.FilterModel {
	return s.Merge(domain.Partial{SearchText: &text})
}

// PendingSearch returns the debounced text not yet merged, if any
func (s *Store) PendingSearch() (string, bool) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	return s.pendingVal, s.pending
}

// Close cancels the pending debounce; the store stays readable
func (s *Store) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.closed = true
	s.stopTimerLocked()
}

func (s *Store) fireSearch(gen uint64, text string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.timerMu.Lock()
	stale := gen != s.timerGen || s.closed
	if !stale {
		s.timer = nil
		s.pending = false
		s.pendingVal = ""
	}
	s.timerMu.Unlock()

	if stale {
		// lost the race with Stop; a newer call, Reset or Close superseded it
		return
	}
	s.write(func(m domain.FilterModel) domain.FilterModel {
		return m.Apply(domain.Partial{SearchText: &text})
	})
}

// cancelPending must be called with writeMu held
func (s *Store) cancelPending() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.stopTimerLocked()
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.pending = false
	s.pendingVal = ""
}

// write must be called with writeMu held
func (s *Store) write(update func(domain.FilterModel) domain.FilterModel) domain.FilterModel {
	s.mu.Lock()
	next := update(s.model)
	s.model = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.log.Debug().Interface("filter", next).Msg("filter updated")

	for _, sub := range subs {
		sub.fn(next)
	}
	return next
}
