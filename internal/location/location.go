package location

import (
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"coursedeck/internal/domain"
)

// Persister stores the raw location so it survives a restart
type Persister interface {
	SaveLocation(raw string) error
}

// PersisterFunc adapts a function to Persister
type PersisterFunc func(raw string) error

func (f PersisterFunc) SaveLocation(raw string) error { return f(raw) }

// AnomalyObserver is told about every value dropped while decoding
type AnomalyObserver func(Anomaly)

// Location is the only reader and writer of the shareable location. It holds
// the canonical raw string, decodes it on read and persists it on write.
type Location struct {
	mu        sync.RWMutex
	raw       string
	persister Persister
	observer  AnomalyObserver
	listeners []func(raw string)
	log       zerolog.Logger
}

// Option configures a Location
type Option func(*Location)

// WithPersister stores every change through p
func WithPersister(p Persister) Option {
	return func(l *Location) { l.persister = p }
}

// WithAnomalyObserver reports dropped values to fn
func WithAnomalyObserver(fn AnomalyObserver) Option {
	return func(l *Location) { l.observer = fn }
}

// New creates a Location seeded from initial, which may be any location string
// (a full URL, a query string with or without '?', or empty).
func New(initial string, log zerolog.Logger, opts ...Option) *Location {
	l := &Location{
		raw: stripToQuery(initial),
		log: log.With().Str("component", "location").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Raw returns the stored location exactly as last written
func (l *Location) Raw() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.raw
}

// Current decodes the stored location. Dropped values are logged and reported
// to the anomaly observer, never returned.
func (l *Location) Current() domain.FilterModel {
	raw := l.Raw()
	m, anomalies := DecodeWithAnomalies(raw)
	for _, a := range anomalies {
		l.log.Debug().Str("key", a.Key).Str("value", a.Value).Msg("ignoring malformed location value")
		if l.observer != nil {
			l.observer(a)
		}
	}
	return m
}

// Replace writes the canonical encoding of m. Listeners and the persister are
// only invoked when the encoded string actually changes.
func (l *Location) Replace(m domain.FilterModel) string {
	encoded := Encode(m)

	l.mu.Lock()
	if encoded == l.raw {
		l.mu.Unlock()
		return encoded
	}
	l.raw = encoded
	listeners := make([]func(string), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()

	if l.persister != nil {
		if err := l.persister.SaveLocation(encoded); err != nil {
			l.log.Warn().Err(err).Msg("failed to persist location")
		}
	}
	for _, fn := range listeners {
		fn(encoded)
	}
	return encoded
}

// OnChange registers fn to be called with every new raw location
func (l *Location) OnChange(fn func(raw string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Link builds a shareable URL for the current location on top of base
func (l *Location) Link(base string) string {
	raw := l.Raw()
	if base == "" {
		if raw == "" {
			return ""
		}
		return "?" + raw
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + raw
	}
	u.RawQuery = raw
	return u.String()
}

// stripToQuery accepts a full link and keeps only its query part
func stripToQuery(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	return s
}
