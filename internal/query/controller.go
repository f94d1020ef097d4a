// Package query keeps the catalog results in step with the filter selection.
// It turns every observed model into a fetch key, starts at most one fetch
// per key and lets the newest key win when fetches overlap.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"coursedeck/internal/catalog"
	"coursedeck/internal/domain"
	"coursedeck/internal/eventbus"
	"coursedeck/internal/location"
	"coursedeck/internal/telemetry"
)

// Listener receives query states in transition order
type Listener func(domain.QueryState)

type subscriber struct {
	id uint64
	fn Listener
}

// Controller owns the QueryState
type Controller struct {
	client   catalog.Client
	pageSize int
	bus      eventbus.EventBus
	metrics  *telemetry.Metrics
	log      zerolog.Logger

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	model    domain.FilterModel
	hasModel bool
	page     int
	key      string // key of the in-flight or most recently completed fetch
	gen      uint64
	cancel   context.CancelFunc
	state    domain.QueryState
	version  uint64
	closed   bool

	// notifyMu orders deliveries; a state older than the last delivered
	// one is dropped.
	notifyMu  sync.Mutex
	delivered uint64
	subs      []subscriber
	nextID    uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithPageSize sets the number of courses per page
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithEventBus publishes every state change on bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithMetrics records fetch outcomes
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger sets the controller logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log.With().Str("component", "query").Logger()
	}
}

// New creates a controller fetching through client. Nothing is fetched until
// the first Observe.
func New(client catalog.Client, opts ...Option) *Controller {
	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		client:   client,
		pageSize: catalog.DefaultPageSize,
		log:      zerolog.Nop(),
		ctx:      ctx,
		stop:     stop,
		page:     1,
		state:    domain.IdleState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current query state
func (c *Controller) State() domain.QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Filter returns the last observed model
func (c *Controller) Filter() domain.FilterModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// PageSize returns the number of courses requested per page
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Pages returns the number of result pages, at least 1
func (c *Controller) Pages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagesLocked()
}

// Subscribe registers fn for every subsequent state and returns an
// unsubscribe function. Listeners must not call back into the controller.
func (c *Controller) Subscribe(fn Listener) func() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Observe reacts to a filter model. A changed model restarts at page 1. When
// the resulting key matches the in-flight or last completed fetch nothing
// happens; otherwise any in-flight fetch is cancelled and a new one starts.
func (c *Controller) Observe(m domain.FilterModel) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	page := c.page
	if !c.hasModel || m != c.model {
		page = 1
	}
	c.model = m
	c.hasModel = true
	c.dispatchLocked(page, false)
}

// SetPage moves to page n, clamped to the known page count
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	if c.closed || !c.hasModel {
		c.mu.Unlock()
		return
	}
	if last := c.pagesLocked(); n > last {
		n = last
	}
	if n < 1 {
		n = 1
	}
	c.dispatchLocked(n, false)
}

// NextPage moves forward one page if there is one
func (c *Controller) NextPage() {
	c.mu.Lock()
	if c.closed || !c.hasModel || c.page >= c.pagesLocked() {
		c.mu.Unlock()
		return
	}
	c.dispatchLocked(c.page+1, false)
}

// PrevPage moves back one page if there is one
func (c *Controller) PrevPage() {
	c.mu.Lock()
	if c.closed || !c.hasModel || c.page <= 1 {
		c.mu.Unlock()
		return
	}
	c.dispatchLocked(c.page-1, false)
}

// Retry re-issues the current key even though it already completed. The
// page cache is bypassed.
func (c *Controller) Retry() {
	c.mu.Lock()
	if c.closed || !c.hasModel {
		c.mu.Unlock()
		return
	}
	c.dispatchLocked(c.page, true)
}

// DismissError clears the error banner; status and results stay as they are
func (c *Controller) DismissError() {
	c.mu.Lock()
	if c.closed || c.state.LastError == domain.ErrorNone {
		c.mu.Unlock()
		return
	}
	next := c.state
	next.LastError = domain.ErrorNone
	state, version := c.setStateLocked(next)
	c.mu.Unlock()

	c.notify(state, version)
}

// Close cancels the in-flight fetch and waits for its goroutine. Later calls
// are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()
}

// dispatchLocked must be called with mu held; it releases mu
func (c *Controller) dispatchLocked(page int, force bool) {
	key := location.FetchKey(c.model, page)
	if key == c.key && !force {
		c.mu.Unlock()
		c.metrics.Deduplicated()
		c.log.Debug().Str("key", key).Msg("fetch key unchanged, skipping")
		return
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(c.ctx)
	if force {
		ctx = catalog.WithoutCache(ctx)
	}
	c.cancel = cancel
	c.page = page
	c.key = key

	params := catalog.ParamsFromFilter(c.model, page, c.pageSize)
	next := domain.QueryState{
		Status:     domain.StatusLoading,
		Results:    c.state.Results,
		TotalCount: c.state.TotalCount,
		Page:       page,
		Key:        key,
	}
	state, version := c.setStateLocked(next)

	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Debug().Str("key", key).Uint64("gen", gen).Msg("fetch started")
	c.notify(state, version)

	go c.fetch(ctx, cancel, gen, key, page, params)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, key string, page int, params catalog.Params) {
	defer c.wg.Done()
	defer cancel()

	start := time.Now()
	result, err := c.client.FetchCourses(ctx, params)
	elapsed := time.Since(start)

	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		c.metrics.FetchDone(telemetry.OutcomeCancelled, elapsed)
		c.log.Debug().Str("key", key).Uint64("gen", gen).Msg("discarding superseded fetch")
		return
	}
	c.cancel = nil

	var next domain.QueryState
	var kind domain.ErrorKind
	if err != nil {
		kind = catalog.KindOf(err)
		if errors.Is(err, context.Canceled) {
			kind = domain.ErrorNetwork
		}
		next = c.state
		next.Status = domain.StatusError
		next.LastError = kind
	} else {
		next = domain.QueryState{
			Status:     domain.StatusSuccess,
			Results:    result.Courses,
			TotalCount: result.TotalCourses,
			Page:       page,
			Key:        key,
		}
	}
	state, version := c.setStateLocked(next)
	c.mu.Unlock()

	if err != nil {
		c.metrics.FetchDone(string(kind), elapsed)
		c.log.Warn().Err(err).Str("key", key).Str("kind", string(kind)).Msg("fetch failed")
		if c.bus != nil {
			c.bus.Publish(eventbus.FetchFailedEvent{Key: key, Kind: kind, Err: err})
		}
	} else {
		c.metrics.FetchDone(telemetry.OutcomeSuccess, elapsed)
		c.log.Debug().Str("key", key).Int("total", result.TotalCourses).Dur("elapsed", elapsed).Msg("fetch completed")
	}
	c.notify(state, version)
}

// setStateLocked replaces the state and returns it with its version
func (c *Controller) setStateLocked(next domain.QueryState) (domain.QueryState, uint64) {
	c.version++
	c.state = next
	return next, c.version
}

func (c *Controller) pagesLocked() int {
	return c.state.Pages(c.pageSize)
}

func (c *Controller) notify(state domain.QueryState, version uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if version <= c.delivered {
		return
	}
	c.delivered = version

	for _, s := range c.subs {
		s.fn(state)
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.QueryStateChangedEvent{State: state})
	}
}
