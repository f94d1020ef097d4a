package domain

// Course represents a single catalog entry as returned by the catalog service
type Course struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Instructor    string  `json:"instructor"`
	Category      string  `json:"category"`
	Level         Level   `json:"level"`
	Language      string  `json:"language"`
	Rating        float64 `json:"rating"`  // average stars, 0-5
	Reviews       int     `json:"reviews"` // number of ratings behind Rating
	Price         float64 `json:"price"`   // 0 means free
	DurationHours float64 `json:"durationHours"`
	Students      int     `json:"students"`
}

// IsFree reports whether the course costs nothing
func (c Course) IsFree() bool {
	return c.Price == 0
}

// QueryStatus is the lifecycle phase of the catalog query
type QueryStatus string

const (
	StatusIdle    QueryStatus = "idle"
	StatusLoading QueryStatus = "loading"
	StatusSuccess QueryStatus = "success"
	StatusError   QueryStatus = "error"
)

// ErrorKind classifies failures of the catalog subsystem
type ErrorKind string

const (
	ErrorNone          ErrorKind = ""
	ErrorDecodeAnomaly ErrorKind = "decode_anomaly" // malformed location value, recovered locally
	ErrorNetwork       ErrorKind = "network"        // fetch could not complete
	ErrorServer        ErrorKind = "server"         // non-success response
)

// QueryState is the observable state of the catalog query. It is replaced
// wholesale on every transition, never mutated in place.
type QueryState struct {
	Status     QueryStatus
	Results    []Course
	TotalCount int
	LastError  ErrorKind
	Page       int    // 1-based page the state belongs to
	Key        string // fetch key the state belongs to
}

// IdleState returns the state before any fetch was dispatched
func IdleState() QueryState {
	return QueryState{Status: StatusIdle, Page: 1}
}

// Pages returns how many pages of pageSize the total spans, at least 1
func (s QueryState) Pages(pageSize int) int {
	if s.TotalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return (s.TotalCount + pageSize - 1) / pageSize
}

// HasError reports whether an error banner should be shown
func (s QueryState) HasError() bool {
	return s.Status == StatusError && s.LastError != ErrorNone
}
