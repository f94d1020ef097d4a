package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFilterChanged     EventType = "FilterChanged"
	EventLocationChanged   EventType = "LocationChanged"
	EventQueryStateChanged EventType = "QueryStateChanged"
	EventFetchFailed       EventType = "FetchFailed"
	EventError             EventType = "Error"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FilterChangedEvent is emitted after every FilterStore write
type FilterChangedEvent struct {
	Filter FilterModel
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }

// LocationChangedEvent is emitted when the encoded location string changes
type LocationChangedEvent struct {
	Location string
}

func (e LocationChangedEvent) Type() EventType { return EventLocationChanged }

// QueryStateChangedEvent is emitted on every catalog query transition
type QueryStateChangedEvent struct {
	State QueryState
}

func (e QueryStateChangedEvent) Type() EventType { return EventQueryStateChanged }

// FetchFailedEvent carries the cause of a failed fetch for logging and telemetry
type FetchFailedEvent struct {
	Key  string
	Kind ErrorKind
	Err  error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ErrorEvent is emitted when an error occurs outside a fetch
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
