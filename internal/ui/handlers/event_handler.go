package handlers

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coursedeck/internal/catalog"
	"coursedeck/internal/domain"
	"coursedeck/internal/eventbus"
	"coursedeck/internal/ui/state"
)

// TickMsg is a tick message for animations
type TickMsg time.Time

// Tick schedules the next spinner frame
func Tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// EventHandler handles domain events and updates state
type EventHandler struct {
	state    *state.AppState
	pageSize int
}

// NewEventHandler creates a new event handler. Page counts are derived from
// each applied state with pageSize.
func NewEventHandler(appState *state.AppState, pageSize int) *EventHandler {
	return &EventHandler{
		state:    appState,
		pageSize: pageSize,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.FilterChangedEvent:
		h.state.SetFilter(e.Filter)

	case eventbus.QueryStateChangedEvent:
		wasLoading := h.state.Query.Status == domain.StatusLoading
		h.state.SetQuery(e.State, e.State.Pages(h.pageSize))

		switch e.State.Status {
		case domain.StatusLoading:
			h.state.StatusMessage = ""
			if !wasLoading {
				// Start the spinner animation
				return Tick()
			}
		case domain.StatusSuccess:
			if e.State.TotalCount == 0 {
				h.state.StatusMessage = "No courses match the current filters"
			} else {
				h.state.StatusMessage = fmt.Sprintf("Found %d courses", e.State.TotalCount)
			}
		case domain.StatusError:
			if e.State.LastError == domain.ErrorNone {
				// Dismissed
				h.state.StatusMessage = ""
			}
		}

	case eventbus.FetchFailedEvent:
		h.state.StatusMessage = describeFailure(e)

	case eventbus.ErrorEvent:
		h.state.StatusMessage = fmt.Sprintf("Error: %s", e.Message)
	}

	return nil
}

func describeFailure(e eventbus.FetchFailedEvent) string {
	var catErr *catalog.Error
	if errors.As(e.Err, &catErr) && catErr.Status != 0 {
		return fmt.Sprintf("Catalog service answered %d. Press r to retry.", catErr.Status)
	}
	if e.Kind == domain.ErrorServer {
		return "The catalog service sent an unexpected response. Press r to retry."
	}
	return "Could not reach the catalog service. Press r to retry."
}
