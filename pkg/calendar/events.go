// Package calendar defines the calendar collaborator interface, a Google
// Calendar implementation of it, and the availability engine that computes
// free slots from busy events.
package calendar

import (
	"context"
	"time"
)

// Event is the neutral view of a calendar event used throughout the system.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
}

// EventDetails describes an event to create.
type EventDetails struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// EventPatch is a partial update; nil fields are left unchanged.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}

// Client is the narrow calendar collaborator contract. ListEvents returns
// events ordered by start time; a zero timeMax means no upper bound.
type Client interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, details EventDetails) (Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
