package calendar

import (
	"context"
	"fmt"
	"time"
)

// Workday bounds for slot finding, in the engine's location.
const (
	workdayStartHour = 9
	workdayEndHour   = 17
)

// Interval is a transient free time range, Start <= End.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Availability computes free slots within the working day from the busy
// events on a calendar.
type Availability struct {
	calendar Client
	location *time.Location
}

// NewAvailability builds an engine over the given calendar. A nil location
// defaults to UTC.
func NewAvailability(cal Client, loc *time.Location) *Availability {
	if loc == nil {
		loc = time.UTC
	}
	return &Availability{calendar: cal, location: loc}
}

// FindSlots returns the maximal free intervals of at least duration within
// [day 09:00, day 17:00) in the engine's location. Busy events are collapsed
// as a frontier scan: an event contained behind the cursor never shrinks an
// already-claimed gap. Each maximal gap is emitted once, not sliced into
// duration-sized chunks.
func (a *Availability) FindSlots(ctx context.Context, day time.Time, duration time.Duration) ([]Interval, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	}

	y, m, d := day.In(a.location).Date()
	windowStart := time.Date(y, m, d, workdayStartHour, 0, 0, 0, a.location)
	windowEnd := time.Date(y, m, d, workdayEndHour, 0, 0, 0, a.location)

	busy, err := a.calendar.ListEvents(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch busy events: %w", err)
	}

	var slots []Interval
	cursor := windowStart
	for _, ev := range busy {
		if ev.Start.Sub(cursor) >= duration {
			slots = append(slots, Interval{Start: cursor, End: ev.Start})
		}
		if ev.End.After(cursor) {
			cursor = ev.End
		}
	}
	if windowEnd.Sub(cursor) >= duration {
		slots = append(slots, Interval{Start: cursor, End: windowEnd})
	}
	return slots, nil
}
