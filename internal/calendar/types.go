// Package calendar finds free appointment slots on a remote calendar and books them.
package calendar

import (
	"context"
	"errors"
	"time"
)

// SlotLength is the duration of every appointment.
const SlotLength = 30 * time.Minute

// ErrSlotTaken is returned by Writer.Book when the slot became busy after it was offered.
var ErrSlotTaken = errors.New("calendar: slot is no longer free")

// BusyInterval is an occupied [Start, End) range read from the calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// Slot is a free appointment window, verified against the busy intervals
// known when it was computed.
type Slot struct {
	Start time.Time
	End   time.Time
}

// NewSlot builds the standard-length slot starting at start.
func NewSlot(start time.Time) Slot {
	return Slot{Start: start, End: start.Add(SlotLength)}
}

// Reminder is a notification the calendar sends before an event.
type Reminder struct {
	Method  string
	Minutes int64
}

// Event is an appointment to be created on the calendar.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// TimeZone is the IANA name attached to start and end for display.
	TimeZone  string
	Reminders []Reminder
}

// Backend is the remote calendar.
type Backend interface {
	// ListEvents returns busy intervals of events overlapping [timeMin, timeMax).
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]BusyInterval, error)
	// CreateEvent inserts ev and returns its identifier.
	CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)
}
