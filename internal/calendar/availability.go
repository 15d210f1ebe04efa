package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// BusinessHours describes the bookable window of a day.
type BusinessHours struct {
	OpenHour  int
	CloseHour int
	MaxSlots  int
	Location  *time.Location
}

// DefaultBusinessHours is 09:00–17:00 in loc, offering at most three slots.
func DefaultBusinessHours(loc *time.Location) BusinessHours {
	if loc == nil {
		loc = time.UTC
	}
	return BusinessHours{OpenHour: 9, CloseHour: 17, MaxSlots: 3, Location: loc}
}

// Resolver lists free slots for a day on one calendar.
type Resolver struct {
	backend    Backend
	calendarID string
	hours      BusinessHours
	logger     *logging.Logger
}

// NewResolver creates a slot resolver.
func NewResolver(backend Backend, calendarID string, hours BusinessHours, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	return &Resolver{backend: backend, calendarID: calendarID, hours: hours, logger: logger}
}

// Location returns the business time zone slots are expressed in.
func (r *Resolver) Location() *time.Location {
	return r.hours.Location
}

// Available returns up to MaxSlots free slots on the civil day of date, read
// in the business time zone. The year, month and day of date are used as-is.
func (r *Resolver) Available(ctx context.Context, date time.Time) ([]Slot, error) {
	if r.backend == nil {
		return nil, errors.New("calendar: backend not configured")
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.hours.Location)
	busy, err := r.backend.ListEvents(ctx, r.calendarID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to list events for %s: %w", day.Format("2006-01-02"), err)
	}
	slots := FreeSlots(day, busy, r.hours)
	r.logger.Debug("calendar: slots resolved",
		"date", day.Format("2006-01-02"),
		"busy", len(busy),
		"free", len(slots),
	)
	return slots, nil
}

// FreeSlots walks the business window of day in SlotLength steps and returns
// the earliest slots that overlap no busy interval, in chronological order.
// It stops as soon as hours.MaxSlots slots are collected.
func FreeSlots(day time.Time, busy []BusyInterval, hours BusinessHours) []Slot {
	loc := hours.Location
	if loc == nil {
		loc = time.UTC
	}
	open := time.Date(day.Year(), day.Month(), day.Day(), hours.OpenHour, 0, 0, 0, loc)
	closing := time.Date(day.Year(), day.Month(), day.Day(), hours.CloseHour, 0, 0, 0, loc)

	var slots []Slot
	for start := open; start.Before(closing); start = start.Add(SlotLength) {
		if hours.MaxSlots > 0 && len(slots) >= hours.MaxSlots {
			break
		}
		slot := NewSlot(start)
		if slot.End.After(closing) {
			break
		}
		if conflicts(slot, busy) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func conflicts(slot Slot, busy []BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(slot.Start, slot.End) {
			return true
		}
	}
	return false
}
