package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

const (
	appointmentSummary     = "Cita Médica - BOTica"
	appointmentDescription = "Cita agendada a través del chatbot BOTica"
)

// appointmentReminders: e-mail a day ahead, popup half an hour ahead.
var appointmentReminders = []Reminder{
	{Method: "email", Minutes: 24 * 60},
	{Method: "popup", Minutes: 30},
}

// Writer books confirmed slots on the calendar.
//
// The patient e-mail goes into the event description rather than the attendee
// list: service accounts cannot invite attendees without domain-wide delegation.
type Writer struct {
	backend    Backend
	calendarID string
	timeZone   string
	logger     *logging.Logger
}

// NewWriter creates an appointment writer. timeZone is the IANA label sent
// with the event times.
func NewWriter(backend Backend, calendarID, timeZone string, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Writer{backend: backend, calendarID: calendarID, timeZone: timeZone, logger: logger}
}

// Book re-checks that the slot is still free, then creates the event and
// returns its identifier. Backend failures are returned unchanged in meaning;
// there is no retry.
func (w *Writer) Book(ctx context.Context, slot Slot, email string) (string, error) {
	if w.backend == nil {
		return "", errors.New("calendar: backend not configured")
	}
	if slot.End.IsZero() {
		slot = NewSlot(slot.Start)
	}

	busy, err := w.backend.ListEvents(ctx, w.calendarID, slot.Start, slot.End)
	if err != nil {
		return "", fmt.Errorf("calendar: failed to re-check slot: %w", err)
	}
	if conflicts(slot, busy) {
		return "", ErrSlotTaken
	}

	id, err := w.backend.CreateEvent(ctx, w.calendarID, BuildAppointment(slot, email, w.timeZone))
	if err != nil {
		return "", fmt.Errorf("calendar: failed to create event: %w", err)
	}
	w.logger.Info("calendar: appointment booked", "event_id", id, "start", slot.Start.Format("2006-01-02T15:04:05Z07:00"))
	return id, nil
}

// BuildAppointment assembles the event written for a booked slot.
func BuildAppointment(slot Slot, email, timeZone string) Event {
	description := appointmentDescription
	if email = strings.TrimSpace(email); email != "" {
		description += "\nCorreo del paciente: " + email
	}
	return Event{
		Summary:     appointmentSummary,
		Description: description,
		Start:       slot.Start,
		End:         slot.End,
		TimeZone:    timeZone,
		Reminders:   append([]Reminder(nil), appointmentReminders...),
	}
}
