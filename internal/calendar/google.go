package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Scope is the OAuth scope needed to read and write events.
const Scope = gcal.CalendarScope

// GoogleBackend implements Backend with the Google Calendar v3 API.
type GoogleBackend struct {
	svc *gcal.Service
	// loc anchors all-day events, which carry a date but no offset.
	loc *time.Location
}

// NewGoogleBackend creates a Calendar client from the given client options.
func NewGoogleBackend(ctx context.Context, loc *time.Location, opts ...option.ClientOption) (*GoogleBackend, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create google service: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GoogleBackend{svc: svc, loc: loc}, nil
}

// ListEvents pages through single events overlapping [timeMin, timeMax).
func (b *GoogleBackend) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]BusyInterval, error) {
	var busy []BusyInterval
	call := b.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			interval, ok, err := b.busyInterval(item)
			if err != nil {
				return err
			}
			if ok {
				busy = append(busy, interval)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}
	return busy, nil
}

// CreateEvent inserts ev without notifying anyone.
func (b *GoogleBackend) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	overrides := make([]*gcal.EventReminder, 0, len(ev.Reminders))
	for _, r := range ev.Reminders {
		overrides = append(overrides, &gcal.EventReminder{Method: r.Method, Minutes: r.Minutes})
	}

	body := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: ev.TimeZone},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: ev.TimeZone},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := b.svc.Events.Insert(calendarID, body).SendUpdates("none").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	return created.Id, nil
}

// busyInterval maps an API event to the range it blocks. Cancelled and
// transparent ("free") events block nothing.
func (b *GoogleBackend) busyInterval(ev *gcal.Event) (BusyInterval, bool, error) {
	if ev == nil || ev.Status == "cancelled" || ev.Transparency == "transparent" {
		return BusyInterval{}, false, nil
	}
	start, err := parseEventTime(ev.Start, b.loc)
	if err != nil {
		return BusyInterval{}, false, fmt.Errorf("calendar: event %s start: %w", ev.Id, err)
	}
	end, err := parseEventTime(ev.End, b.loc)
	if err != nil {
		return BusyInterval{}, false, fmt.Errorf("calendar: event %s end: %w", ev.Id, err)
	}
	return BusyInterval{Start: start, End: end}, true, nil
}

func parseEventTime(dt *gcal.EventDateTime, loc *time.Location) (time.Time, error) {
	switch {
	case dt == nil:
		return time.Time{}, fmt.Errorf("missing time")
	case dt.DateTime != "":
		return time.Parse(time.RFC3339, dt.DateTime)
	case dt.Date != "":
		return time.ParseInLocation("2006-01-02", dt.Date, loc)
	default:
		return time.Time{}, fmt.Errorf("empty time")
	}
}
