package calendar

import (
	"context"
	"time"
)

type listCall struct {
	calendarID string
	timeMin    time.Time
	timeMax    time.Time
}

// fakeBackend returns busy intervals that overlap the requested window.
type fakeBackend struct {
	busy      []BusyInterval
	listErr   error
	createErr error
	lists     []listCall
	created   []Event
}

func (f *fakeBackend) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time) ([]BusyInterval, error) {
	f.lists = append(f.lists, listCall{calendarID: calendarID, timeMin: timeMin, timeMax: timeMax})
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []BusyInterval
	for _, b := range f.busy {
		if b.Overlaps(timeMin, timeMax) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateEvent(_ context.Context, _ string, ev Event) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, ev)
	f.busy = append(f.busy, BusyInterval{Start: ev.Start, End: ev.End})
	return "evt_1", nil
}
