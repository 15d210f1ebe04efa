package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wolfman30/botica-chatbot/internal/assistant"
	"github.com/wolfman30/botica-chatbot/internal/calendar"
	"github.com/wolfman30/botica-chatbot/internal/inventory"
	"github.com/wolfman30/botica-chatbot/internal/notify"
	"github.com/wolfman30/botica-chatbot/internal/session"
)

var lima = time.FixedZone("UTC-05:00", -5*3600)

// calendarStub is a calendar backend with a fixed busy list.
type calendarStub struct {
	busy    []calendar.BusyInterval
	listErr error
}

func (c *calendarStub) ListEvents(_ context.Context, _ string, timeMin, timeMax time.Time) ([]calendar.BusyInterval, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []calendar.BusyInterval
	for _, b := range c.busy {
		if b.Overlaps(timeMin, timeMax) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *calendarStub) CreateEvent(context.Context, string, calendar.Event) (string, error) {
	return "", errors.New("not used")
}

type bookerStub struct {
	err    error
	slots  []calendar.Slot
	emails []string
}

func (b *bookerStub) Book(_ context.Context, slot calendar.Slot, email string) (string, error) {
	b.slots = append(b.slots, slot)
	b.emails = append(b.emails, email)
	if b.err != nil {
		return "", b.err
	}
	return "evt_123", nil
}

type medicationStub struct {
	med     *inventory.Medication
	err     error
	queries []string
}

func (m *medicationStub) Find(_ context.Context, query string) (*inventory.Medication, error) {
	m.queries = append(m.queries, query)
	return m.med, m.err
}

type assistantStub struct {
	err    error
	asks   []string
	tokens []string
}

func (a *assistantStub) Ask(_ context.Context, text, token string) (assistant.Answer, error) {
	a.asks = append(a.asks, text)
	a.tokens = append(a.tokens, token)
	if a.err != nil {
		return assistant.Answer{}, a.err
	}
	if token == "" {
		token = "thread_1"
	}
	return assistant.Answer{Text: "respuesta: " + text, Token: token}, nil
}

type notifierStub struct {
	err  error
	sent []notify.EmailMessage
}

func (n *notifierStub) Send(_ context.Context, msg notify.EmailMessage) error {
	n.sent = append(n.sent, msg)
	return n.err
}

// failingStore fails Get or Put on demand.
type failingStore struct {
	*session.MemoryStore
	getErr error
	putErr error
}

func (f *failingStore) Get(ctx context.Context, key string) (*session.State, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Put(ctx context.Context, key string, st *session.State) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, key, st)
}

type harness struct {
	engine      *Engine
	store       *session.MemoryStore
	calendar    *calendarStub
	booker      *bookerStub
	medications *medicationStub
	assistant   *assistantStub
	notifier    *notifierStub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:       session.NewMemoryStore(),
		calendar:    &calendarStub{},
		booker:      &bookerStub{},
		medications: &medicationStub{},
		assistant:   &assistantStub{},
		notifier:    &notifierStub{},
	}
	resolver := calendar.NewResolver(h.calendar, "cal", calendar.DefaultBusinessHours(lima), nil)
	engine, err := New(Config{
		Store:       h.store,
		Slots:       resolver,
		Booker:      h.booker,
		Medications: h.medications,
		Assistant:   h.assistant,
		Notifier:    h.notifier,
		Location:    lima,
		NewKey:      func() string { return "session_test" },
	})
	require.NoError(t, err)
	h.engine = engine
	return h
}

// say sends message on key and fails the test on a store error.
func (h *harness) say(t *testing.T, key, message string) Reply {
	t.Helper()
	reply, err := h.engine.Handle(context.Background(), key, message)
	require.NoError(t, err)
	return reply
}

func (h *harness) state(t *testing.T, key string) *session.State {
	t.Helper()
	st, err := h.store.Get(context.Background(), key)
	require.NoError(t, err)
	return st
}

func (h *harness) seed(t *testing.T, key string, st *session.State) {
	t.Helper()
	require.NoError(t, h.store.Put(context.Background(), key, st))
}
