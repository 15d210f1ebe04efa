// Package dialogue runs the BOTica conversation state machine: a menu plus the
// appointment, stock and hygiene flows.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/botica-chatbot/internal/assistant"
	"github.com/wolfman30/botica-chatbot/internal/calendar"
	"github.com/wolfman30/botica-chatbot/internal/inventory"
	"github.com/wolfman30/botica-chatbot/internal/notify"
	"github.com/wolfman30/botica-chatbot/internal/observability/metrics"
	"github.com/wolfman30/botica-chatbot/internal/session"
	"github.com/wolfman30/botica-chatbot/internal/textnorm"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// SlotFinder lists free appointment slots for a civil date.
type SlotFinder interface {
	Available(ctx context.Context, date time.Time) ([]calendar.Slot, error)
}

// Booker creates an appointment for a slot.
type Booker interface {
	Book(ctx context.Context, slot calendar.Slot, email string) (string, error)
}

// MedicationFinder looks a product up in the inventory.
type MedicationFinder interface {
	Find(ctx context.Context, query string) (*inventory.Medication, error)
}

// Assistant answers open questions inside a continuing conversation.
type Assistant interface {
	Ask(ctx context.Context, text, token string) (assistant.Answer, error)
}

// ErrUnavailable marks a collaborator that was not initialised at startup.
var ErrUnavailable = errors.New("dialogue: collaborator unavailable")

// Config wires an Engine. Store is required; a nil collaborator makes its
// feature answer with an unavailability apology.
type Config struct {
	Store       session.Store
	Slots       SlotFinder
	Booker      Booker
	Medications MedicationFinder
	Assistant   Assistant
	Notifier    notify.EmailSender
	Location    *time.Location
	Logger      *logging.Logger
	Metrics     *metrics.ChatMetrics
	NewKey      func() string
	Now         func() time.Time
}

// Reply is the answer to one user message.
type Reply struct {
	Text       string
	SessionKey string
	Step       session.Step
}

// Engine handles chat turns. It keeps no state of its own between turns.
type Engine struct {
	store       session.Store
	slots       SlotFinder
	booker      Booker
	medications MedicationFinder
	assistant   Assistant
	notifier    notify.EmailSender
	loc         *time.Location
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	newKey      func() string
	now         func() time.Time
}

func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("dialogue: session store is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.NewKey == nil {
		cfg.NewKey = func() string { return "session_" + uuid.NewString() }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		store:       cfg.Store,
		slots:       cfg.Slots,
		booker:      cfg.Booker,
		medications: cfg.Medications,
		assistant:   cfg.Assistant,
		notifier:    cfg.Notifier,
		loc:         cfg.Location,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		newKey:      cfg.NewKey,
		now:         cfg.Now,
	}, nil
}

// turn is the working context of one message.
type turn struct {
	state      *session.State
	raw        string
	normalized string
	logger     *logging.Logger
	// overridden is set when a keyword override moved the session this turn.
	overridden bool
}

type stepHandler func(e *Engine, ctx context.Context, t *turn) (string, outcome)

var handlers = map[session.Step]stepHandler{
	session.StepMenu:               (*Engine).handleMenu,
	session.StepScheduleDate:       (*Engine).handleScheduleDate,
	session.StepScheduleCheckSlots: (*Engine).handleCheckSlots,
	session.StepScheduleOtherDate:  (*Engine).handleOtherDate,
	session.StepScheduleSelectSlot: (*Engine).handleSelectSlot,
	session.StepScheduleEmail:      (*Engine).handleEmail,
	session.StepMedicationName:     (*Engine).handleMedicationName,
	session.StepMedicationSearch:   (*Engine).handleMedicationSearch,
	session.StepMedicationRetry:    (*Engine).handleMedicationRetry,
	session.StepHygieneQuestion:    (*Engine).handleHygiene,
}

// Handle processes one message for the session key, creating the session when
// key is empty or unseen. Only session store failures are returned as errors;
// collaborator problems become apologies in Reply.Text.
func (e *Engine) Handle(ctx context.Context, key, message string) (Reply, error) {
	if strings.TrimSpace(key) == "" {
		key = e.newKey()
	}
	logger := e.logger.WithSession(key)

	state, err := e.store.Get(ctx, key)
	switch {
	case errors.Is(err, session.ErrNotFound):
		state = session.New()
	case err != nil:
		logger.Error("dialogue: failed to load session", "error", err)
		return Reply{SessionKey: key}, fmt.Errorf("dialogue: load session: %w", err)
	}

	t := &turn{state: state, raw: message, normalized: textnorm.Normalize(message), logger: logger}

	if o, ok := matchOverride(t.raw, t.normalized); ok {
		logger.Debug("dialogue: override", "group", o.group, "from", state.Step, "to", o.entry)
		e.metrics.ObserveOverride(o.group)
		state.Reset(o.entry)
		t.overridden = true
	}
	if !state.Step.Valid() {
		logger.Warn("dialogue: unknown step, falling back to menu", "step", state.Step)
		state.Reset(session.StepMenu)
	}

	from := state.Step
	text, out := handlers[from](e, ctx, t)

	next, ok := nextStep(from, out)
	if !ok {
		logger.Warn("dialogue: no transition, returning to menu", "step", from, "outcome", out)
	}
	state.Step = next
	state.Data = scopeData(next, state.Data)
	state.UpdatedAt = e.now()

	if err := e.store.Put(ctx, key, state); err != nil {
		logger.Error("dialogue: failed to save session", "error", err, "step", next)
		return Reply{Text: text, SessionKey: key, Step: next}, fmt.Errorf("dialogue: save session: %w", err)
	}

	e.metrics.ObserveTurn(string(from), string(out))
	logger.Debug("dialogue: turn handled", "from", from, "outcome", out, "to", next)
	return Reply{Text: text, SessionKey: key, Step: next}, nil
}
