package dialogue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wolfman30/botica-chatbot/internal/calendar"
	"github.com/wolfman30/botica-chatbot/internal/notify"
	"github.com/wolfman30/botica-chatbot/internal/session"
)

// handleMenu always shows the menu; a valid option only takes effect on the
// next message.
func (e *Engine) handleMenu(_ context.Context, t *turn) (string, outcome) {
	switch strings.TrimSpace(t.raw) {
	case "1":
		return msgMenu, outSchedule
	case "2":
		return msgMenu, outStock
	case "3":
		return msgMenu, outHygiene
	}
	if o, ok := matchOverride(t.raw, t.normalized); ok {
		switch o.entry {
		case session.StepScheduleDate:
			return msgMenu, outSchedule
		case session.StepMedicationName:
			return msgMenu, outStock
		case session.StepHygieneQuestion:
			return msgMenu, outHygiene
		}
	}
	return msgMenu, outIdle
}

// handleScheduleDate prompts for a date. The message that moved the session
// here is never read as a date, but a well-formed date sent while the session
// already waits in this step is checked right away.
func (e *Engine) handleScheduleDate(ctx context.Context, t *turn) (string, outcome) {
	if !t.overridden {
		if _, err := parseDate(t.raw, e.loc); err == nil {
			return e.handleCheckSlots(ctx, t)
		}
	}
	return msgAskDate, outPrompted
}

func (e *Engine) handleCheckSlots(ctx context.Context, t *turn) (string, outcome) {
	date, err := parseDate(t.raw, e.loc)
	switch {
	case errors.Is(err, errDateFormat):
		t.logger.Debug("dialogue: date re-prompt", "reason", err.Error())
		return msgDateFormat, outInvalid
	case err != nil:
		t.logger.Debug("dialogue: date re-prompt", "reason", err.Error())
		return msgDateInvalid, outInvalid
	}

	if e.slots == nil {
		t.logger.Error("dialogue: calendar unavailable", "error", ErrUnavailable, "step", t.state.Step)
		return msgUnavailable("agenda"), outUnavailable
	}

	started := time.Now()
	slots, err := e.slots.Available(ctx, date)
	e.metrics.ObserveCall("calendar", "available", started, err)
	if err != nil {
		t.logger.Error("dialogue: failed to list slots", "error", err, "step", t.state.Step, "date", date.Format("2006-01-02"))
		return msgSlotsError, outFailed
	}
	if len(slots) == 0 {
		return msgNoSlots, outNoSlots
	}

	starts := make([]time.Time, len(slots))
	for i, s := range slots {
		starts[i] = s.Start
	}
	t.state.Data.Date = date.Format("2006-01-02")
	t.state.Data.Slots = starts
	return msgSlotList(slots, e.loc), outSlotsFound
}

func (e *Engine) handleOtherDate(_ context.Context, t *turn) (string, outcome) {
	if affirmative(t.normalized) {
		return msgAskDateShort, outYes
	}
	return msgOtherDateNo, outNo
}

func (e *Engine) handleSelectSlot(_ context.Context, t *turn) (string, outcome) {
	slots := t.state.Data.Slots
	choice := parseChoice(t.raw, len(slots))
	if choice == 0 {
		t.logger.Debug("dialogue: slot re-prompt", "input", t.raw, "offered", len(slots))
		return msgSlotChoice(max(len(slots), 1)), outInvalid
	}
	selected := slots[choice-1]
	t.state.Data.SelectedSlot = &selected
	return msgAskEmail, outSelected
}

func (e *Engine) handleEmail(ctx context.Context, t *turn) (string, outcome) {
	email := strings.TrimSpace(t.raw)
	if !validEmail(email) {
		t.logger.Debug("dialogue: email re-prompt")
		return msgEmailInvalid, outInvalid
	}
	if e.booker == nil {
		t.logger.Error("dialogue: calendar unavailable", "error", ErrUnavailable, "step", t.state.Step)
		return msgUnavailable("agenda"), outUnavailable
	}
	if t.state.Data.SelectedSlot == nil {
		t.logger.Error("dialogue: no selected slot in session", "step", t.state.Step)
		return msgBookingError, outFailed
	}

	slot := calendar.NewSlot(*t.state.Data.SelectedSlot)
	started := time.Now()
	eventID, err := e.booker.Book(ctx, slot, email)
	e.metrics.ObserveCall("calendar", "book", started, err)
	switch {
	case errors.Is(err, calendar.ErrSlotTaken):
		t.logger.Warn("dialogue: slot taken before booking", "slot", slot.Start)
		return msgSlotTaken, outSlotTaken
	case err != nil:
		t.logger.Error("dialogue: failed to book appointment", "error", err, "step", t.state.Step)
		return msgBookingError, outFailed
	}

	t.logger.Info("dialogue: appointment booked", "event_id", eventID, "slot", slot.Start)
	e.sendConfirmation(ctx, t, email, slot)
	return msgBooked(slot.Start, e.loc), outBooked
}

// sendConfirmation e-mails the patient. Failures are logged only.
func (e *Engine) sendConfirmation(ctx context.Context, t *turn, email string, slot calendar.Slot) {
	if e.notifier == nil {
		return
	}
	msg := notify.AppointmentConfirmation(email, calendar.FormatLongDate(slot.Start, e.loc))
	if err := e.notifier.Send(ctx, msg); err != nil {
		t.logger.Error("dialogue: confirmation email failed", "error", err)
	}
}

func (e *Engine) handleMedicationName(_ context.Context, _ *turn) (string, outcome) {
	return msgAskMedication, outPrompted
}

func (e *Engine) handleMedicationSearch(ctx context.Context, t *turn) (string, outcome) {
	if e.medications == nil {
		t.logger.Error("dialogue: inventory unavailable", "error", ErrUnavailable, "step", t.state.Step)
		return msgUnavailable("inventario"), outUnavailable
	}

	started := time.Now()
	med, err := e.medications.Find(ctx, t.raw)
	e.metrics.ObserveCall("inventory", "find", started, err)
	switch {
	case err != nil:
		t.logger.Error("dialogue: inventory lookup failed", "error", err, "step", t.state.Step)
		return msgInventoryErr, outFailed
	case med == nil:
		return msgNotInStock, outNotFound
	case !med.InStock:
		return msgNotInStock, outOutOfStock
	}
	return msgInStock(med), outFound
}

func (e *Engine) handleMedicationRetry(_ context.Context, t *turn) (string, outcome) {
	if affirmative(t.normalized) {
		return msgAskMedication, outYes
	}
	return msgRetryNo, outNo
}

func (e *Engine) handleHygiene(ctx context.Context, t *turn) (string, outcome) {
	// Same keywords as the global override; kept so the flow can be left even
	// if the global groups change.
	if strings.Contains(t.normalized, "agendar cita") {
		t.state.Data = session.Data{}
		return msgAskDateShort, outSchedule
	}
	if strings.Contains(t.normalized, "consultar stock") || strings.Contains(t.normalized, "stock de medicamentos") {
		t.state.Data = session.Data{}
		return msgAskMedication, outStock
	}

	if e.assistant == nil {
		t.logger.Error("dialogue: assistant unavailable", "error", ErrUnavailable, "step", t.state.Step)
		return msgUnavailable("consultas"), outUnavailable
	}

	answer, err := e.assistant.Ask(ctx, t.raw, t.state.Data.AssistantToken)
	if err != nil {
		t.logger.Error("dialogue: assistant turn failed", "error", err, "step", t.state.Step)
		return msgHygieneError, outFailed
	}
	t.state.Data.AssistantToken = answer.Token
	return answer.Text, outAnswered
}
