package dialogue

import "github.com/wolfman30/botica-chatbot/internal/session"

// outcome classifies what a step handler made of a message.
type outcome string

const (
	outIdle        outcome = "idle"
	outPrompted    outcome = "prompted"
	outInvalid     outcome = "invalid"
	outSchedule    outcome = "schedule"
	outStock       outcome = "stock"
	outHygiene     outcome = "hygiene"
	outSlotsFound  outcome = "slots_found"
	outNoSlots     outcome = "no_slots"
	outSelected    outcome = "selected"
	outBooked      outcome = "booked"
	outSlotTaken   outcome = "slot_taken"
	outFound       outcome = "found"
	outOutOfStock  outcome = "out_of_stock"
	outNotFound    outcome = "not_found"
	outYes         outcome = "yes"
	outNo          outcome = "no"
	outAnswered    outcome = "answered"
	outFailed      outcome = "failed"
	outUnavailable outcome = "unavailable"
)

type transitionKey struct {
	step    session.Step
	outcome outcome
}

// transitions maps (step, outcome) to the step the session moves to. Pairs
// missing from the table fall back to the menu.
var transitions = map[transitionKey]session.Step{
	{session.StepMenu, outIdle}:     session.StepMenu,
	{session.StepMenu, outSchedule}: session.StepScheduleDate,
	{session.StepMenu, outStock}:    session.StepMedicationName,
	{session.StepMenu, outHygiene}:  session.StepHygieneQuestion,

	{session.StepScheduleDate, outPrompted}:    session.StepScheduleCheckSlots,
	{session.StepScheduleDate, outSlotsFound}:  session.StepScheduleSelectSlot,
	{session.StepScheduleDate, outNoSlots}:     session.StepScheduleOtherDate,
	{session.StepScheduleDate, outFailed}:      session.StepMenu,
	{session.StepScheduleDate, outUnavailable}: session.StepMenu,

	{session.StepScheduleCheckSlots, outInvalid}:     session.StepScheduleCheckSlots,
	{session.StepScheduleCheckSlots, outSlotsFound}:  session.StepScheduleSelectSlot,
	{session.StepScheduleCheckSlots, outNoSlots}:     session.StepScheduleOtherDate,
	{session.StepScheduleCheckSlots, outFailed}:      session.StepMenu,
	{session.StepScheduleCheckSlots, outUnavailable}: session.StepMenu,

	{session.StepScheduleOtherDate, outYes}: session.StepScheduleDate,
	{session.StepScheduleOtherDate, outNo}:  session.StepMenu,

	{session.StepScheduleSelectSlot, outInvalid}:  session.StepScheduleSelectSlot,
	{session.StepScheduleSelectSlot, outSelected}: session.StepScheduleEmail,

	{session.StepScheduleEmail, outInvalid}:     session.StepScheduleEmail,
	{session.StepScheduleEmail, outBooked}:      session.StepMenu,
	{session.StepScheduleEmail, outSlotTaken}:   session.StepMenu,
	{session.StepScheduleEmail, outFailed}:      session.StepMenu,
	{session.StepScheduleEmail, outUnavailable}: session.StepMenu,

	{session.StepMedicationName, outPrompted}: session.StepMedicationSearch,

	{session.StepMedicationSearch, outFound}:       session.StepMenu,
	{session.StepMedicationSearch, outOutOfStock}:  session.StepMedicationRetry,
	{session.StepMedicationSearch, outNotFound}:    session.StepMedicationRetry,
	{session.StepMedicationSearch, outFailed}:      session.StepMenu,
	{session.StepMedicationSearch, outUnavailable}: session.StepMenu,

	// A yes re-enters the search step directly; the name prompt is part of the reply.
	{session.StepMedicationRetry, outYes}: session.StepMedicationSearch,
	{session.StepMedicationRetry, outNo}:  session.StepMenu,

	{session.StepHygieneQuestion, outSchedule}:    session.StepScheduleDate,
	{session.StepHygieneQuestion, outStock}:       session.StepMedicationName,
	{session.StepHygieneQuestion, outAnswered}:    session.StepHygieneQuestion,
	{session.StepHygieneQuestion, outFailed}:      session.StepMenu,
	{session.StepHygieneQuestion, outUnavailable}: session.StepMenu,
}

func nextStep(step session.Step, out outcome) (session.Step, bool) {
	next, ok := transitions[transitionKey{step, out}]
	if !ok {
		return session.StepMenu, false
	}
	return next, true
}

// scopeData drops working values that do not belong to step.
func scopeData(step session.Step, d session.Data) session.Data {
	switch step {
	case session.StepScheduleSelectSlot:
		return session.Data{Date: d.Date, Slots: d.Slots}
	case session.StepScheduleEmail:
		return session.Data{Date: d.Date, Slots: d.Slots, SelectedSlot: d.SelectedSlot}
	case session.StepHygieneQuestion:
		return session.Data{AssistantToken: d.AssistantToken}
	default:
		return session.Data{}
	}
}
