// Package session holds per-conversation dialogue state and the stores that keep it.
package session

import (
	"errors"
	"time"
)

// Step is a position in the dialogue state machine.
type Step string

const (
	StepMenu               Step = "menu"
	StepScheduleDate       Step = "agendar_fecha"
	StepScheduleCheckSlots Step = "agendar_verificar_horarios"
	StepScheduleOtherDate  Step = "agendar_otra_fecha"
	StepScheduleSelectSlot Step = "agendar_seleccionar_horario"
	StepScheduleEmail      Step = "agendar_email"
	StepMedicationName     Step = "medicamento_nombre"
	StepMedicationSearch   Step = "medicamento_buscar"
	StepMedicationRetry    Step = "medicamento_reintentar"
	StepHygieneQuestion    Step = "higiene_consulta"
)

// Steps lists every valid step.
var Steps = []Step{
	StepMenu,
	StepScheduleDate,
	StepScheduleCheckSlots,
	StepScheduleOtherDate,
	StepScheduleSelectSlot,
	StepScheduleEmail,
	StepMedicationName,
	StepMedicationSearch,
	StepMedicationRetry,
	StepHygieneQuestion,
}

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	for _, known := range Steps {
		if s == known {
			return true
		}
	}
	return false
}

// ErrNotFound is returned by stores when a key has no saved state.
var ErrNotFound = errors.New("session: not found")

// Data holds step-scoped working values. Fields are only meaningful while the
// session stays inside the flow that populated them.
type Data struct {
	// Date is the requested appointment day, formatted 2006-01-02.
	Date           string      `json:"date,omitempty"`
	Slots          []time.Time `json:"slots,omitempty"`
	SelectedSlot   *time.Time  `json:"selectedSlot,omitempty"`
	AssistantToken string      `json:"assistantToken,omitempty"`
}

// IsEmpty reports whether no working value is set.
func (d Data) IsEmpty() bool {
	return d.Date == "" && len(d.Slots) == 0 && d.SelectedSlot == nil && d.AssistantToken == ""
}

// Clone returns a deep copy so stores never share slices or pointers with callers.
func (d Data) Clone() Data {
	out := d
	if d.Slots != nil {
		out.Slots = append([]time.Time(nil), d.Slots...)
	}
	if d.SelectedSlot != nil {
		selected := *d.SelectedSlot
		out.SelectedSlot = &selected
	}
	return out
}

// State is the persisted dialogue state of one session.
type State struct {
	Step      Step      `json:"step"`
	Data      Data      `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns the state of a session that has never been seen.
func New() *State {
	return &State{Step: StepMenu}
}

// Reset moves the session to step and drops every working value.
func (s *State) Reset(step Step) {
	s.Step = step
	s.Data = Data{}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Data = s.Data.Clone()
	return &out
}
