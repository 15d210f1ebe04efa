package dialogue

import (
	"strings"

	"github.com/wolfman30/botica-chatbot/internal/session"
	"github.com/wolfman30/botica-chatbot/internal/textnorm"
)

// override is a keyword group that jumps straight to the entry step of a flow
// from anywhere in the dialogue.
type override struct {
	group   string
	entry   session.Step
	phrases []string
	exact   []string
}

// overrides are evaluated in order; the first match wins. Phrases are
// normalized (no accents, folded case).
var overrides = []override{
	{group: "menu", entry: session.StepMenu, phrases: []string{"menu principal", "volver al inicio"}, exact: []string{"0"}},
	{group: "schedule", entry: session.StepScheduleDate, phrases: []string{"agendar cita"}},
	{group: "stock", entry: session.StepMedicationName, phrases: []string{"consultar stock", "stock de medicamentos"}},
	{group: "hygiene", entry: session.StepHygieneQuestion, phrases: []string{"habitos de higiene"}},
}

func (o override) matches(raw, normalized string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, e := range o.exact {
		if trimmed == e {
			return true
		}
	}
	return textnorm.ContainsAny(normalized, o.phrases...)
}

func matchOverride(raw, normalized string) (override, bool) {
	for _, o := range overrides {
		if o.matches(raw, normalized) {
			return o, true
		}
	}
	return override{}, false
}
