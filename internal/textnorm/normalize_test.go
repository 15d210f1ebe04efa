package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Menú Principal", "menu principal"},
		{"  HÁBITOS de higiene  ", "habitos de higiene"},
		{"Sí", "si"},
		{"ÑANDÚ", "nandu"},
		{"agendar cita", "agendar cita"},
		{"", ""},
		{"15/12/2030", "15/12/2030"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestContainsAny(t *testing.T) {
	text := Normalize("Quiero volver al INICIO por favor")
	assert.True(t, ContainsAny(text, "menu principal", "volver al inicio"))
	assert.False(t, ContainsAny(text, "agendar cita"))
	assert.False(t, ContainsAny(text, ""))
}

func TestHasWord(t *testing.T) {
	assert.True(t, HasWord(Normalize("Sí, por favor"), "si"))
	assert.True(t, HasWord("claro!", "si", "claro"))
	assert.False(t, HasWord("asi esta bien", "si"))
	assert.False(t, HasWord("", "si"))
}
