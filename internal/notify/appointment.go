package notify

import (
	"fmt"
	"html"
)

// AppointmentConfirmation builds the e-mail sent to a patient after booking.
// when is the already formatted local date and time.
func AppointmentConfirmation(to, when string) EmailMessage {
	body := fmt.Sprintf("Hola,\n\nTu cita médica quedó agendada para el %s.\n\n"+
		"Si necesitas cambiarla, escríbenos por el chat de BOTica.\n\nBOTica", when)
	htmlBody := fmt.Sprintf("<p>Hola,</p><p>Tu cita médica quedó agendada para el <strong>%s</strong>.</p>"+
		"<p>Si necesitas cambiarla, escríbenos por el chat de BOTica.</p><p>BOTica</p>", html.EscapeString(when))
	return EmailMessage{
		To:       to,
		Subject:  "Confirmación de cita - BOTica",
		Body:     body,
		HTML:     htmlBody,
		Category: "cita",
	}
}
