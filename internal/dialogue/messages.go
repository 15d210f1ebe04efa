package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/botica-chatbot/internal/calendar"
	"github.com/wolfman30/botica-chatbot/internal/inventory"
)

const (
	msgMenu = "¡Hola! Te saluda BOTica, tu chatbot clínico favorito. Por favor indícame cómo te puedo ayudar:\n\n" +
		"1.- Agendar cita con alguna especialidad\n" +
		"2.- Consultar stock de medicamentos\n" +
		"3.- Consultar buenos hábitos de higiene"

	msgAskDate       = "Por favor indica en qué día deseas agendar la cita. Escribe la fecha en formato: DD/MM/YYYY\n\nEjemplo: 15/12/2024"
	msgAskDateShort  = "Por favor indica en qué día deseas agendar la cita (formato DD/MM/YYYY)"
	msgDateFormat    = "Por favor ingresa la fecha en formato DD/MM/YYYY"
	msgDateInvalid   = "Fecha inválida. Por favor ingresa una fecha correcta en formato DD/MM/YYYY"
	msgNoSlots       = "Lo siento, no hay horarios disponibles para esa fecha. ¿Deseas elegir otra fecha? (Sí/No)"
	msgSlotsError    = "Ocurrió un error al verificar los horarios. Por favor intenta nuevamente más tarde."
	msgOtherDateNo   = "De acuerdo. Por favor indícanos si hay algo más en lo que podamos ayudarte"
	msgAskEmail      = "Por favor indícame una dirección de email para generar la cita"
	msgEmailInvalid  = "Por favor indica una dirección de email válida"
	msgBookingError  = "Ocurrió un error al crear la cita. Por favor intenta nuevamente o contacta al administrador."
	msgSlotTaken     = "Lo siento, ese horario acaba de ser reservado por otra persona. Por favor agenda nuevamente eligiendo otro horario."
	msgAskMedication = "Por favor escribe el nombre del medicamento que estás buscando"
	msgNotInStock    = "El producto no se encuentra en stock. ¿Deseas probar con otro? (Sí/No)"
	msgInventoryErr  = "Ocurrió un error al consultar el inventario. Por favor intenta nuevamente más tarde."
	msgRetryNo       = "De acuerdo, por favor indícanos si te podemos ayudar en algo adicional"
	msgHygieneError  = "Lo siento, ocurrió un error al procesar tu consulta sobre hábitos de higiene. Por favor intenta nuevamente."
)

func msgUnavailable(feature string) string {
	return fmt.Sprintf("Lo siento, el servicio de %s no está disponible en este momento. Por favor intenta más tarde.", feature)
}

func msgSlotList(slots []calendar.Slot, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Los horarios disponibles son:\n\n")
	for i, s := range slots {
		fmt.Fprintf(&b, "%d.- %s\n", i+1, calendar.FormatClock(s.Start, loc))
	}
	fmt.Fprintf(&b, "\nPor favor elige un número del 1 al %d", len(slots))
	return b.String()
}

func msgSlotChoice(n int) string {
	return fmt.Sprintf("Por favor elige un número válido del 1 al %d", n)
}

func msgBooked(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("Listo, la cita se agendó para el %s\n\n¿Hay algo más en lo que pueda ayudarte?", calendar.FormatLongDate(start, loc))
}

func msgInStock(med *inventory.Medication) string {
	units := "unidades disponibles"
	if med.StockCount == 1 {
		units = "unidad disponible"
	}
	text := fmt.Sprintf("El producto \"%s\" se encuentra en stock (%d %s). Puedes acercarte a comprarlo.", med.Name, med.StockCount, units)
	if med.RequiresPrescription {
		text += "\n\nRecuerda que este medicamento requiere receta médica."
	}
	return text + "\n\nPor favor indícame si te puedo ayudar en algo adicional"
}
