package timeline

import (
	"fmt"
	"strings"
	"time"

	"recipe-status-service/internal/model"
)

// NotAvailable es el valor centinela cuando el tiempo de entrega no aplica
// o no se puede calcular.
const NotAvailable = "N/A"

// Estado terminal que corta cualquier cálculo de tiempo de entrega.
const StatusCancelled = "Cancelado"

var (
	dateLayouts = []string{"2006-01-02", "02/01/2006"}
	timeLayouts = []string{"15:04:05", "15:04"}
)

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CombineInstant arma el instante efectivo de una fase: su fecha con la hora
// del día aplicada. Si falta o no parsea cualquiera de las dos partes, no hay
// instante (una fecha ilegible se trata igual que una fecha ausente).
func CombineInstant(date, clock string) (time.Time, bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	d, ok := parseDate(date)
	if !ok {
		return time.Time{}, false
	}
	c, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), true
}

// Duration formatea la diferencia absoluta entre dos instantes, descompuesta
// con avidez en la unidad más grande que aplique: "{d}d {h}h", "{h}h {m}m",
// "{m}m {s}s" o "{s}s". El orden de los argumentos no importa.
func Duration(a, b time.Time) string {
	if a.IsZero() || b.IsZero() {
		return NotAvailable
	}

	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}

	days := int(diff / (24 * time.Hour))
	hours := int(diff/time.Hour) % 24
	minutes := int(diff/time.Minute) % 60
	seconds := int(diff/time.Second) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// ComputeDeliveryTime calcula la duración a mostrar para una orden según su
// estado actual:
//
//   - cancelada: N/A, sin mirar las fechas.
//   - entregada: intervalo fijo desde el inicio del trámite hasta la entrega.
//   - cualquier otro estado (en trámite, en proceso, o uno desconocido):
//     intervalo vivo desde el inicio del trámite hasta now.
//
// now lo captura el llamador una sola vez por pasada, así todas las filas de
// una misma proyección comparten el mismo instante de referencia.
func ComputeDeliveryTime(o model.RecipeOrder, now time.Time) string {
	status := strings.ToLower(strings.TrimSpace(o.Status))
	if status == "cancelado" {
		return NotAvailable
	}

	start, ok := CombineInstant(o.SubmittedDate, o.SubmittedTime)
	if !ok {
		return NotAvailable
	}

	if strings.Contains(status, "entregado") {
		end, ok := CombineInstant(o.DeliveredDate, o.DeliveredTime)
		if !ok {
			return NotAvailable
		}
		return Duration(start, end)
	}

	return Duration(start, now)
}
