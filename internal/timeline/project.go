package timeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-status-service/internal/model"
)

// Row es la proyección de una orden para la tabla del dashboard: campos
// crudos más los valores ya calculados que la vista pinta tal cual.
type Row struct {
	RecipeID      int    `json:"id_recipe"`
	OrderCode     string `json:"orderCode"`
	PatientName   string `json:"patientName"`
	PatientCedula string `json:"patientCedula"`
	PatientState  string `json:"patientState"`
	Status        string `json:"status"`
	StatusColor   string `json:"statusColor"`

	SubmittedAt  string `json:"submittedAt"`  // DD/MM/YYYY
	LastUpdated  string `json:"lastUpdated"`  // DD/MM/YYYY, fase más avanzada alcanzada
	DeliveryTime string `json:"deliveryTime"` // ver ComputeDeliveryTime

	DetailURL       string `json:"detailUrl"`
	DeliveryNoteURL string `json:"deliveryNoteUrl,omitempty"`
}

// Project arma las filas de la tabla: excluye las órdenes canceladas, aplica
// el filtro de búsqueda y calcula los campos derivados. El orden de entrada
// se conserva; acá no se ordena nada (ordenar es una acción aparte del
// usuario sobre las filas ya proyectadas).
//
// La exclusión de canceladas ocurre antes que la búsqueda: una orden
// cancelada no aparece aunque el término la matchee.
func Project(orders []model.RecipeOrder, searchTerm string, now time.Time) []Row {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	rows := make([]Row, 0, len(orders))
	for _, o := range orders {
		if strings.EqualFold(strings.TrimSpace(o.Status), "cancelado") {
			continue
		}
		if term != "" && !matchesTerm(o, term) {
			continue
		}
		rows = append(rows, buildRow(o, now))
	}
	return rows
}

// matchesTerm hace un barrido lineal sobre los valores propios de la orden
// (no sobre los derivados). Alcanza para la escala del dashboard; no hay
// ningún índice detrás.
func matchesTerm(o model.RecipeOrder, term string) bool {
	values := []string{
		strconv.Itoa(o.RecipeID),
		o.OrderCode,
		o.PatientName,
		o.PatientCedula,
		o.PatientState,
		o.Status,
		o.SubmittedDate,
		o.SubmittedTime,
		o.InProcessDate,
		o.InProcessTime,
		o.DeliveredDate,
		o.DeliveredTime,
		o.DeliveryNote,
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func buildRow(o model.RecipeOrder, now time.Time) Row {
	row := Row{
		RecipeID:      o.RecipeID,
		OrderCode:     o.OrderCode,
		PatientName:   o.PatientName,
		PatientCedula: o.PatientCedula,
		PatientState:  o.PatientState,
		Status:        o.Status,
		StatusColor:   statusColor(o.Status),
		SubmittedAt:   formatDate(o.SubmittedDate),
		LastUpdated:   lastUpdated(o),
		DeliveryTime:  ComputeDeliveryTime(o, now),
		DetailURL:     fmt.Sprintf("/orders/%s/timeline", o.OrderCode),
	}
	if o.DeliveryNote != "" {
		row.DeliveryNoteURL = fmt.Sprintf("/orders/%s/delivery-note", o.OrderCode)
	}
	return row
}

// phaseRank resuelve el estado libre del backend al rango de su fase
// canónica: primero por igualdad exacta contra la lista canónica y, si el
// texto derivó (p. ej. "En Proceso"), por palabra clave. Desconocido = rango
// de Pendiente.
func phaseRank(status string) int {
	s := strings.TrimSpace(status)
	for i, name := range CanonicalPhases {
		if strings.EqualFold(s, name) {
			return i
		}
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "entregado"):
		return 3
	case strings.Contains(lower, "procesado"), strings.Contains(lower, "proceso"):
		return 2
	case strings.Contains(lower, "tramite"):
		return 1
	default:
		return 0
	}
}

// lastUpdated elige la fecha de la fase más avanzada que la orden alcanzó:
// baja desde el rango del estado actual hasta encontrar un par fecha/hora
// completo, con la fecha de trámite como último recurso.
func lastUpdated(o model.RecipeOrder) string {
	pairs := [][2]string{
		{},                                 // Pendiente: sin marca de tiempo
		{o.SubmittedDate, o.SubmittedTime}, // En Tramite
		{o.InProcessDate, o.InProcessTime}, // Procesado
		{o.DeliveredDate, o.DeliveredTime}, // Entregado
	}

	for rank := phaseRank(o.Status); rank >= 1; rank-- {
		if _, ok := CombineInstant(pairs[rank][0], pairs[rank][1]); ok {
			return formatDate(pairs[rank][0])
		}
	}
	return formatDate(o.SubmittedDate)
}

// formatDate normaliza a DD/MM/YYYY. Si la fecha no parsea se devuelve tal
// cual llegó: siempre se pinta algo antes que romper la fila.
func formatDate(date string) string {
	if date == "" {
		return ""
	}
	d, ok := parseDate(date)
	if !ok {
		return date
	}
	return d.Format("02/01/2006")
}

// statusColor reutiliza el color de la fase canónica del estado; gris para
// estados fuera del vocabulario.
func statusColor(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), "cancelado") {
		return "#EF4444"
	}
	rank := phaseRank(status)
	if rank == 0 && !strings.EqualFold(strings.TrimSpace(status), PhasePending) {
		return "#9CA3AF"
	}
	return phaseColors[CanonicalPhases[rank]]
}
