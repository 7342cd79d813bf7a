package timeline

import (
	"recipe-status-service/internal/model"
)

// Fases canónicas del ciclo de vida de una orden, en orden. La lista es fija:
// define el eje de la línea de tiempo y la partición completado/pendiente.
const (
	PhasePending   = "Pendiente"
	PhaseSubmitted = "En Tramite"
	PhaseProcessed = "Procesado"
	PhaseDelivered = "Entregado"
)

var CanonicalPhases = []string{PhasePending, PhaseSubmitted, PhaseProcessed, PhaseDelivered}

var phaseColors = map[string]string{
	PhasePending:   "#64748B",
	PhaseSubmitted: "#0077C8",
	PhaseProcessed: "#00A78E",
	PhaseDelivered: "#22C55E",
}

// Sufijo alfa para fases que aún no se alcanzaron (color atenuado).
const dimAlpha = "66"

// Phase es una fase ya normalizada, lista para pintar en la línea de tiempo.
type Phase struct {
	Description string             `json:"description"`
	ChangedDate string             `json:"changedAt"`
	ChangedTime string             `json:"changedAtTime"`
	Medications []model.Medication `json:"medications"`
	Color       string             `json:"color"`
	Completed   bool               `json:"completed"`
}

// PhaseColor devuelve el color canónico de la fase; atenuado si no se completó.
func PhaseColor(name string, completed bool) string {
	color, ok := phaseColors[name]
	if !ok {
		color = "#9CA3AF"
	}
	if !completed {
		return color + dimAlpha
	}
	return color
}

// Normalize proyecta un historial posiblemente parcial (o vacío, o con fases
// repetidas o desconocidas) sobre la lista canónica. La salida siempre tiene
// exactamente una entrada por fase canónica, en orden canónico.
//
// Si el backend repite una fase, gana la última aparición del arreglo de
// entrada (last write wins).
func Normalize(records []model.StatusRecord) []Phase {
	out := make([]Phase, 0, len(CanonicalPhases))

	for _, name := range CanonicalPhases {
		phase := Phase{
			Description: name,
			Medications: []model.Medication{},
			Color:       PhaseColor(name, false),
		}

		for _, rec := range records {
			if rec.Description != name {
				continue
			}
			phase.ChangedDate = rec.ChangedDate
			phase.ChangedTime = rec.ChangedTime
			phase.Completed = true
			phase.Color = PhaseColor(name, true)
			if rec.Medications != nil {
				phase.Medications = rec.Medications
			}
		}

		out = append(out, phase)
	}

	return out
}

// CurrentMedications devuelve los medicamentos del último registro del
// historial (en orden de entrada, no canónico) que tenga descripción y
// medicamentos presentes. Si no hay ninguno, la lista queda vacía.
func CurrentMedications(records []model.StatusRecord) []model.Medication {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Description != "" && len(records[i].Medications) > 0 {
			return records[i].Medications
		}
	}
	return []model.Medication{}
}
