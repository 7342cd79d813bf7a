// dto.go
package dto

import (
	"encoding/json"
	"time"

	"recipe-status-service/internal/model"
	"recipe-status-service/internal/timeline"
)

// InitRecipeOrderRequest usado por la API y Rabbit para inicializar una orden
type InitRecipeOrderRequest struct {
	OrderCode     string             `json:"Codigo_de_Orden"`
	UserID        string             `json:"userId" binding:"required"`
	PatientName   string             `json:"Nombre_Paciente" binding:"required"`
	PatientCedula string             `json:"Cedula_del_Paciente" binding:"required"`
	PatientState  string             `json:"Direccion_Estado_del_Paciente"`
	Medications   []model.Medication `json:"medications"`
}

type UpdateStatusRequest struct {
	Status       string             `json:"status" binding:"required"`
	Reason       string             `json:"reason"`
	Medications  []model.Medication `json:"medications"`
	DeliveryNote string             `json:"Nota_entrega"`
}

// StatusHistory tolera respuestas malformadas del backend: si el campo de
// historial no viene como arreglo (null, objeto, string), se decodifica como
// historial vacío en vez de fallar. El consumidor siempre recibe algo bien
// formado y la línea de tiempo degrada a "todo pendiente".
type StatusHistory []model.StatusRecord

func (h *StatusHistory) UnmarshalJSON(data []byte) error {
	var records []model.StatusRecord
	if err := json.Unmarshal(data, &records); err != nil {
		*h = StatusHistory{}
		return nil
	}
	*h = StatusHistory(records)
	return nil
}

// TimelineResponse es el detalle de una orden: resumen, las cuatro fases
// normalizadas y los medicamentos vigentes.
type TimelineResponse struct {
	OrderCode     string             `json:"Codigo_de_Orden"`
	PatientName   string             `json:"Nombre_Paciente"`
	PatientCedula string             `json:"Cedula_del_Paciente"`
	PatientState  string             `json:"Direccion_Estado_del_Paciente"`
	Status        string             `json:"Estado_actual_de_la_orden"`
	Phases        []timeline.Phase   `json:"phases"`
	Medications   []model.Medication `json:"medications"`
}

type DeliveryNoteResponse struct {
	OrderCode string `json:"Codigo_de_Orden"`
	Document  string `json:"Nota_entrega"`
}

type RecipeOrderResponse struct {
	OrderCode     string    `json:"Codigo_de_Orden"`
	UserID        string    `json:"userId"`
	PatientName   string    `json:"Nombre_Paciente"`
	PatientCedula string    `json:"Cedula_del_Paciente"`
	Status        string    `json:"Estado_actual_de_la_orden"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
