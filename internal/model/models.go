// models.go
package model

import "time"

// RecipeOrder es el documento principal: una orden de recipe (prescripción)
// del paciente, con sus marcas de tiempo por fase y su historial de estados.
type RecipeOrder struct {
	RecipeID  int    `bson:"id_recipe" json:"id_recipe"`
	OrderCode string `bson:"order_code" json:"Codigo_de_Orden"`
	UserID    string `bson:"user_id" json:"userId"`

	PatientName   string `bson:"patient_name" json:"Nombre_Paciente"`
	PatientCedula string `bson:"patient_cedula" json:"Cedula_del_Paciente"`
	PatientState  string `bson:"patient_state" json:"Direccion_Estado_del_Paciente"`

	Status string `bson:"status" json:"Estado_actual_de_la_orden"` // estado actual

	// Pares fecha/hora por fase. Vacío = la orden todavía no pasó por esa fase.
	// Los nombres JSON reproducen el contrato del backend original.
	SubmittedDate string `bson:"fecha_en_tramite" json:"fechaEnTramite"`
	SubmittedTime string `bson:"hora_en_tramite" json:"horaEnTramite"`
	InProcessDate string `bson:"fecha_en_proceso" json:"fechaEnProceso"`
	InProcessTime string `bson:"hora_en_proceso" json:"horaEnProceso"`
	DeliveredDate string `bson:"fecha_entregado" json:"fechaEntregado"`
	DeliveredTime string `bson:"hora_entregado" json:"horaEntregado"`

	// Referencia al documento de nota de entrega (imagen), si existe.
	DeliveryNote string `bson:"nota_entrega" json:"Nota_entrega"`

	History   []StatusRecord `bson:"history" json:"history"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

// StatusRecord es una entrada del historial: la fase alcanzada, cuándo,
// quién la produjo y los medicamentos dispensados en esa fase.
type StatusRecord struct {
	Description string       `bson:"description" json:"description"`
	ChangedDate string       `bson:"changed_date" json:"changedAt"`
	ChangedTime string       `bson:"changed_time" json:"changedAtTime"`
	Medications []Medication `bson:"medications" json:"medications"`
	Reason      string       `bson:"reason" json:"reason"`
	UserID      string       `bson:"user" json:"userId"`

	// Para marcar cuál es el último
	Current bool `bson:"current" json:"current"`
}

// Medication es un renglón de medicamento dentro de una fase.
type Medication struct {
	ID             int    `bson:"id" json:"id"`
	CommercialName string `bson:"commercial_name" json:"commercialName"`
	Quantity       int    `bson:"quantity" json:"quantity"`
}
