package rabbit

import (
	"context"
	"encoding/json"
	"log"

	"recipe-status-service/internal/dto"
	"recipe-status-service/internal/model"
	"recipe-status-service/internal/service"
)

type PlaceRecipeConsumer struct {
	Service *service.RecipeStatusService
}

func NewPlaceRecipeConsumer(s *service.RecipeStatusService) *PlaceRecipeConsumer {
	return &PlaceRecipeConsumer{Service: s}
}

// PlacedRecipeMessage es el evento que publica el backend de prescripciones
// al colocar una orden. El campo history viene solo en los eventos de
// migración del sistema viejo y puede llegar malformado: dto.StatusHistory
// lo decodifica como vacío en ese caso.
type PlacedRecipeMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderCode     string             `json:"Codigo_de_Orden"`
		UserID        string             `json:"userId"`
		PatientName   string             `json:"Nombre_Paciente"`
		PatientCedula string             `json:"Cedula_del_Paciente"`
		PatientState  string             `json:"Direccion_Estado_del_Paciente"`
		Medications   []model.Medication `json:"medications"`
		History       dto.StatusHistory  `json:"history"`
	} `json:"message"`
}

func (c *PlaceRecipeConsumer) Handle(msg []byte) error {

	log.Println("[Rabbit] Evento recibido: recipe_placed")

	var event PlacedRecipeMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("Error parseando mensaje:", err)
		return err
	}

	req := dto.InitRecipeOrderRequest{
		OrderCode:     event.Message.OrderCode,
		UserID:        event.Message.UserID,
		PatientName:   event.Message.PatientName,
		PatientCedula: event.Message.PatientCedula,
		PatientState:  event.Message.PatientState,
		Medications:   event.Message.Medications,
	}

	var err error
	if len(event.Message.History) > 0 {
		// Migración: la orden llega con historial previo del sistema viejo.
		_, err = c.Service.ImportOrder(context.Background(), req, event.Message.History)
	} else {
		_, err = c.Service.InitRecipeOrder(context.Background(), req, true)
	}

	if err != nil {
		log.Println("❌ Error creando estado inicial:", err)
		return err
	}

	log.Println("✔ Estado inicial procesado para orden:", event.Message.OrderCode)
	return nil
}
