package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"recipe-status-service/internal/dto"
	"recipe-status-service/internal/model"
	"recipe-status-service/internal/timeline"
	"recipe-status-service/pkg/pagination"
)

// Interfaz que debe implementar repository
type RecipeRepository interface {
	Save(ctx context.Context, o *model.RecipeOrder) error
	FindByOrderCode(ctx context.Context, orderCode string) (*model.RecipeOrder, error)
	UpdateStatus(ctx context.Context, orderCode, status string, record model.StatusRecord, deliveryNote string) error
	FindAll(ctx context.Context, limit, offset int) ([]*model.RecipeOrder, int, error)
	FindByStatus(ctx context.Context, status string) ([]*model.RecipeOrder, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.RecipeOrder, error)
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrFinalState         = errors.New("no se puede cambiar el estado de una orden en estado final")
	ErrOrderAlreadyExists = errors.New("la orden ya fue inicializada previamente")
	ErrNoDeliveryNote     = errors.New("la orden no tiene nota de entrega")
)

type RecipeStatusService struct {
	repo RecipeRepository

	// Inyectable para que los tests fijen el reloj.
	now func() time.Time
}

func NewRecipeStatusService(r RecipeRepository) *RecipeStatusService {
	return &RecipeStatusService{repo: r, now: time.Now}
}

// Estados válidos (por nombre). No hay catálogo en BD.
var validStates = map[string]bool{
	timeline.PhasePending:    true,
	timeline.PhaseSubmitted:  true,
	timeline.PhaseProcessed:  true,
	timeline.PhaseDelivered:  true,
	timeline.StatusCancelled: true,
}

func isValidState(s string) bool {
	return validStates[s]
}

// Transiciones permitidas (hardcodeadas por nombre) para admin y user.
// El admin avanza la orden por las fases canónicas; el dueño solo puede
// cancelar mientras no esté procesada.
var adminTransitions = map[string][]string{
	timeline.PhasePending:   {timeline.PhaseSubmitted},
	timeline.PhaseSubmitted: {timeline.PhaseProcessed},
	timeline.PhaseProcessed: {timeline.PhaseDelivered},
}

var userTransitions = map[string][]string{
	timeline.PhasePending:   {timeline.StatusCancelled},
	timeline.PhaseSubmitted: {timeline.StatusCancelled},
}

// Estados finales
var finalStates = map[string]bool{
	timeline.StatusCancelled: true,
	timeline.PhaseDelivered:  true,
}

// InitRecipeOrder crea o hace upsert del estado inicial de la orden.
// IMPORTANTE: fuerza el estado a "Pendiente" (siempre).
// Se puede invocar desde el consumer Rabbit (primario) o vía API para pruebas.
// Si el evento no trae código de orden, se genera uno.
func (s *RecipeStatusService) InitRecipeOrder(ctx context.Context, req dto.InitRecipeOrderRequest, fromRabbit bool) (*model.RecipeOrder, error) {

	orderCode := req.OrderCode
	if orderCode == "" {
		orderCode = "RC-" + uuid.NewString()
	}

	// 1. Primero preguntamos si ya existe
	existing, err := s.repo.FindByOrderCode(ctx, orderCode)

	// 2. Si NO hay error (significa que ya existe), no hacemos nada
	if err == nil && existing != nil {
		return nil, ErrOrderAlreadyExists
	}

	// 3. Si da error ErrNotFound, entonces sí la creamos desde cero
	now := s.now().UTC()
	order := &model.RecipeOrder{
		OrderCode:     orderCode,
		UserID:        req.UserID,
		PatientName:   req.PatientName,
		PatientCedula: req.PatientCedula,
		PatientState:  req.PatientState,
		Status:        timeline.PhasePending,
		CreatedAt:     now,
		UpdatedAt:     now,
		History: []model.StatusRecord{
			{
				Description: timeline.PhasePending,
				ChangedDate: now.Format("2006-01-02"),
				ChangedTime: now.Format("15:04:05"),
				Medications: req.Medications,
				Reason:      "Orden inicializada",
				UserID:      req.UserID,
				Current:     true,
			},
		},
	}

	return order, s.repo.Save(ctx, order)
}

// ImportOrder crea una orden que llega con historial previo (migración del
// sistema viejo). El historial se toma tal cual; el estado actual y los pares
// fecha/hora por fase se derivan de él pasándolo por la normalización
// canónica, así una migración parcial o desordenada igual deja una orden
// coherente.
func (s *RecipeStatusService) ImportOrder(ctx context.Context, req dto.InitRecipeOrderRequest, history []model.StatusRecord) (*model.RecipeOrder, error) {
	if len(history) == 0 {
		return s.InitRecipeOrder(ctx, req, true)
	}

	orderCode := req.OrderCode
	if orderCode == "" {
		orderCode = "RC-" + uuid.NewString()
	}

	existing, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err == nil && existing != nil {
		return nil, ErrOrderAlreadyExists
	}

	now := s.now().UTC()
	order := &model.RecipeOrder{
		OrderCode:     orderCode,
		UserID:        req.UserID,
		PatientName:   req.PatientName,
		PatientCedula: req.PatientCedula,
		PatientState:  req.PatientState,
		Status:        timeline.PhasePending,
		CreatedAt:     now,
		UpdatedAt:     now,
		History:       history,
	}

	// Estado actual: el último registro del historial con descripción.
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Description != "" {
			order.Status = history[i].Description
			order.History[i].Current = true
			break
		}
	}

	// Pares fecha/hora por fase completada.
	for _, ph := range timeline.Normalize(history) {
		if !ph.Completed {
			continue
		}
		switch ph.Description {
		case timeline.PhaseSubmitted:
			order.SubmittedDate, order.SubmittedTime = ph.ChangedDate, ph.ChangedTime
		case timeline.PhaseProcessed:
			order.InProcessDate, order.InProcessTime = ph.ChangedDate, ph.ChangedTime
		case timeline.PhaseDelivered:
			order.DeliveredDate, order.DeliveredTime = ph.ChangedDate, ph.ChangedTime
		}
	}

	return order, s.repo.Save(ctx, order)
}

// Getters
func (s *RecipeStatusService) GetByOrderCode(ctx context.Context, orderCode string) (*model.RecipeOrder, error) {
	return s.repo.FindByOrderCode(ctx, orderCode)
}

func (s *RecipeStatusService) GetByStatus(ctx context.Context, status string) ([]*model.RecipeOrder, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *RecipeStatusService) GetByUserID(ctx context.Context, userID string) ([]*model.RecipeOrder, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// ListRows devuelve la página proyectada para la tabla del dashboard:
// canceladas excluidas, filtro de búsqueda aplicado y campos derivados
// calculados con un único "now" capturado para toda la pasada.
func (s *RecipeStatusService) ListRows(ctx context.Context, searchTerm string, p pagination.Params) (*pagination.Response, error) {
	orders, total, err := s.repo.FindAll(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}

	vals := make([]model.RecipeOrder, 0, len(orders))
	for _, o := range orders {
		vals = append(vals, *o)
	}

	rows := timeline.Project(vals, searchTerm, s.now())
	return pagination.NewResponse(rows, total, p.Limit, p.Offset), nil
}

// GetTimeline arma el detalle de una orden: las cuatro fases canónicas
// normalizadas y la lista de medicamentos vigente.
func (s *RecipeStatusService) GetTimeline(ctx context.Context, orderCode string) (*dto.TimelineResponse, error) {
	o, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}

	return &dto.TimelineResponse{
		OrderCode:     o.OrderCode,
		PatientName:   o.PatientName,
		PatientCedula: o.PatientCedula,
		PatientState:  o.PatientState,
		Status:        o.Status,
		Phases:        timeline.Normalize(o.History),
		Medications:   timeline.CurrentMedications(o.History),
	}, nil
}

// GetDeliveryNote resuelve la referencia al documento de nota de entrega.
func (s *RecipeStatusService) GetDeliveryNote(ctx context.Context, orderCode string) (*dto.DeliveryNoteResponse, error) {
	o, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if o.DeliveryNote == "" {
		return nil, ErrNoDeliveryNote
	}
	return &dto.DeliveryNoteResponse{OrderCode: o.OrderCode, Document: o.DeliveryNote}, nil
}

// UpdateStatus valida y realiza la transición entre estados según las reglas de negocio.
func (s *RecipeStatusService) UpdateStatus(ctx context.Context, orderCode string, req dto.UpdateStatusRequest, actorID string, isAdmin bool) error {
	ord, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		return err
	}

	current := ord.Status
	newStatus := req.Status

	// Si el estado nuevo es el mismo que ya está, no hacemos nada
	if current == newStatus {
		return nil
	}
	// Si el estado actual es final, no se puede cambiar
	if finalStates[current] {
		return ErrFinalState
	}
	// Si el nuevo estado no es válido, error
	if !isValidState(newStatus) {
		return ErrInvalidTransition
	}

	// Determinamos si el actor es el dueño de la orden
	isOwner := ord.UserID == actorID

	// Puede realizar la transición si es admin?
	allowedAsAdmin := isAdmin && contains(adminTransitions[current], newStatus)

	// Puede realizar la transición si es dueño?
	allowedAsOwner := isOwner && contains(userTransitions[current], newStatus)

	// Tiene permiso para hacer cualquier cambio?
	if !isAdmin && !isOwner {
		return ErrForbidden // Ni es admin, ni es el dueño -> Fuera.
	}

	if !allowedAsAdmin && !allowedAsOwner {
		// Caso especial: Si es admin, pero no es el dueño, no puede cancelar
		if isAdmin && newStatus == timeline.StatusCancelled && !isOwner {
			return ErrForbidden
		}

		return ErrInvalidTransition
	}

	now := s.now().UTC()
	record := model.StatusRecord{
		Description: newStatus,
		ChangedDate: now.Format("2006-01-02"),
		ChangedTime: now.Format("15:04:05"),
		Medications: req.Medications,
		Reason:      req.Reason,
		UserID:      actorID,
		Current:     true,
	}

	// La nota de entrega solo acompaña a la entrega.
	deliveryNote := ""
	if newStatus == timeline.PhaseDelivered {
		deliveryNote = req.DeliveryNote
	}

	return s.repo.UpdateStatus(ctx, orderCode, newStatus, record, deliveryNote)
}

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
