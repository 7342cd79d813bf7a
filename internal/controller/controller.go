package controller

import (
	"errors"
	"net/http"
	"slices"

	"recipe-status-service/internal/dto"
	"recipe-status-service/internal/repository"
	"recipe-status-service/internal/service"
	"recipe-status-service/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	Service *service.RecipeStatusService
}

func NewRecipeController(s *service.RecipeStatusService) *RecipeController {
	return &RecipeController{Service: s}
}

// POST /status/init — No requiere token
func (ctl *RecipeController) InitStatus(c *gin.Context) {
	var req dto.InitRecipeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.InitRecipeOrder(
		c.Request.Context(),
		req,
		false, // ← No viene desde Rabbit, viene desde la API
	)
	if err != nil {
		if errors.Is(err, service.ErrOrderAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, res)
}

// PATCH /orders/:orderCode/status — requiere token
func (ctl *RecipeController) UpdateStatus(c *gin.Context) {
	orderCode := c.Param("orderCode")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("userID")
	perms := c.GetStringSlice("userPermissions")
	isAdmin := slices.Contains(perms, "admin")

	err := ctl.Service.UpdateStatus(
		c.Request.Context(),
		orderCode,
		req,
		actorID,
		isAdmin,
	)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// GET /orders/mine - user (middleware debe poner userID)
func (ctl *RecipeController) GetMyOrders(c *gin.Context) {
	userID := c.GetString("userID")
	orders, err := ctl.Service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// canView: el admin ve todo; el usuario, solo sus órdenes.
func (ctl *RecipeController) canView(c *gin.Context, orderCode string) bool {
	perms := c.GetStringSlice("userPermissions")
	if slices.Contains(perms, "admin") {
		return true
	}
	o, err := ctl.Service.GetByOrderCode(c.Request.Context(), orderCode)
	if err != nil {
		return false
	}
	return o.UserID == c.GetString("userID")
}

// GET /orders/:orderCode/timeline — detalle con las 4 fases normalizadas
// y la lista de medicamentos vigente.
func (ctl *RecipeController) GetTimeline(c *gin.Context) {
	orderCode := c.Param("orderCode")

	if !ctl.canView(c, orderCode) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another user's order"})
		return
	}

	res, err := ctl.Service.GetTimeline(c.Request.Context(), orderCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

// GET /orders/:orderCode/delivery-note — referencia al documento de entrega
func (ctl *RecipeController) GetDeliveryNote(c *gin.Context) {
	orderCode := c.Param("orderCode")

	if !ctl.canView(c, orderCode) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another user's order"})
		return
	}

	res, err := ctl.Service.GetDeliveryNote(c.Request.Context(), orderCode)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, service.ErrNoDeliveryNote):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// GET /admin/orders - admin only (middleware AdminOnly).
// Filas proyectadas para la tabla: ?search= filtra, ?limit=&offset= paginan.
func (ctl *RecipeController) GetRows(c *gin.Context) {
	params := pagination.FromContext(c)
	search := c.Query("search")

	res, err := ctl.Service.ListRows(c.Request.Context(), search, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /admin/orders/state/:state - admin only
func (ctl *RecipeController) GetAllOrdersByState(c *gin.Context) {
	state := c.Param("state")
	orders, err := ctl.Service.GetByStatus(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}
