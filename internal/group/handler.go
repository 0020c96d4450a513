package group

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type groupRequest struct {
	OperatorID            uint       `json:"operator_id" binding:"required"`
	Name                  string     `json:"name" binding:"required"`
	Type                  string     `json:"type" binding:"omitempty,oneof=WithCashWallet WithoutCashWallet Suspended InMail"`
	Status                string     `json:"status" binding:"omitempty,oneof=Active DeliveredToClient ReturnedFromClient Suspended"`
	MaxLinesCount         int        `json:"max_lines_count"`
	ValidityDays          *int       `json:"validity_days"`
	AlertDaysBeforeExpiry int        `json:"alert_days_before_expiry"`
	DeliveredToClientName *string    `json:"delivered_to_client_name"`
	DeliveryDate          *time.Time `json:"delivery_date"`
	ExpectedReturnDate    *time.Time `json:"expected_return_date"`
	Notes                 string     `json:"notes"`
}

func (req groupRequest) toGroup(id uint) *Group {
	return &Group{
		ID:                    id,
		OperatorID:            req.OperatorID,
		Name:                  req.Name,
		Type:                  req.Type,
		Status:                req.Status,
		MaxLinesCount:         req.MaxLinesCount,
		ValidityDays:          req.ValidityDays,
		AlertDaysBeforeExpiry: req.AlertDaysBeforeExpiry,
		DeliveredToClientName: req.DeliveredToClientName,
		DeliveryDate:          req.DeliveryDate,
		ExpectedReturnDate:    req.ExpectedReturnDate,
		Notes:                 req.Notes,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g := req.toGroup(0)
	if err := h.service.Create(c.Request.Context(), g, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g := req.toGroup(uint(id))
	if err := h.service.Update(c.Request.Context(), g, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id), middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	snap, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snaps, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snaps)
}

func (h *Handler) Renew(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	snap, err := h.service.RenewValidity(c.Request.Context(), uint(id), middleware.ActorID(c), c.ClientIP())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
