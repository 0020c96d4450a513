package line

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type lineRequest struct {
	GroupID        uint   `json:"group_id" binding:"required"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	SerialNumber   string `json:"serial_number"`
	AssociatedName string `json:"associated_name"`
	NationalID     string `json:"national_id"`
	CashWalletID   string `json:"cash_wallet_id"`
	Notes          string `json:"notes"`
}

func (req lineRequest) toLine(id uint) *Line {
	return &Line{
		ID:             id,
		GroupID:        req.GroupID,
		PhoneNumber:    req.PhoneNumber,
		SerialNumber:   req.SerialNumber,
		AssociatedName: req.AssociatedName,
		NationalID:     req.NationalID,
		CashWalletID:   req.CashWalletID,
		Notes:          req.Notes,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := req.toLine(0)
	if err := h.service.Add(c.Request.Context(), l, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}

	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := req.toLine(uint(id))
	if err := h.service.Update(c.Request.Context(), l, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id), middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line deleted"})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}

	l, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) Reactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}

	if err := h.service.Reactivate(c.Request.Context(), uint(id), middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line reactivated"})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Available Blocked Expired"`
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), uint(id), req.Status, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line status updated"})
}
