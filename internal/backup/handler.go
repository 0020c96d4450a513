package backup

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func (h *Handler) Backup(c *gin.Context) {
	info, err := h.service.Backup(c.Request.Context(), middleware.ActorID(c), c.ClientIP())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, info)
}

type restoreRequest struct {
	Filename string `json:"filename" binding:"required"`
}

func (h *Handler) Restore(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Restore(c.Request.Context(), req.Filename, middleware.ActorID(c), c.ClientIP()); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database restored, restart recommended"})
}

func (h *Handler) List(c *gin.Context) {
	infos, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, infos)
}
