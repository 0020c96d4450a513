package alert

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// Check evaluates all alerts against current data.
func (h *Handler) Check(c *gin.Context) {
	result, err := h.service.CheckAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest returns the result of the most recent scheduled scan without
// triggering a new one.
func (h *Handler) Latest(c *gin.Context) {
	result := h.service.Latest()
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no scan has completed yet"})
		return
	}
	c.JSON(http.StatusOK, result)
}
