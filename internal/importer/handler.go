package importer

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ImportCSV accepts a multipart upload under "file" plus a "group_id" form
// field.
func (h *Handler) ImportCSV(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.PostForm("group_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing group_id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	result, err := h.service.ImportCSV(c.Request.Context(), uint(groupID), f, middleware.ActorID(c), c.ClientIP())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type qrRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func (h *Handler) ImportQR(c *gin.Context) {
	var req qrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.service.ImportQRPayload(c.Request.Context(), req.Payload, middleware.ActorID(c), c.ClientIP())
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, l)
}
