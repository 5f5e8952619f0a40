package analyze

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/logger"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type analyzeRequest struct {
	Filename string `json:"filename"`
}

// Analyze runs the captioning and detection scripts for an uploaded image.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No filename provided"})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req.Filename)
	if err != nil {
		logger.Error("analysis failed", "filename", req.Filename, "error", err)

		status := apperr.HTTPStatus(err)
		if status == http.StatusNotFound {
			c.JSON(status, gin.H{"error": "Image file not found"})
			return
		}
		c.JSON(status, gin.H{
			"error":   err.Error(),
			"details": "Check server logs for more information",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"caption":     result.Caption,
		"ingredients": result.Ingredients,
		"detections":  result.Detections,
	})
}
