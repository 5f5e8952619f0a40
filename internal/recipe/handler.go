package recipe

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

type generateRequest struct {
	Ingredients []string `json:"ingredients"`
	Caption     string   `json:"caption"`
}

// Generate produces recipe text for a previously analyzed ingredient list.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No ingredients provided"})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req.Ingredients, req.Caption)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		logger.Error("recipe generation failed", "error", err)
		c.JSON(apperr.HTTPStatus(err), gin.H{
			"error":   err.Error(),
			"details": "If the issue persists, check that the recipe model backend is running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  result.Recipe,
	})
}
