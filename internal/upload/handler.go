package upload

import (
	"errors"
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

// Upload accepts a multipart image under the "image" field, validates it
// and persists it, returning the generated filename for later stages.
func (h *Handler) Upload(c *gin.Context) {
	// Cap the whole request body so oversize uploads fail early instead
	// of being buffered in full.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file uploaded"})
		return
	}
	defer file.Close()

	img, err := h.service.Submit(
		c.Request.Context(),
		file,
		header.Header.Get("Content-Type"),
		header.Filename,
		header.Size,
	)
	if err != nil {
		logger.Error("upload failed", "original_name", header.Filename, "error", err)
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	logger.Info("image uploaded", "filename", img.Filename, "size", img.Size)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"filename":     img.Filename,
		"originalName": img.OriginalName,
		"size":         img.Size,
		"path":         img.Path,
	})
}
