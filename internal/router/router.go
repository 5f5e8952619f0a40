package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Dev2197/recipe-snap/internal/analyze"
	"github.com/Dev2197/recipe-snap/internal/recipe"
	"github.com/Dev2197/recipe-snap/internal/upload"
)

// Version reported by the service-info document.
const Version = "1.0.0"

// New assembles the gin engine with all API routes.
func New(
	uploadHandler *upload.Handler,
	analyzeHandler *analyze.Handler,
	recipeHandler *recipe.Handler,
) *gin.Engine {

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	// Service info document
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "RecipeSnap AI Cooking Assistant API",
			"version": Version,
			"endpoints": gin.H{
				"upload":  "POST /api/upload",
				"analyze": "POST /api/analyze",
				"recipe":  "POST /api/recipe",
			},
		})
	})

	api := r.Group("/api")
	{
		api.POST("/upload", uploadHandler.Upload)
		api.POST("/analyze", analyzeHandler.Analyze)
		api.POST("/recipe", recipeHandler.Generate)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return r
}
