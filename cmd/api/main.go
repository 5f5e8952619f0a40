package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Dev2197/recipe-snap/internal/analyze"
	"github.com/Dev2197/recipe-snap/internal/config"
	"github.com/Dev2197/recipe-snap/internal/logger"
	"github.com/Dev2197/recipe-snap/internal/recipe"
	"github.com/Dev2197/recipe-snap/internal/router"
	"github.com/Dev2197/recipe-snap/internal/script"
	"github.com/Dev2197/recipe-snap/internal/storage"
	"github.com/Dev2197/recipe-snap/internal/upload"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	logger.Init()
	cfg := config.Load()

	// ───────────────────────── STORAGE ─────────────────────────
	var store storage.Store
	switch cfg.StorageBackend {
	case "r2":
		r2, err := storage.NewR2Store(context.Background(), cfg)
		if err != nil {
			log.Fatal("R2 init failed:", err)
		}
		store = r2
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			log.Fatal("upload dir init failed:", err)
		}
		store = local
	}

	// ───────────────────────── SERVICES ─────────────────────────
	runner := script.NewPythonRunner(cfg.Interpreters())

	uploadService := upload.NewService(store)
	analyzeService := analyze.NewService(store, runner, cfg.ScriptsDir, cfg.AnalyzeTimeout)
	recipeService := recipe.NewService(runner, cfg.ScriptsDir, cfg.RecipeTimeout)

	// ───────────────────────── HANDLERS ─────────────────────────
	uploadHandler := upload.NewHandler(uploadService)
	analyzeHandler := analyze.NewHandler(analyzeService)
	recipeHandler := recipe.NewHandler(recipeService)

	r := router.New(uploadHandler, analyzeHandler, recipeHandler)

	// ───────────────────────── START ─────────────────────────
	logger.Info("RecipeSnap API server starting",
		"port", cfg.Port, "uploads", cfg.UploadDir, "scripts", cfg.ScriptsDir)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
