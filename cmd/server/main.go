package main

import (
	"log"

	"github.com/jengzang/wifi-positioning-go/internal/api"
	"github.com/jengzang/wifi-positioning-go/internal/config"
	"github.com/jengzang/wifi-positioning-go/internal/database"
	"github.com/jengzang/wifi-positioning-go/internal/handler"
	"github.com/jengzang/wifi-positioning-go/internal/push"
	"github.com/jengzang/wifi-positioning-go/internal/repository"
	"github.com/jengzang/wifi-positioning-go/internal/service"
)

func main() {
	cfg := config.Load()

	// Load trained artifacts; a serving process without a consistent
	// model/schema/label-space trio must not start.
	paths := service.ArtifactPaths{
		Model:  cfg.ModelPath,
		Labels: cfg.LabelsPath,
		Schema: cfg.SchemaPath,
	}
	bundle, err := service.LoadArtifacts(paths)
	if err != nil {
		log.Fatal("Failed to load artifacts: ", err)
	}
	log.Printf("Loaded model with %d features, %d locations", bundle.Schema.Len(), bundle.Labels.Len())

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close()
	db := database.GetDB()

	hub := push.NewHub()
	predRepo := repository.NewPredictionRepository(db)
	locRepo := repository.NewLocationRepository(db)

	predictionService, err := service.NewPredictionService(bundle, hub, predRepo)
	if err != nil {
		log.Fatal("Failed to initialize prediction service: ", err)
	}
	locationService := service.NewLocationService(locRepo)
	surveyService := service.NewSurveyService(cfg.TrainingDataPath)

	handlers := api.Handlers{
		Prediction: handler.NewPredictionHandler(predictionService),
		Location:   handler.NewLocationHandler(locationService, predictionService),
		Admin: handler.NewAdminHandler(predictionService, surveyService, paths,
			cfg.JWTSecret, cfg.AdminAPIKey, cfg.TokenTTL),
		WS: handler.NewWSHandler(hub, predictionService),
	}

	router := api.SetupRouter(cfg, predictionService, handlers)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
