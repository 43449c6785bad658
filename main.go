package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"app/advisor"
	"app/analyzer"
	"app/charts"
	"app/config"
	"app/database"
	"app/handlers"
	"app/history"
	"app/reportcache"
	"app/routes"
	"app/scheduler"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize the warehouse database
	database.Connect(cfg.DatabaseURL)
	defer database.Close()

	ctx := context.Background()

	// History store: a failed Mongo connection disables persistence but
	// never prevents startup.
	store := history.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	defer store.Close(ctx)

	sales := analyzer.New(database.GetDB(), cfg.AnalysisDays, cfg.LowSalesThreshold)

	h := &handlers.Handler{
		History: store,
		Charts:  charts.New(sales),
		Sales:   sales,
	}

	// AI advisor: without it the report endpoint degrades to 500 while the
	// rest of the API keeps working.
	ai, err := advisor.New(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Printf("Failed to initialize promotion advisor: %v", err)
	} else {
		defer ai.Close()

		orch := reportcache.New(sales, ai, store)
		h.Reports = orch

		interval := time.Duration(cfg.AnalysisIntervalHours) * time.Hour
		scheduler.New(orch, interval).Start(ctx)
	}

	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, h)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}
