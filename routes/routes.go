package routes

import (
	"app/handlers"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/health", h.HandleHealth)

	api := app.Group("/api")

	// Promotion report
	api.Get("/report", h.HandleGetReport)

	// Report history (MongoDB)
	mongodb := api.Group("/mongodb")
	mongodb.Get("/logs", h.HandleGetRecommendationLogs)
	mongodb.Delete("/delete/:id", h.HandleDeleteReport)

	// Dashboard charts
	charts := api.Group("/charts")
	charts.Get("/bar-top5", h.HandleChartBarTop5)
	charts.Get("/scatter-price-days", h.HandleChartScatterPriceDays)
	charts.Get("/pie-warehouse", h.HandleChartPieWarehouse)

	// Per-product drill-down
	api.Get("/products/:productId/sales-history", h.HandleGetProductSalesHistory)
}
