package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"app/models"
)

// HandleChartBarTop5 renders the lowest sell-through bar chart.
// GET /api/charts/bar-top5
func (h *Handler) HandleChartBarTop5(c *fiber.Ctx) error {
	return h.serveChart(c, "bar-top5", h.Charts.BarTop5)
}

// HandleChartScatterPriceDays renders the price vs days scatter chart.
// GET /api/charts/scatter-price-days
func (h *Handler) HandleChartScatterPriceDays(c *fiber.Ctx) error {
	return h.serveChart(c, "scatter-price-days", h.Charts.ScatterPriceDays)
}

// HandleChartPieWarehouse renders the warehouse distribution pie chart.
// GET /api/charts/pie-warehouse
func (h *Handler) HandleChartPieWarehouse(c *fiber.Ctx) error {
	return h.serveChart(c, "pie-warehouse", h.Charts.PieWarehouse)
}

func (h *Handler) serveChart(c *fiber.Ctx, name string, render func(context.Context) (*models.ChartPayload, error)) error {
	payload, err := render(c.Context())
	if err != nil {
		log.Printf("Error rendering %s chart: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate chart",
		})
	}
	if payload == nil {
		return c.JSON(fiber.Map{"error": "No data found"})
	}
	return c.JSON(payload)
}
