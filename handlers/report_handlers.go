package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"app/database"
	"app/history"
	"app/models"
	"app/reportcache"
)

// Reporter serves cached promotion reports.
type Reporter interface {
	Request() (*reportcache.CachedReport, reportcache.Outcome)
}

// HistoryReader reads and prunes the persisted report history.
type HistoryReader interface {
	Recommendations(ctx context.Context) ([]models.RecommendationRow, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ChartRenderer renders the dashboard charts.
type ChartRenderer interface {
	BarTop5(ctx context.Context) (*models.ChartPayload, error)
	ScatterPriceDays(ctx context.Context) (*models.ChartPayload, error)
	PieWarehouse(ctx context.Context) (*models.ChartPayload, error)
}

// SalesHistorySource serves per-product sales history.
type SalesHistorySource interface {
	ProductSalesHistory(ctx context.Context, productID string, days int) ([]models.SaleRecord, error)
}

// Handler bundles the request handlers with their collaborators.
type Handler struct {
	// Reports is nil when the AI advisor failed to initialize; the report
	// endpoint then answers 500 instead of starting runs that cannot finish.
	Reports Reporter
	History HistoryReader
	Charts  ChartRenderer
	Sales   SalesHistorySource
}

// HandleGetReport returns the cached report, or a 202 acknowledgment while
// a background analysis runs.
// GET /api/report
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	if h.Reports == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Advisor not initialized due to missing API key.",
		})
	}

	cached, outcome := h.Reports.Request()
	switch outcome {
	case reportcache.OutcomeReady:
		return c.JSON(cached)
	case reportcache.OutcomeStarted:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":  "analyzing",
			"message": "Analysis started, retry in a moment.",
		})
	default:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":  "analyzing",
			"message": "Analysis in progress, retry later.",
		})
	}
}

// HandleGetRecommendationLogs lists the flattened recommendation history.
// GET /api/mongodb/logs
func (h *Handler) HandleGetRecommendationLogs(c *fiber.Ctx) error {
	rows, err := h.History.Recommendations(c.Context())
	if err != nil {
		log.Printf("Error retrieving recommendation history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve report history",
		})
	}

	if rows == nil {
		rows = []models.RecommendationRow{}
	}
	return c.JSON(rows)
}

// HandleDeleteReport removes one history document by id.
// DELETE /api/mongodb/delete/:id
func (h *Handler) HandleDeleteReport(c *fiber.Ctx) error {
	id := c.Params("id")

	removed, err := h.History.Delete(c.Context(), id)
	if errors.Is(err, history.ErrInvalidID) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Report id is not well-formed: " + id,
			"success": false,
		})
	}
	if err != nil {
		log.Printf("Error deleting report %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete report",
			"success": false,
		})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Report " + id + " not found",
			"success": false,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Report " + id + " deleted successfully",
		"success": true,
	})
}

// HandleGetProductSalesHistory returns recent sales for one product.
// GET /api/products/:productId/sales-history?days=30
func (h *Handler) HandleGetProductSalesHistory(c *fiber.Ctx) error {
	productID := c.Params("productId")

	days := 30
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "days must be a positive integer",
			})
		}
		days = n
	}

	records, err := h.Sales.ProductSalesHistory(c.Context(), productID, days)
	if err != nil {
		log.Printf("Error retrieving sales history for %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve sales history",
		})
	}

	return c.JSON(records)
}

// HandleHealth reports whether the warehouse database is reachable.
// GET /health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := database.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
