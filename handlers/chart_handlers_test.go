package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"app/models"
)

type fakeCharts struct {
	payload *models.ChartPayload
	err     error
}

func (f *fakeCharts) BarTop5(ctx context.Context) (*models.ChartPayload, error) {
	return f.payload, f.err
}

func (f *fakeCharts) ScatterPriceDays(ctx context.Context) (*models.ChartPayload, error) {
	return f.payload, f.err
}

func (f *fakeCharts) PieWarehouse(ctx context.Context) (*models.ChartPayload, error) {
	return f.payload, f.err
}

func newChartApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Get("/api/charts/bar-top5", h.HandleChartBarTop5)
	app.Get("/api/charts/scatter-price-days", h.HandleChartScatterPriceDays)
	app.Get("/api/charts/pie-warehouse", h.HandleChartPieWarehouse)
	return app
}

func TestChartHandlerSuccess(t *testing.T) {
	payload := &models.ChartPayload{
		Success:         true,
		ChartType:       "bar",
		Title:           "Top 5 Products with Lowest Sell-Through Rates",
		Image:           "data:image/png;base64,abc",
		DataPoints:      5,
		BusinessInsight: "insight",
	}
	app := newChartApp(&Handler{Charts: &fakeCharts{payload: payload}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/charts/bar-top5", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.ChartPayload
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, got.Success)
	assert.Equal(t, "bar", got.ChartType)
	assert.Equal(t, 5, got.DataPoints)
}

func TestChartHandlerNoData(t *testing.T) {
	app := newChartApp(&Handler{Charts: &fakeCharts{}})

	for _, path := range []string{
		"/api/charts/bar-top5",
		"/api/charts/scatter-price-days",
		"/api/charts/pie-warehouse",
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		raw, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "No data found", body["error"])
	}
}

func TestChartHandlerFeedError(t *testing.T) {
	app := newChartApp(&Handler{Charts: &fakeCharts{err: fmt.Errorf("db unreachable")}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/charts/pie-warehouse", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
