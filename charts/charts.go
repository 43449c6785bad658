// Package charts renders the dashboard charts as base64 PNG data URIs.
package charts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"app/models"
)

// Muted gray palette shared by all charts.
var (
	darkGray      = drawing.ColorFromHex("4A5568")
	mediumGray    = drawing.ColorFromHex("718096")
	veryLightGray = drawing.ColorFromHex("CBD5E0")
)

// pieColors: accent blue first, then grays darkening per slice.
var pieColors = []drawing.Color{
	drawing.ColorFromHex("007AFF"),
	drawing.ColorFromHex("E5E5EA"),
	drawing.ColorFromHex("C7C7CC"),
	drawing.ColorFromHex("AEAEB2"),
	drawing.ColorFromHex("8E8E93"),
	drawing.ColorFromHex("636366"),
	drawing.ColorFromHex("48484A"),
	drawing.ColorFromHex("3A3A3C"),
}

// Feed supplies the data series behind each chart.
type Feed interface {
	Top5SlowProducts(ctx context.Context) ([]models.ProductRate, error)
	PriceVsDays(ctx context.Context) ([]models.PricePoint, error)
	WarehouseDistribution(ctx context.Context) ([]models.WarehouseStock, error)
}

// Generator renders chart payloads from a data feed.
type Generator struct {
	feed Feed
}

// New creates a chart generator.
func New(feed Feed) *Generator {
	return &Generator{feed: feed}
}

// BarTop5 renders the five lowest sell-through products as a bar chart.
// Returns (nil, nil) when there is no data to plot.
func (g *Generator) BarTop5(ctx context.Context) (*models.ChartPayload, error) {
	data, err := g.feed.Top5SlowProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(data))
	for _, row := range data {
		bars = append(bars, chart.Value{
			Label: row.ProductName,
			Value: row.SellThroughRate * 100,
			Style: chart.Style{FillColor: darkGray, StrokeColor: darkGray},
		})
	}

	graph := chart.BarChart{
		Title:    "Top 5 Products with Lowest Sell-Through Rates",
		Width:    1200,
		Height:   600,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: chart.YAxis{
			Name: "Sell-Through Rate (%)",
			Style: chart.Style{
				StrokeColor: veryLightGray,
				FontColor:   mediumGray,
			},
		},
		Bars: bars,
	}

	image, err := renderDataURI(&graph)
	if err != nil {
		return nil, err
	}

	return &models.ChartPayload{
		Success:         true,
		ChartType:       "bar",
		Title:           "Top 5 Products with Lowest Sell-Through Rates",
		Image:           image,
		DataPoints:      len(data),
		BusinessInsight: "Identifies the most underperforming products requiring immediate promotional action",
	}, nil
}

// ScatterPriceDays renders price against days in stock.
func (g *Generator) ScatterPriceDays(ctx context.Context) (*models.ChartPayload, error) {
	data, err := g.feed.PriceVsDays(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	xs := make([]float64, 0, len(data))
	ys := make([]float64, 0, len(data))
	for _, p := range data {
		xs = append(xs, p.Price)
		ys = append(ys, float64(p.DaysInStock))
	}

	graph := chart.Chart{
		Title:  "Price vs Days in Stock - Correlation Analysis",
		Width:  1000,
		Height: 700,
		XAxis: chart.XAxis{
			Name:  "Product Price ($)",
			Style: chart.Style{StrokeColor: veryLightGray, FontColor: mediumGray},
		},
		YAxis: chart.YAxis{
			Name:  "Days in Stock",
			Style: chart.Style{StrokeColor: veryLightGray, FontColor: mediumGray},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Product Data",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    mediumGray,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	image, err := renderDataURI(&graph)
	if err != nil {
		return nil, err
	}

	return &models.ChartPayload{
		Success:         true,
		ChartType:       "scatter",
		Title:           "Price vs Days in Stock Analysis",
		Image:           image,
		DataPoints:      len(data),
		BusinessInsight: "Reveals if higher-priced products tend to stay in inventory longer",
	}, nil
}

// PieWarehouse renders total stock per warehouse as a pie chart.
func (g *Generator) PieWarehouse(ctx context.Context) (*models.ChartPayload, error) {
	data, err := g.feed.WarehouseDistribution(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(data))
	for i, w := range data {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", w.Location, w.WarehouseID),
			Value: float64(w.TotalStock),
			Style: chart.Style{FillColor: pieColors[i%len(pieColors)]},
		})
	}

	graph := chart.PieChart{
		Title:  "Inventory Distribution Across Warehouses",
		Width:  800,
		Height: 800,
		Values: values,
	}

	image, err := renderDataURI(&graph)
	if err != nil {
		return nil, err
	}

	return &models.ChartPayload{
		Success:         true,
		ChartType:       "pie",
		Title:           "Warehouse Inventory Distribution",
		Image:           image,
		DataPoints:      len(data),
		BusinessInsight: "Identifies warehouses with highest inventory pressure for rebalancing",
	}, nil
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// renderDataURI renders a chart to PNG and wraps it as a data URI.
func renderDataURI(graph renderable) (string, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
