package models

// ChartPayload is the JSON envelope for a rendered chart.
type ChartPayload struct {
	Success         bool   `json:"success"`
	ChartType       string `json:"chart_type"`
	Title           string `json:"title"`
	Image           string `json:"image"` // data-URI PNG
	DataPoints      int    `json:"data_points"`
	BusinessInsight string `json:"business_insight"`
}

// ProductRate feeds the sell-through bar chart.
type ProductRate struct {
	ProductName     string  `json:"product_name"`
	SellThroughRate float64 `json:"sell_through_rate"`
}

// PricePoint feeds the price vs days-in-stock scatter chart.
type PricePoint struct {
	Price       float64 `json:"price"`
	DaysInStock int     `json:"days_in_stock"`
}

// WarehouseStock feeds the warehouse distribution pie chart.
type WarehouseStock struct {
	WarehouseID string `json:"warehouse_id"`
	Location    string `json:"location"`
	TotalStock  int    `json:"total_stock"`
}
