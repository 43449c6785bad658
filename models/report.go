package models

import "time"

// SlowMovingProduct is one row of the slow-mover query. Immutable once read.
type SlowMovingProduct struct {
	SupplierID      string  `json:"supplier_id" bson:"supplier_id"`
	ProductID       string  `json:"product_id" bson:"product_id"`
	ProductName     string  `json:"product_name" bson:"product_name"`
	Category        string  `json:"type" bson:"type"`
	Price           float64 `json:"price" bson:"price"`
	Manufacturer    string  `json:"manufacturer" bson:"manufacturer"`
	StockQuantity   int     `json:"stock_quantity" bson:"stock_quantity"`
	SupplyQuantity  int     `json:"supply_quantity" bson:"supply_quantity"`
	WarehouseID     string  `json:"warehouse_id" bson:"warehouse_id"`
	SupplyTime      string  `json:"supply_time" bson:"supply_time"`
	DaysInStock     int     `json:"days_in_stock" bson:"days_in_stock"`
	SellThroughRate float64 `json:"sell_through_rate" bson:"sell_through_rate"`
}

// CategoryStat aggregates stock posture for one product category.
type CategoryStat struct {
	Category            string  `json:"category" bson:"category"`
	TotalProducts       int     `json:"total_products" bson:"total_products"`
	AvgStock            float64 `json:"avg_stock" bson:"avg_stock"`
	HighStockCount      int     `json:"high_stock_count" bson:"high_stock_count"`
	HighStockPercentage float64 `json:"high_stock_percentage" bson:"high_stock_percentage"`
}

// PromotionReport is the full analysis input handed to the AI advisor.
// Built once per run and never mutated afterwards.
type PromotionReport struct {
	AnalysisDate        string              `json:"analysis_date" bson:"analysis_date"`
	AnalysisPeriod      string              `json:"analysis_period" bson:"analysis_period"`
	LowSalesThreshold   string              `json:"low_sales_threshold" bson:"low_sales_threshold"`
	SlowMovingProducts  []SlowMovingProduct `json:"slow_moving_products" bson:"slow_moving_products"`
	CategoryPerformance []CategoryStat      `json:"category_performance" bson:"category_performance"`
	TotalSlowProducts   int                 `json:"total_slow_products" bson:"total_slow_products"`
}

// Recommendation is one row of the advisor's Markdown table. Tags mirror
// the table columns so persisted documents keep the same keys.
type Recommendation struct {
	ProductName         string `json:"Product Name" bson:"Product Name"`
	SupplyName          string `json:"Supply Name" bson:"Supply Name"`
	Analysis            string `json:"Analysis" bson:"Analysis"`
	PromotionalStrategy string `json:"Promotional Strategy" bson:"Promotional Strategy"`
}

// ReportDocument is the history document persisted after a successful run.
type ReportDocument struct {
	CreationTimestamp     time.Time        `bson:"creation_timestamp"`
	Recommendations       []Recommendation `bson:"recommendations"`
	RawSourceDataSnapshot PromotionReport  `bson:"raw_source_data_snapshot"`
}

// RecommendationRow is one flattened recommendation returned by the history
// listing, carrying its parent document's id and timestamp.
type RecommendationRow struct {
	ID                  string    `json:"_id" bson:"_id"`
	Timestamp           time.Time `json:"timestamp" bson:"timestamp"`
	Index               int64     `json:"index" bson:"index"`
	ProductName         string    `json:"product_name" bson:"product_name"`
	SupplyName          string    `json:"supply_name" bson:"supply_name"`
	Analysis            string    `json:"analysis" bson:"analysis"`
	PromotionalStrategy string    `json:"promotional_strategy" bson:"promotional_strategy"`
}

// SaleRecord is one historical sale of a product.
type SaleRecord struct {
	OrderID       string `json:"order_id"`
	OrderQuantity int    `json:"orderquantity"`
	OrderTime     string `json:"order_time"`
	Status        string `json:"status"`
	WarehouseID   string `json:"warehouse_id"`
}
