package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"app/models"
	"app/utils"
)

// Analyzer runs the warehouse queries behind the promotion reports.
type Analyzer struct {
	db           *pgxpool.Pool
	analysisDays int
	thresholdPct int
}

// New creates an Analyzer. analysisDays is the minimum days-in-stock filter;
// thresholdPct is the low-sales percentage used to label the report.
func New(db *pgxpool.Pool, analysisDays, thresholdPct int) *Analyzer {
	return &Analyzer{db: db, analysisDays: analysisDays, thresholdPct: thresholdPct}
}

// SlowMovingProducts returns products with stock above 100 units, in stock
// for at least the configured number of days and a sell-through rate below
// 20%, worst offenders first. A non-nil error means the data source is
// unavailable; an empty slice means nothing matched.
func (a *Analyzer) SlowMovingProducts(ctx context.Context) ([]models.SlowMovingProduct, error) {
	query := `
        SELECT
            gs.supplier_id,
            gs.product_id,
            p.product_name,
            p.type,
            p.price,
            p.manufacturer,
            sr.storequantity AS stock_quantity,
            gs.quantity AS supply_quantity,
            gs.warehouse_id,
            gs.supply_time,
            (CURRENT_DATE - gs.supply_time::date) AS days_in_stock,
            ROUND((gs.quantity - sr.storequantity)::numeric / NULLIF(gs.quantity, 0), 2) AS sell_through_rate
        FROM good_supply gs
        LEFT JOIN store_records sr
            ON gs.warehouse_id = sr.warehouse_id
            AND gs.product_id = sr.product_id
        LEFT JOIN products p
            ON gs.product_id = p.product_id
        WHERE (CURRENT_DATE - gs.supply_time::date) >= $1
            AND (gs.quantity - sr.storequantity)::numeric / NULLIF(gs.quantity, 0) < 0.2
            AND sr.storequantity > 100
        ORDER BY sr.storequantity DESC, sell_through_rate ASC
        LIMIT 50
    `

	rows, err := a.db.Query(ctx, query, a.analysisDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query slow-moving products: %w", err)
	}
	defer rows.Close()

	products := []models.SlowMovingProduct{}
	for rows.Next() {
		var (
			p            models.SlowMovingProduct
			name         sql.NullString
			category     sql.NullString
			price        sql.NullFloat64
			manufacturer sql.NullString
			supplyTime   sql.NullTime
			rate         sql.NullFloat64
		)
		if err := rows.Scan(
			&p.SupplierID, &p.ProductID, &name, &category, &price, &manufacturer,
			&p.StockQuantity, &p.SupplyQuantity, &p.WarehouseID, &supplyTime,
			&p.DaysInStock, &rate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan slow-moving product: %w", err)
		}
		p.ProductName = utils.NullStringToString(name)
		p.Category = utils.NullStringToString(category)
		p.Price = utils.NullFloatToFloat(price)
		p.Manufacturer = utils.NullStringToString(manufacturer)
		p.SellThroughRate = utils.NullFloatToFloat(rate)
		if supplyTime.Valid {
			p.SupplyTime = supplyTime.Time.Format("2006-01-02 15:04:05")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read slow-moving products: %w", err)
	}

	return products, nil
}

// CategoryPerformance aggregates stock posture per product category, sorted
// by high-stock count descending.
func (a *Analyzer) CategoryPerformance(ctx context.Context) ([]models.CategoryStat, error) {
	query := `
        SELECT
            p.type AS category,
            COUNT(DISTINCT p.product_id) AS total_products,
            AVG(sr.storequantity) AS avg_stock,
            SUM(CASE WHEN sr.storequantity > 100 THEN 1 ELSE 0 END) AS high_stock_count
        FROM products p
        LEFT JOIN store_records sr ON p.product_id = sr.product_id
        GROUP BY p.type
        ORDER BY high_stock_count DESC
    `

	rows, err := a.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category performance: %w", err)
	}
	defer rows.Close()

	stats := []models.CategoryStat{}
	for rows.Next() {
		var (
			s        models.CategoryStat
			category sql.NullString
			avgStock sql.NullFloat64
			highCnt  sql.NullInt64
		)
		if err := rows.Scan(&category, &s.TotalProducts, &avgStock, &highCnt); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		s.Category = utils.NullStringToString(category)
		s.AvgStock = utils.NullFloatToFloat(avgStock)
		s.HighStockCount = int(highCnt.Int64)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category performance: %w", err)
	}

	return FinishCategoryStats(stats), nil
}

// FinishCategoryStats rounds averages and derives the high-stock percentage
// for each category. The percentage is 0.0 when a category has no products.
func FinishCategoryStats(stats []models.CategoryStat) []models.CategoryStat {
	for i := range stats {
		stats[i].AvgStock = utils.Round2(stats[i].AvgStock)
		if stats[i].TotalProducts > 0 {
			stats[i].HighStockPercentage = utils.Round2(
				float64(stats[i].HighStockCount) / float64(stats[i].TotalProducts) * 100,
			)
		} else {
			stats[i].HighStockPercentage = 0.0
		}
	}
	return stats
}

// Report runs both queries and shapes the result for the AI advisor. The
// returned report is nil when there are no slow-moving products, since the
// advisory step needs at least one subject.
func (a *Analyzer) Report(ctx context.Context) (*models.PromotionReport, error) {
	products, err := a.SlowMovingProducts(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := a.CategoryPerformance(ctx)
	if err != nil {
		return nil, err
	}

	return BuildReport(products, stats, a.analysisDays, a.thresholdPct), nil
}

// BuildReport shapes raw query results into a PromotionReport. Returns nil
// when products is empty: a report is never built without slow movers.
func BuildReport(products []models.SlowMovingProduct, stats []models.CategoryStat, analysisDays, thresholdPct int) *models.PromotionReport {
	if len(products) == 0 {
		return nil
	}

	return &models.PromotionReport{
		AnalysisDate:        time.Now().Format("2006-01-02"),
		AnalysisPeriod:      fmt.Sprintf("Products in stock for %d+ days", analysisDays),
		LowSalesThreshold:   fmt.Sprintf("Less than %d%% sold", thresholdPct),
		SlowMovingProducts:  products,
		CategoryPerformance: stats,
		TotalSlowProducts:   len(products),
	}
}

// ProductSalesHistory returns the recent sales of one product, newest first.
func (a *Analyzer) ProductSalesHistory(ctx context.Context, productID string, days int) ([]models.SaleRecord, error) {
	query := `
        SELECT
            i.order_id,
            i.orderquantity,
            o.order_time,
            i.status,
            i.warehouse_id
        FROM inform i
        JOIN orders o ON i.order_id = o.order_id
        WHERE i.product_id = $1
            AND o.order_time >= CURRENT_DATE - $2 * INTERVAL '1 day'
        ORDER BY o.order_time DESC
    `

	rows, err := a.db.Query(ctx, query, productID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales history: %w", err)
	}
	defer rows.Close()

	records := []models.SaleRecord{}
	for rows.Next() {
		var (
			r         models.SaleRecord
			orderTime sql.NullTime
			status    sql.NullString
		)
		if err := rows.Scan(&r.OrderID, &r.OrderQuantity, &orderTime, &status, &r.WarehouseID); err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		if orderTime.Valid {
			r.OrderTime = orderTime.Time.Format("2006-01-02 15:04:05")
		}
		r.Status = utils.NullStringToString(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales history: %w", err)
	}

	return records, nil
}
