package analyzer

import (
	"context"
	"database/sql"
	"fmt"

	"app/models"
	"app/utils"
)

// Top5SlowProducts returns the five products with the lowest sell-through
// rate among the slow movers, for the bar chart.
func (a *Analyzer) Top5SlowProducts(ctx context.Context) ([]models.ProductRate, error) {
	query := `
        SELECT
            p.product_name,
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
        ORDER BY sell_through_rate ASC
        LIMIT 5
    `

	rows, err := a.db.Query(ctx, query, a.analysisDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query top slow products: %w", err)
	}
	defer rows.Close()

	result := []models.ProductRate{}
	for rows.Next() {
		var (
			r    models.ProductRate
			name sql.NullString
			rate sql.NullFloat64
		)
		if err := rows.Scan(&name, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan product rate: %w", err)
		}
		r.ProductName = utils.NullStringToString(name)
		r.SellThroughRate = utils.NullFloatToFloat(rate)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top slow products: %w", err)
	}

	return result, nil
}

// PriceVsDays returns price and age pairs for every current supply batch,
// for the correlation scatter chart.
func (a *Analyzer) PriceVsDays(ctx context.Context) ([]models.PricePoint, error) {
	query := `
        SELECT
            p.price,
            (CURRENT_DATE - gs.supply_time::date) AS days_in_stock
        FROM good_supply gs
        JOIN products p ON gs.product_id = p.product_id
        WHERE p.price IS NOT NULL AND gs.supply_time IS NOT NULL
        ORDER BY p.price
    `

	rows, err := a.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price vs days: %w", err)
	}
	defer rows.Close()

	points := []models.PricePoint{}
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Price, &p.DaysInStock); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price vs days: %w", err)
	}

	return points, nil
}

// WarehouseDistribution returns total stock per warehouse, largest first,
// for the distribution pie chart.
func (a *Analyzer) WarehouseDistribution(ctx context.Context) ([]models.WarehouseStock, error) {
	query := `
        SELECT
            w.warehouse_id,
            w.location,
            COALESCE(SUM(sr.storequantity), 0) AS total_stock
        FROM warehouses w
        LEFT JOIN store_records sr ON w.warehouse_id = sr.warehouse_id
        GROUP BY w.warehouse_id, w.location
        HAVING COALESCE(SUM(sr.storequantity), 0) > 0
        ORDER BY total_stock DESC
    `

	rows, err := a.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouse distribution: %w", err)
	}
	defer rows.Close()

	result := []models.WarehouseStock{}
	for rows.Next() {
		var (
			w        models.WarehouseStock
			location sql.NullString
		)
		if err := rows.Scan(&w.WarehouseID, &location, &w.TotalStock); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse stock: %w", err)
		}
		w.Location = utils.NullStringToString(location)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read warehouse distribution: %w", err)
	}

	return result, nil
}
