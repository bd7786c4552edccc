package repo

import (
	"context"
	"database/sql"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m Metrics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE discount_percentage > 0),
			COUNT(*) FILTER (WHERE NOT in_stock),
			COALESCE(ROUND(AVG(discount_percentage), 2), 0)::float8
		FROM products
	`).Scan(&m.TotalProducts, &m.DiscountedProducts, &m.OutOfStockCount, &m.AverageDiscount)

	return m, err
}
