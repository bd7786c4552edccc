package repo

import "context"

type Metrics struct {
	TotalProducts      int     `json:"total_products"`
	DiscountedProducts int     `json:"discounted_products"`
	OutOfStockCount    int     `json:"out_of_stock_count"`
	AverageDiscount    float64 `json:"average_discount"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
