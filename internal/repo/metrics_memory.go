package repo

import (
	"context"
	"math"
)

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	totalDiscount := 0
	for _, p := range products {
		if p.DiscountPercentage > 0 {
			m.DiscountedProducts++
		}
		if !p.InStock {
			m.OutOfStockCount++
		}
		totalDiscount += p.DiscountPercentage
	}
	if len(products) > 0 {
		m.AverageDiscount = math.Round(float64(totalDiscount)/float64(len(products))*100) / 100
	}

	return m, nil
}

func NewInMemoryMetricsRepository(productRepo ProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{productRepo: productRepo}
}
