package repo

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seeded(t *testing.T) *InMemoryProductRepository {
	t.Helper()
	r := NewInMemoryProductRepository()
	ctx := context.Background()
	for _, p := range []models.Product{
		{Title: "Galaxy S24 Ultra", Category: "Phones", OriginalPrice: 1299.99, DiscountPercentage: 18, InStock: true},
		{Title: "Pixel 8", Category: "Phones", OriginalPrice: 699.00, DiscountPercentage: 0, InStock: false},
		{Title: "Noise Cancelling Headphones", Category: "Audio", OriginalPrice: 349.99, DiscountPercentage: 15, InStock: true},
		{Title: "USB-C Cable", Category: "Accessories", OriginalPrice: 12.00, DiscountPercentage: 50, InStock: true},
	} {
		_, err := r.Create(ctx, p)
		require.NoError(t, err)
	}
	return r
}

func TestInMemoryProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	created, err := r.Create(ctx, models.Product{Title: "Laptop", OriginalPrice: 1500})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	_, err = r.Create(ctx, models.Product{Title: "laptop", OriginalPrice: 10})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	created.DiscountPercentage = 10
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.DiscountPercentage)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrProductNotFound)

	_, err = r.Update(ctx, models.Product{ID: 99})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryProductRepository_UpdateKeepsTitlesUnique(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	phone, err := r.Create(ctx, models.Product{Title: "Phone", OriginalPrice: 100})
	require.NoError(t, err)
	_, err = r.Create(ctx, models.Product{Title: "Tablet", OriginalPrice: 200})
	require.NoError(t, err)

	phone.Title = "TABLET"
	_, err = r.Update(ctx, phone)
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	got, err := r.GetByID(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", got.Title)

	phone.Title = "PHONE"
	_, err = r.Update(ctx, phone)
	assert.NoError(t, err, "a product may change the case of its own title")
}

func TestInMemoryProductRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	created, err := r.Create(ctx, models.Product{Title: "Phone", OriginalPrice: 100, CreatedAt: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)

	created.CreatedAt = "2030-01-01T00:00:00Z"
	created.UpdatedAt = "2030-01-01T00:00:00Z"
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", updated.CreatedAt)
	assert.Equal(t, "2030-01-01T00:00:00Z", updated.UpdatedAt)
}

func TestInMemoryProductRepository_Filter(t *testing.T) {
	ctx := context.Background()
	r := seeded(t)

	tests := []struct {
		name      string
		filter    ProductFilter
		wantIDs   []int
		wantTotal int
	}{
		{name: "no filter", filter: ProductFilter{}, wantIDs: []int{1, 2, 3, 4}, wantTotal: 4},
		{name: "title is case insensitive", filter: ProductFilter{Title: "PIXEL"}, wantIDs: []int{2}, wantTotal: 1},
		{name: "category", filter: ProductFilter{Category: "phones"}, wantIDs: []int{1, 2}, wantTotal: 2},
		{name: "max price uses discounted price", filter: ProductFilter{MaxPrice: ptr(300.0)}, wantIDs: []int{3, 4}, wantTotal: 2},
		{name: "min price", filter: ProductFilter{MinPrice: ptr(1000.0)}, wantIDs: []int{1}, wantTotal: 1},
		{name: "in stock only", filter: ProductFilter{InStock: ptr(true)}, wantIDs: []int{1, 3, 4}, wantTotal: 3},
		{name: "pagination", filter: ProductFilter{Offset: ptr(1), Limit: ptr(2)}, wantIDs: []int{2, 3}, wantTotal: 4},
		{name: "offset beyond results", filter: ProductFilter{Offset: ptr(10)}, wantIDs: []int{}, wantTotal: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := r.Filter(ctx, tt.filter)
			require.NoError(t, err)

			ids := []int{}
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestInMemoryMetricsRepository(t *testing.T) {
	m, err := NewInMemoryMetricsRepository(seeded(t)).GetDashboardMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Metrics{
		TotalProducts:      4,
		DiscountedProducts: 3,
		OutOfStockCount:    1,
		AverageDiscount:    20.75,
	}, m)
}
