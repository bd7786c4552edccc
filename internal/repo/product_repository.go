package repo

import (
	"context"

	"github.com/rogerio-castellano/storefront/internal/models"
)

// ProductRepository defines the interface for catalog data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
}
