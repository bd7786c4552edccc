package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
)

const productColumns = `id, title, category, original_price, discount_percentage, rating, review_count, image, in_stock, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p                    models.Product
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.OriginalPrice, &p.DiscountPercentage,
		&p.Rating, &p.ReviewCount, &p.Image, &p.InStock, &createdAt, &updatedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (title, category, original_price, discount_percentage, rating, review_count, image, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, query, p.Title, p.Category, p.OriginalPrice, p.DiscountPercentage,
		p.Rating, p.ReviewCount, p.Image, p.InStock)
	created, err := scanProduct(row)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	return created, err
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products
		SET title = $1, category = $2, original_price = $3, discount_percentage = $4,
			rating = $5, review_count = $6, image = $7, in_stock = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, query, p.Title, p.Category, p.OriginalPrice, p.DiscountPercentage,
		p.Rating, p.ReviewCount, p.Image, p.InStock, p.ID)
	updated, err := scanProduct(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Product{}, ErrProductNotFound
	case isUniqueViolation(err):
		return models.Product{}, ErrDuplicatedValueUnique
	}
	return updated, err
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + " ORDER BY id"

	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, totalCount, rows.Err()
}

const discountedPriceExpr = "(original_price * (100 - discount_percentage) / 100)"

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Title != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Title+"%")
		argIdx++
	}
	if pf.Category != "" {
		query += fmt.Sprintf(" AND LOWER(category) = LOWER($%d)", argIdx)
		args = append(args, pf.Category)
		argIdx++
	}
	if pf.MinPrice != nil {
		query += fmt.Sprintf(" AND %s >= $%d", discountedPriceExpr, argIdx)
		args = append(args, *pf.MinPrice)
		argIdx++
	}
	if pf.MaxPrice != nil {
		query += fmt.Sprintf(" AND %s <= $%d", discountedPriceExpr, argIdx)
		args = append(args, *pf.MaxPrice)
		argIdx++
	}
	if pf.InStock != nil {
		query += fmt.Sprintf(" AND in_stock = $%d", argIdx)
		args = append(args, *pf.InStock)
		argIdx++
	}

	return query, args, argIdx
}
