package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	models "github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/pricing"
	repo "github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:                 p.ID,
		Title:              p.Title,
		Category:           p.Category,
		OriginalPrice:      p.OriginalPrice,
		DiscountPercentage: p.DiscountPercentage,
		DiscountedPrice:    pricing.DiscountedUnitPrice(p).Round(2).InexactFloat64(),
		Rating:             p.Rating,
		ReviewCount:        p.ReviewCount,
		Image:              p.Image,
		InStock:            p.InStock,
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toProduct(req ProductRequest) models.Product {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	now := time.Now().Format(time.RFC3339)
	return models.Product{
		Title:              req.Title,
		Category:           req.Category,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		ReviewCount:        req.ReviewCount,
		Image:              req.Image,
		InStock:            inStock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} []ProductValidationError
// @Failure 409 {string} string "Duplicated title"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := catalogSvc.Create(r.Context(), toProduct(req))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create product: product title duplicated", http.StatusConflict)
			return
		}
		logger.Error("create product", zap.Error(err))
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := catalogSvc.List(r.Context())
	if err != nil {
		logger.Error("list products", zap.Error(err))
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := catalogSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Error("get product", zap.Int("product_id", id), zap.Error(err))
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
// @Security BearerAuth
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if err := catalogSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Error("delete product", zap.Int("product_id", id), zap.Error(err))
		http.Error(w, "could not delete product", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} []ProductValidationError
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
// @Security BearerAuth
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	product := toProduct(req)
	product.ID = id
	product.CreatedAt = ""
	updated, err := catalogSvc.Update(r.Context(), product)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrDuplicatedValueUnique):
			http.Error(w, "could not update product: product title duplicated", http.StatusConflict)
		default:
			logger.Error("update product", zap.Int("product_id", id), zap.Error(err))
			http.Error(w, "could not update product", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param title query string false "Case-insensitive title substring"
// @Param category query string false "Exact category"
// @Param minPrice query number false "Minimum discounted price"
// @Param maxPrice query number false "Maximum discounted price"
// @Param inStock query bool false "Only products with this stock state"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /products/search [get]
func FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{
		Title:    q.Get("title"),
		Category: q.Get("category"),
		MinPrice: parseFloatPtr(q.Get("minPrice")),
		MaxPrice: parseFloatPtr(q.Get("maxPrice")),
		InStock:  parseBoolPtr(q.Get("inStock")),
		Offset:   parseIntPtr(q.Get("offset")),
		Limit:    parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		http.Error(w, "minPrice must not exceed maxPrice", http.StatusBadRequest)
		return
	}

	products, total, err := catalogSvc.Search(r.Context(), filter)
	if err != nil {
		logger.Error("filter products", zap.Error(err))
		http.Error(w, "could not filter products", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: total},
	})
}
