package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/pricing"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

func toCartLines(lines []models.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		out[i] = CartLineResponse{
			Product:   toProductResponse(l.Product),
			Quantity:  l.Quantity,
			LineTotal: pricing.LineTotal(l).Round(2).InexactFloat64(),
		}
	}
	return out
}

func cartResponse(store *cart.Store) CartResponse {
	lines := store.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return CartResponse{
		Lines:     toCartLines(lines),
		CartCount: count,
		Summary:   pricing.Summarize(lines).Rounded(),
	}
}

// mutateCart runs op against the caller's cart and answers with the resulting cart.
func mutateCart(w http.ResponseWriter, r *http.Request, op func(s *cart.Store, productID int)) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	op(store, id)
	writeJSON(w, http.StatusOK, cartResponse(store))
}

// GetCartHandler godoc
// @Summary Current cart with pricing summary
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse(store))
}

// AddToCartHandler godoc
// @Summary Add one unit of a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body CartItemRequest true "Product to add"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Out of stock"
// @Router /cart/items [post]
func AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CartItemRequest
	if err := readJSON(w, r, &req); err != nil || req.ProductID <= 0 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	product, err := catalogSvc.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		logger.Error("add to cart", zap.Int("product_id", req.ProductID), zap.Error(err))
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	if !product.InStock {
		http.Error(w, "product is out of stock", http.StatusConflict)
		return
	}

	store.AddToCart(product)
	writeJSON(w, http.StatusOK, cartResponse(store))
}

// RemoveFromCartHandler godoc
// @Summary Remove a product line from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id} [delete]
func RemoveFromCartHandler(w http.ResponseWriter, r *http.Request) {
	mutateCart(w, r, (*cart.Store).RemoveFromCart)
}

// IncreaseQuantityHandler godoc
// @Summary Increase a line's quantity by one
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id}/increase [post]
func IncreaseQuantityHandler(w http.ResponseWriter, r *http.Request) {
	mutateCart(w, r, (*cart.Store).IncreaseQuantity)
}

// DecreaseQuantityHandler godoc
// @Summary Decrease a line's quantity by one
// @Description A line at quantity 1 is left unchanged; use DELETE to remove it.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id}/decrease [post]
func DecreaseQuantityHandler(w http.ResponseWriter, r *http.Request) {
	mutateCart(w, r, (*cart.Store).DecreaseQuantity)
}

// ClearCartHandler godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	store.ClearCart()
	writeJSON(w, http.StatusOK, cartResponse(store))
}

// GetCartItemHandler godoc
// @Summary Cart and favorites state of one product
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} CartItemStatus
// @Router /cart/items/{id} [get]
func GetCartItemHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, CartItemStatus{
		ProductID:   id,
		InCart:      store.IsInCart(id),
		Quantity:    store.CartQuantity(id),
		InFavorites: store.IsInFavorites(id),
	})
}

// GetCartSummaryHandler godoc
// @Summary Pricing summary of the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pricing.Display
// @Router /cart/summary [get]
func GetCartSummaryHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Summarize(store.Lines()).Rounded())
}

// CheckoutHandler godoc
// @Summary Place an order for the current cart
// @Description Re-reads every product from the catalog. Any line that is no longer in stock rejects the whole order.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 201 {object} CheckoutResult
// @Failure 400 {string} string "Cart is empty"
// @Failure 409 {object} OutOfStockResult
// @Router /cart/checkout [post]
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	store, userID, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lines := store.Lines()
	if len(lines) == 0 {
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	}

	unavailable := []int{}
	for i, l := range lines {
		current, err := catalogSvc.Get(r.Context(), l.ID)
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			unavailable = append(unavailable, l.ID)
			continue
		case err != nil:
			logger.Error("checkout product lookup", zap.Int("product_id", l.ID), zap.Error(err))
			http.Error(w, "could not verify stock", http.StatusInternalServerError)
			return
		}
		if !current.InStock {
			unavailable = append(unavailable, l.ID)
			continue
		}
		lines[i].Product = current
	}
	if len(unavailable) > 0 {
		writeJSON(w, http.StatusConflict, OutOfStockResult{
			Message:    "some products are out of stock",
			ProductIDs: unavailable,
		})
		return
	}

	summary := pricing.Summarize(lines).Rounded()
	result := CheckoutResult{
		OrderNumber: uuid.NewString(),
		Lines:       toCartLines(lines),
		Summary:     summary,
	}
	store.RemoveOrdered(lines)

	logger.Info("order placed",
		zap.String("order_number", result.OrderNumber),
		zap.Int("user_id", userID),
		zap.Int("lines", len(lines)),
		zap.Float64("grand_total", summary.GrandTotal),
	)
	writeJSON(w, http.StatusCreated, result)
}
