package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

// favoriteProduct resolves the {id} path parameter to a catalog product,
// writing the error response itself when it cannot.
func favoriteProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return models.Product{}, false
	}
	p, err := catalogSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return models.Product{}, false
		}
		logger.Error("favorite product lookup", zap.Int("product_id", id), zap.Error(err))
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return models.Product{}, false
	}
	return p, true
}

// GetFavoritesHandler godoc
// @Summary List favorite products
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FavoritesResult
// @Router /favorites [get]
func GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	favs := store.Favorites()
	writeJSON(w, http.StatusOK, FavoritesResult{Data: toProductResponses(favs), Count: len(favs)})
}

// ToggleFavoriteHandler godoc
// @Summary Toggle a product in favorites
// @Description Adds the product when absent and removes it when present.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} FavoriteToggleResult
// @Failure 404 {string} string "Product not found"
// @Router /favorites/{id}/toggle [post]
func ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	p, ok := favoriteProduct(w, r)
	if !ok {
		return
	}
	in := store.AddToFavorites(p)
	writeJSON(w, http.StatusOK, FavoriteToggleResult{ProductID: p.ID, InFavorites: in, Count: store.FavoritesCount()})
}

// MarkFavoriteHandler godoc
// @Summary Ensure a product is in favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} FavoriteToggleResult
// @Failure 404 {string} string "Product not found"
// @Router /favorites/{id} [put]
func MarkFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	store, _, ok := cartFor(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	p, ok := favoriteProduct(w, r)
	if !ok {
		return
	}
	store.MarkFavorite(p)
	writeJSON(w, http.StatusOK, FavoriteToggleResult{ProductID: p.ID, InFavorites: true, Count: store.FavoritesCount()})
}

// RemoveFavoriteHandler godoc
// @Summary Remove a product from favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} FavoriteToggleResult
// @Router /favorites/{id} [delete]
func RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
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
	store.RemoveFromFavorites(id)
	writeJSON(w, http.StatusOK, FavoriteToggleResult{ProductID: id, InFavorites: false, Count: store.FavoritesCount()})
}
