package handlers

import (
	"github.com/rogerio-castellano/storefront/internal/pricing"
	"github.com/rogerio-castellano/storefront/internal/repo"
)

type ProductRequest struct {
	Title              string  `json:"title"`
	Category           string  `json:"category"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"review_count"`
	Image              string  `json:"image"`
	InStock            *bool   `json:"in_stock,omitempty"` // defaults to true
}

type ProductResponse struct {
	Id                 int     `json:"id"`
	Title              string  `json:"title"`
	Category           string  `json:"category"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	DiscountedPrice    float64 `json:"discounted_price"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"review_count"`
	Image              string  `json:"image"`
	InStock            bool    `json:"in_stock"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type CartItemRequest struct {
	ProductID int `json:"product_id"`
}

type CartLineResponse struct {
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal float64         `json:"line_total"`
}

type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	CartCount int                `json:"cart_count"`
	Summary   pricing.Display    `json:"summary"`
}

type CartItemStatus struct {
	ProductID   int  `json:"product_id"`
	InCart      bool `json:"in_cart"`
	Quantity    int  `json:"quantity"`
	InFavorites bool `json:"in_favorites"`
}

type FavoritesResult struct {
	Data  []ProductResponse `json:"data"`
	Count int               `json:"count"`
}

type FavoriteToggleResult struct {
	ProductID   int  `json:"product_id"`
	InFavorites bool `json:"in_favorites"`
	Count       int  `json:"count"`
}

type CheckoutResult struct {
	OrderNumber string             `json:"order_number"`
	Lines       []CartLineResponse `json:"lines"`
	Summary     pricing.Display    `json:"summary"`
}

type OutOfStockResult struct {
	Message    string `json:"message"`
	ProductIDs []int  `json:"product_ids"`
}

type FlagRequest struct {
	Value string `json:"value"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserCreatedResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type DashboardResult struct {
	repo.Metrics
	ActiveCarts  int `json:"active_carts"`
	ItemsInCarts int `json:"items_in_carts"`
}

type HealthResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
