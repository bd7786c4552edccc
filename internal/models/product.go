package models

// Product represents a catalog entry in the storefront.
type Product struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Category           string  `json:"category"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	Rating             float64 `json:"rating"`
	ReviewCount        int     `json:"review_count"`
	Image              string  `json:"image"`
	InStock            bool    `json:"in_stock"`
	CreatedAt          string  `json:"created_at,omitempty"`
	UpdatedAt          string  `json:"updated_at,omitempty"`
}

// CartLine is a product held in a cart. Quantity is always at least 1.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}
