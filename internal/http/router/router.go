package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/storefront/docs"
	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

func NewRouter(logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(mw.RateLimitMiddleware)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Post("/register", handlers.RegisterHandler)
	r.Post("/login", handlers.LoginHandler)
	r.Post("/refresh", handlers.RefreshHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/search", handlers.FilterProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handlers.GetCartHandler)
			r.Delete("/", handlers.ClearCartHandler)
			r.Get("/summary", handlers.GetCartSummaryHandler)
			r.Post("/checkout", handlers.CheckoutHandler)
			r.Post("/items", handlers.AddToCartHandler)
			r.Get("/items/{id}", handlers.GetCartItemHandler)
			r.Delete("/items/{id}", handlers.RemoveFromCartHandler)
			r.Post("/items/{id}/increase", handlers.IncreaseQuantityHandler)
			r.Post("/items/{id}/decrease", handlers.DecreaseQuantityHandler)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", handlers.GetFavoritesHandler)
			r.Put("/{id}", handlers.MarkFavoriteHandler)
			r.Delete("/{id}", handlers.RemoveFavoriteHandler)
			r.Post("/{id}/toggle", handlers.ToggleFavoriteHandler)
		})

		r.Get("/me/flags", handlers.GetFlagsHandler)
		r.Put("/me/flags/{key}", handlers.SetFlagHandler)
		r.Delete("/me/flags/{key}", handlers.DeleteFlagHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(auth.RoleAdmin))
			r.Post("/admin/users", handlers.RegisterAsAdminHandler)
			r.Post("/products", handlers.CreateProductHandler)
			r.Post("/products/import", handlers.ImportProductsHandler)
			r.Put("/products/{id}", handlers.UpdateProductHandler)
			r.Delete("/products/{id}", handlers.DeleteProductHandler)
			r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
		})
	})

	return r
}
