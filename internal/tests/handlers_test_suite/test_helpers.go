package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/rogerio-castellano/storefront/internal/cache"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/flags"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/http/router"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/realtime"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token       string // admin
	userToken   string // plain shopper
	shopperID   int
	productRepo *repo.InMemoryProductRepository
)

func init() {
	rl.Configure(1e6, 1e6)
	setupTestRepos("secret")
	r := newRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	userToken, err = generateToken(r, "shopper", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func newRouter() http.Handler {
	return router.NewRouter(nil)
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	resetCatalog()

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(context.Background(), models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})
	shopper, _ := userRepo.CreateUser(context.Background(), models.User{
		Username:     "shopper",
		PasswordHash: string(hash),
		Role:         "user",
	})
	shopperID = shopper.ID

	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(productRepo))
	handler.SetFlagStore(flags.NewMemoryStore())
	clearAllCarts()
}

// resetCatalog swaps in a fresh cache so ids reused after Clear never hit stale entries.
func resetCatalog() {
	productCache := cache.NewMemoryProductCache(0)
	hub := realtime.NewHub(nil)
	realtime.RegisterInvalidation(hub, productCache, nil)
	handler.SetCatalogService(catalog.NewService(productRepo, productCache, hub, nil))
}

func clearAllProducts() {
	productRepo.Clear()
	resetCatalog()
}

func clearAllCarts() {
	handler.SetCartRegistry(cart.NewRegistry(nil))
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func do(r http.Handler, method, path string, payload any, bearer string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, "/products", p, token)
}

// mustCreateProduct returns the new product's id.
func mustCreateProduct(r http.Handler, p handler.ProductRequest) int {
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("product creation failed: %d %s", w.Code, w.Body.String()))
	}
	var resp handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Id
}

func addToCart(r http.Handler, productID int, bearer string) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, "/cart/items", handler.CartItemRequest{ProductID: productID}, bearer)
}

func decodeCart(w *httptest.ResponseRecorder) (handler.CartResponse, error) {
	var c handler.CartResponse
	err := json.NewDecoder(w.Body).Decode(&c)
	return c, err
}

func boolPtr(b bool) *bool {
	return &b
}
