package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/cache"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/flags"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/http/router"
	"github.com/rogerio-castellano/storefront/internal/realtime"
	"github.com/rogerio-castellano/storefront/internal/repo"
)

var (
	token    string
	userRepo *repo.PostgresUserRepository
	database *sql.DB
)

func newRouter() http.Handler {
	return router.NewRouter(nil)
}

func setupTestRepos(dbURL, password string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	database, err = db.Connect(ctx, dbURL)
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal("Could not migrate database:", err)
	}

	productRepo := repo.NewPostgresProductRepository(database)
	productCache := cache.NewMemoryProductCache(0)
	hub := realtime.NewHub(nil)
	realtime.RegisterInvalidation(hub, productCache, nil)
	handler.SetCatalogService(catalog.NewService(productRepo, productCache, hub, nil))

	userRepo = repo.NewPostgresUserRepository(database)
	handler.SetUserRepo(userRepo)
	createAdminIfNotExists(password)

	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handler.SetCartRegistry(cart.NewRegistry(nil))
	handler.SetFlagStore(flags.NewMemoryStore())
}

func createAdminIfNotExists(password string) {
	if _, err := auth.EnsureAdmin(context.Background(), userRepo, "admin", password); err != nil {
		fmt.Println("error creating admin", err)
	}
}

func runWithVisitorCleanup(t *testing.T, name string, testFunc func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		rl.CleanupAllVisitors()
		testFunc(t)
	})
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := do(r, http.MethodPost, "/login", handler.CredentialsRequest{Username: username, Password: password}, "")

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func userExists(username string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE username = $1`

	var count int
	err := database.QueryRow(query, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query failed: %w", err)
	}
	return count > 0, nil
}

// clearAllProducts also resets the cache, since identities restart at 1.
func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate products table: %w", err))
	}

	productCache := cache.NewMemoryProductCache(0)
	hub := realtime.NewHub(nil)
	realtime.RegisterInvalidation(hub, productCache, nil)
	handler.SetCatalogService(catalog.NewService(repo.NewPostgresProductRepository(database), productCache, hub, nil))
	handler.SetCartRegistry(cart.NewRegistry(nil))
}

func clearAllUsersExceptAdmin() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "DELETE FROM users WHERE username <> 'admin'")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to delete users: %w", err))
	}
}

func do(r http.Handler, method, path string, payload any, bearer string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
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

func boolPtr(b bool) *bool {
	return &b
}
