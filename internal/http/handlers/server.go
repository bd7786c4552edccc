package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/flags"
	repo "github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

var (
	catalogSvc  *catalog.Service
	metricsRepo repo.MetricsRepository
	userRepo    repo.UserRepository
	carts       *cart.Registry
	flagStore   flags.Store

	refreshStore auth.RefreshStore = auth.NewMemoryRefreshStore()
	refreshTTL                     = 30 * 24 * time.Hour

	logger       = zap.NewNop()
	healthChecks = map[string]HealthCheck{}
)

func SetCatalogService(s *catalog.Service) {
	catalogSvc = s
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetCartRegistry(r *cart.Registry) {
	carts = r
}

func SetFlagStore(s flags.Store) {
	flagStore = s
}

func SetRefreshStore(s auth.RefreshStore, ttl time.Duration) {
	refreshStore = s
	if ttl > 0 {
		refreshTTL = ttl
	}
}

func SetLogger(l *zap.Logger) {
	logger = l
}

func SetHealthChecks(checks map[string]HealthCheck) {
	healthChecks = checks
}
