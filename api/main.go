package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/cache"
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/config"
	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/flags"
	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/http/router"
	"github.com/rogerio-castellano/storefront/internal/logging"
	"github.com/rogerio-castellano/storefront/internal/realtime"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// @title Storefront API
// @version 1.0
// @description Catalog, cart, favorites and checkout for the mobile storefront.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
	logger.Info("storefront stopped")
}

type repositories struct {
	products repo.ProductRepository
	users    repo.UserRepository
	metrics  repo.MetricsRepository
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	auth.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	rl.Configure(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	checks := map[string]handlers.HealthCheck{}

	var repos repositories
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()
		if err := db.Migrate(ctx, database); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repos = repositories{
			products: repo.NewPostgresProductRepository(database),
			users:    repo.NewPostgresUserRepository(database),
			metrics:  repo.NewPostgresMetricsRepository(database),
		}
		checks["postgres"] = database.PingContext
		logger.Info("using postgres repositories")
	} else {
		products := repo.NewInMemoryProductRepository()
		repos = repositories{
			products: products,
			users:    repo.NewInMemoryUserRepository(),
			metrics:  repo.NewInMemoryMetricsRepository(products),
		}
		logger.Warn("no database configured, using in-memory repositories")
	}

	if cfg.Auth.AdminUsername != "" {
		created, err := auth.EnsureAdmin(ctx, repos.users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("admin user created", zap.String("username", cfg.Auth.AdminUsername))
		}
	}

	hub := realtime.NewHub(logger)
	memRefresh := auth.NewMemoryRefreshStore()
	var (
		productCache cache.ProductCache = cache.NewMemoryProductCache(cfg.Cache.ProductTTL)
		flagStore    flags.Store        = flags.NewMemoryStore()
		publisher    realtime.Publisher = hub
		source       realtime.Source
		refreshStore auth.RefreshStore  = memRefresh
	)

	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()

		productCache = cache.NewRedisProductCache(rdb, cfg.Cache.ProductTTL)
		flagStore = flags.NewRedisStore(rdb)
		refreshStore = auth.NewRedisRefreshStore(rdb)
		bus := realtime.NewRedisBus(rdb, cfg.Realtime.Channel, logger)
		publisher, source = bus, bus
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("using redis cache, flags and pub/sub", zap.String("channel", cfg.Realtime.Channel))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := realtime.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer kp.Close()
		ks, err := realtime.NewKafkaSource(cfg.Kafka.Brokers, cfg.Kafka.Group, cfg.Kafka.Topic, logger)
		if err != nil {
			return fmt.Errorf("kafka source: %w", err)
		}
		defer ks.Close()
		publisher, source = kp, ks
		logger.Info("using kafka for product events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	realtime.RegisterInvalidation(hub, productCache, logger)

	svc := catalog.NewService(repos.products, productCache, publisher, logger)
	if cfg.Catalog.Seed {
		n, err := svc.Seed(ctx, catalog.SeedProducts)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if n > 0 {
			logger.Info("catalog seeded", zap.Int("products", n))
		}
	}

	handlers.SetLogger(logger)
	handlers.SetCatalogService(svc)
	handlers.SetUserRepo(repos.users)
	handlers.SetMetricsRepo(repos.metrics)
	carts := cart.NewRegistry(logger)
	handlers.SetCartRegistry(carts)
	handlers.SetRefreshStore(refreshStore, cfg.Auth.RefreshTTL)
	handlers.SetFlagStore(flagStore)
	handlers.SetHealthChecks(checks)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router.NewRouter(logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		logger.Info("grpc health server listening", zap.String("addr", lis.Addr().String()))
		return gs.Serve(lis)
	})
	g.Go(func() error {
		watchHealth(gctx, hs, checks, logger)
		hs.Shutdown()
		gs.GracefulStop()
		return nil
	})

	if source != nil {
		g.Go(func() error {
			err := realtime.Run(gctx, source, hub)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		rl.StartVisitorCleanupLoop(gctx, time.Minute, 5*time.Minute)
		return nil
	})

	g.Go(func() error {
		carts.StartEvictionLoop(gctx, 5*time.Minute, 30*time.Minute)
		return nil
	})

	g.Go(func() error {
		memRefresh.StartCleanupLoop(gctx, 30*time.Minute)
		return nil
	})

	return g.Wait()
}

// watchHealth mirrors the dependency checks into the gRPC health service until ctx is done.
func watchHealth(ctx context.Context, hs *health.Server, checks map[string]handlers.HealthCheck, logger *zap.Logger) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		for name, check := range checks {
			cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := check(cctx)
			cancel()
			if err != nil {
				logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
		}
		hs.SetServingStatus("", status)
	}

	update()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}
