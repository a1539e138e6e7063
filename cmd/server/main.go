package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cartapp "github.com/prakruthi/storefront/internal/application/cart"
	catalogapp "github.com/prakruthi/storefront/internal/application/catalog"
	"github.com/prakruthi/storefront/internal/application/media"
	"github.com/prakruthi/storefront/internal/application/report"
	storeapp "github.com/prakruthi/storefront/internal/application/store"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"github.com/prakruthi/storefront/internal/infrastructure/auth"
	"github.com/prakruthi/storefront/internal/infrastructure/cache"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/prakruthi/storefront/internal/infrastructure/event"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
	"github.com/prakruthi/storefront/internal/infrastructure/notify"
	"github.com/prakruthi/storefront/internal/infrastructure/persistence"
	"github.com/prakruthi/storefront/internal/infrastructure/storage"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
	"github.com/prakruthi/storefront/internal/interfaces/http/handler"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
	"github.com/prakruthi/storefront/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront API
//	@version		1.0
//	@description	Catalog, session cart, checkout and order administration for a small grocery storefront.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		// Tee every entry into the OTLP log bridge as well
		bridged, err := logger.New(logCfg, providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			log.Fatal("Failed to attach OTLP log core", zap.Error(err))
		}
		log = bridged
	}
	zap.ReplaceGlobals(log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, cfg.Database.DBName, log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	storeRepo := persistence.NewGormStoreProfileRepository(db.DB)
	userProfileRepo := persistence.NewGormUserProfileRepository(db.DB)

	cartStore := cache.NewCartStore(cfg.Cart, cfg.Redis, log)
	objectStorage := newObjectStorage(ctx, cfg, log)

	// Services
	productService := catalogapp.NewProductService(productRepo)
	orderService := tradeapp.NewOrderService(orderRepo)
	cartService := cartapp.NewCartService(cartStore, productRepo)
	checkoutService := tradeapp.NewCheckoutService(cartService, orderRepo, storeRepo)
	storeService := storeapp.NewStoreService(storeRepo)
	dashboardService := report.NewDashboardService(productRepo, orderRepo)
	imageService := media.NewImageService(objectStorage, productService, cfg.HTTP.MaxUploadSize)

	// Domain events
	bus := event.NewInMemoryEventBus(log)
	productService.SetEventPublisher(bus)
	orderService.SetEventPublisher(bus)
	checkoutService.SetEventPublisher(bus)

	notifier := notify.NewOrderNotifier(notify.NewSender(cfg.Notify, log), storeService.StoreName)
	bus.Subscribe(notifier)

	var meter metric.Meter
	var storeMetrics *telemetry.StoreMetrics
	if providers.Meter.IsEnabled() {
		meter = providers.Meter.Meter(cfg.Telemetry.ServiceName)
		storeMetrics, err = telemetry.NewStoreMetrics(meter, log)
		if err != nil {
			log.Warn("Failed to create store metrics", zap.Error(err))
		} else {
			bus.Subscribe(storeMetrics)
			storeMetrics.StartPeriodicCollection(ctx, dashboardService, cfg.Telemetry.MetricsInterval)
		}
	}

	// HTTP
	health := handler.NewHealthHandler(cfg.App.Name, version).
		AddCheck("database", func(context.Context) error { return db.Ping() }).
		AddCheck("cart_store", cartStore.Ping)

	engine := router.NewEngine(router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Logger: log,
		Meter:  meter,
	})
	router.Register(engine,
		router.Handlers{
			Product:   handler.NewProductHandler(productService, imageService),
			Cart:      handler.NewCartHandler(cartService),
			Checkout:  handler.NewCheckoutHandler(checkoutService),
			Order:     handler.NewOrderHandler(orderService),
			Store:     handler.NewStoreHandler(storeService),
			Dashboard: handler.NewDashboardHandler(dashboardService),
			Health:    health,
		},
		router.Guards{
			Tokens:        auth.NewJWTService(cfg.JWT),
			Profiles:      userProfileRepo,
			Cart:          cfg.Cart,
			MaxBodySize:   cfg.HTTP.MaxBodySize,
			MaxUploadSize: cfg.HTTP.MaxUploadSize,
			Logger:        log,
		},
	)

	if mem, ok := objectStorage.(*storage.MemoryObjectStorage); ok {
		engine.GET("/uploads/*key", serveMemoryObject(mem))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stop()
	if storeMetrics != nil {
		storeMetrics.Stop()
	}
	if err := cartStore.Close(); err != nil {
		log.Error("Error closing cart store", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when a bucket is configured and reachable,
// otherwise in-memory storage served under /uploads.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) media.ObjectStorage {
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err == nil {
			err = s3Storage.EnsureBucket(ctx)
		}
		if err == nil {
			log.Info("Using S3 object storage", zap.String("bucket", cfg.Storage.Bucket))
			return s3Storage
		}
		log.Warn("Object storage unavailable, falling back to memory", zap.Error(err))
	}
	log.Info("Using in-memory object storage")
	return storage.NewMemoryObjectStorage("/uploads")
}

// serveMemoryObject serves images held by in-memory storage
func serveMemoryObject(mem *storage.MemoryObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, ok := mem.Object(strings.TrimPrefix(c.Param("key"), "/"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	}
}
