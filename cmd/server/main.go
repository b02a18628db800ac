package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/community"
	"github.com/agrimarket/backend/internal/domain/farm"
	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/identity"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/media"
	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/report"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/agrimarket/backend/internal/domain/support"
	"github.com/agrimarket/backend/internal/infrastructure/cache"
	"github.com/agrimarket/backend/internal/infrastructure/config"
	"github.com/agrimarket/backend/internal/infrastructure/external/shipping"
	"github.com/agrimarket/backend/internal/infrastructure/external/weather"
	"github.com/agrimarket/backend/internal/infrastructure/logger"
	"github.com/agrimarket/backend/internal/infrastructure/persistence"
	"github.com/agrimarket/backend/internal/infrastructure/storage"
	"github.com/agrimarket/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// application bundles the wired data-access layer. An interface layer
// (HTTP/gRPC) mounts on top of this.
type application struct {
	Users          identity.UserRepository
	VendorProfiles identity.VendorProfileRepository
	Categories     catalog.CategoryRepository
	Products       catalog.ProductRepository
	Batches        inventory.BatchInventoryRepository
	Serials        inventory.ProductSerialRepository
	Exports        inventory.ExportInventoryRepository
	Orders         order.OrderRepository
	Carts          order.CartRepository
	Wallets        finance.WalletRepository
	Transactions   finance.TransactionRepository
	Cashouts       finance.CashoutRepository
	BankAccounts   finance.BankAccountRepository
	Support        support.RequestRepository
	MediaLinks     media.MediaLinkRepository
	ForumPosts     community.ForumPostRepository
	BlogPosts      community.BlogPostRepository
	Chatbot        community.ChatbotRepository
	Farms          farm.FarmRepository
	EnvReadings    farm.EnvironmentReadingRepository
	AdminReports   report.AdminReportRepository
	VendorReports  report.VendorReportRepository
	TxScope        persistence.TransactionScope

	Idempotency shared.IdempotencyStore
	Storage     media.ObjectStorage
	Shipping    *shipping.Client
	Weather     *weather.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AgriMarket backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	app, err := buildApplication(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("Failed to wire application", zap.Error(err))
	}
	defer func() {
		_ = app.Idempotency.Close()
	}()

	log.Info("Repositories initialized, service ready")

	// Keep the process alive and the connection healthy until an
	// interface layer is mounted on top.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case sig := <-quit:
			log.Info("Shutting down", zap.String("signal", sig.String()))
			return
		case <-ticker.C:
			if err := db.Ping(); err != nil {
				log.Error("Database health check failed", zap.Error(err))
			}
		}
	}
}

// buildApplication wires repositories, stores and external clients
func buildApplication(ctx context.Context, cfg *config.Config, db *persistence.Database, log *zap.Logger) (*application, error) {
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		idempotencyStore = store
		log.Info("Using Redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Using in-memory idempotency store")
	}

	var objectStorage media.ObjectStorage
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		objectStorage = s3Storage
	} else {
		objectStorage = storage.NewStubObjectStorage()
	}

	shippingClient, err := shipping.NewClient(&cfg.Shipping)
	if err != nil {
		return nil, err
	}
	weatherClient, err := weather.NewClient(&cfg.Weather)
	if err != nil {
		return nil, err
	}

	return &application{
		Users:          persistence.NewGormUserRepository(db.DB),
		VendorProfiles: persistence.NewGormVendorProfileRepository(db.DB),
		Categories:     persistence.NewGormCategoryRepository(db.DB),
		Products:       persistence.NewGormProductRepository(db.DB),
		Batches:        persistence.NewGormBatchInventoryRepository(db.DB),
		Serials:        persistence.NewGormProductSerialRepository(db.DB),
		Exports:        persistence.NewGormExportInventoryRepository(db.DB),
		Orders:         persistence.NewGormOrderRepository(db.DB),
		Carts:          persistence.NewGormCartRepository(db.DB),
		Wallets:        persistence.NewGormWalletRepository(db.DB),
		Transactions:   persistence.NewGormTransactionRepository(db.DB),
		Cashouts:       persistence.NewGormCashoutRepository(db.DB),
		BankAccounts:   persistence.NewGormBankAccountRepository(db.DB),
		Support:        persistence.NewGormSupportRequestRepository(db.DB),
		MediaLinks:     persistence.NewGormMediaLinkRepository(db.DB),
		ForumPosts:     persistence.NewGormForumPostRepository(db.DB),
		BlogPosts:      persistence.NewGormBlogPostRepository(db.DB),
		Chatbot:        persistence.NewGormChatbotRepository(db.DB),
		Farms:          persistence.NewGormFarmRepository(db.DB),
		EnvReadings:    persistence.NewGormEnvironmentReadingRepository(db.DB),
		AdminReports:   persistence.NewGormAdminReportRepository(db.DB),
		VendorReports:  persistence.NewGormVendorReportRepository(db.DB),
		TxScope:        persistence.NewGormTransactionScope(db.DB),
		Idempotency:    idempotencyStore,
		Storage:        objectStorage,
		Shipping:       shippingClient,
		Weather:        weatherClient,
	}, nil
}
