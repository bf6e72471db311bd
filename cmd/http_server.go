package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/equipment-tracking/internal"
	"github.com/frahmantamala/equipment-tracking/internal/audit"
	"github.com/frahmantamala/equipment-tracking/internal/auth"
	"github.com/frahmantamala/equipment-tracking/internal/blobstore"
	"github.com/frahmantamala/equipment-tracking/internal/core/events"
	"github.com/frahmantamala/equipment-tracking/internal/customtype"
	"github.com/frahmantamala/equipment-tracking/internal/datastore"
	"github.com/frahmantamala/equipment-tracking/internal/datastore/mongostore"
	"github.com/frahmantamala/equipment-tracking/internal/datastore/sqlstore"
	"github.com/frahmantamala/equipment-tracking/internal/document"
	"github.com/frahmantamala/equipment-tracking/internal/equipment"
	"github.com/frahmantamala/equipment-tracking/internal/location"
	"github.com/frahmantamala/equipment-tracking/internal/maintenance"
	"github.com/frahmantamala/equipment-tracking/internal/transport/rest"
	"github.com/frahmantamala/equipment-tracking/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	Store  datastore.Store
	Blobs  blobstore.Store
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "backend", deps.Config.Database.Backend)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.Store.Close(ctx); err != nil {
			deps.Logger.Error("store close error", "error", err)
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := initStore(ctx, config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	blobs, err := initBlobStore(ctx, config, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	var rdb *redis.Client
	if config.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	bus := events.NewEventBus(lg)
	provider := auth.NewJWTProvider(store, bus, config.Security.AccessTokenSecret, config.Security.AccessTokenDuration, lg)
	authSvc := auth.NewService(store, provider, bus, lg)
	if err := authSvc.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	auditSvc := audit.NewService(store, lg)
	equipmentSvc := equipment.NewService(store, store, auditSvc, blobs, lg)
	locationSvc := location.NewService(store, equipmentSvc, blobs, lg)
	documentSvc := document.NewService(store, store, auditSvc, blobs, lg)
	maintenanceSvc := maintenance.NewService(store, store, auditSvc, lg)
	typeSvc := customtype.NewService(store, lg)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authSvc, provider),
		Location:    location.NewHandler(locationSvc),
		Equipment:   equipment.NewHandler(equipmentSvc),
		Document:    document.NewHandler(documentSvc),
		Maintenance: maintenance.NewHandler(maintenanceSvc),
		CustomType:  customtype.NewHandler(typeSvc),
		Audit:       audit.NewHandler(auditSvc),
	}

	opts := rest.Options{
		AllowedOrigins: config.Server.AllowedOrigins,
		RateLimitRPS:   100,
		RedisClient:    rdb,
	}
	if config.Storage.Backend == internal.StorageBackendLocal {
		opts.BlobDir = config.Storage.Dir
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, store, config.Database.Backend, handlers, opts, lg)

	return &Dependencies{
		Config: config,
		Store:  store,
		Blobs:  blobs,
		Redis:  rdb,
		Router: router,
		Logger: lg,
	}, nil
}

// initStore opens the configured backend. Relational backends share the
// gorm-based store; mongo gets its own.
func initStore(ctx context.Context, cfg internal.DatabaseConfig, lg *slog.Logger) (datastore.Store, error) {
	switch cfg.Backend {
	case internal.DatabaseBackendPostgres, internal.DatabaseBackendSQLite:
		var dialector gorm.Dialector
		if cfg.Backend == internal.DatabaseBackendPostgres {
			dialector = postgres.Open(cfg.Source)
		} else {
			dialector = sqlite.Open(cfg.Source)
		}

		// TranslateError turns driver duplicate-key errors into
		// gorm.ErrDuplicatedKey, which the store maps to conflicts.
		db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return sqlstore.NewStore(db, lg), nil

	case internal.DatabaseBackendMongo:
		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		store := mongostore.NewStore(client, cfg.MongoDatabase, lg)
		if err := store.Ping(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
	}
}

func initBlobStore(ctx context.Context, cfg *internal.Config, lg *slog.Logger) (blobstore.Store, error) {
	switch cfg.Storage.Backend {
	case internal.StorageBackendS3:
		return blobstore.NewS3Store(ctx, cfg.Storage, lg)
	case internal.StorageBackendLocal:
		baseURL := cfg.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = cfg.Server.BaseURL + "/blobs"
		}
		return blobstore.NewLocalStore(cfg.Storage.Dir, baseURL, lg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
