package main

// @title Journey Planner API
// @version 1.0.0
// @description Оркестратор поиска маршрутов поверх planner backend'ов регионов.
// @description
// @description Основные возможности:
// @description - Поиск поездок с фоллбэками (пешком, велосипед, bss, автомобиль, ridesharing, такси)
// @description - Обогащение поездок live-данными провайдеров
// @description - Ближайшие отправления с остановки
// @description - Список провайдеров и их последний статус

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/journey-planner/docs"
	"github.com/journey-planner/internal/config"
	httpDelivery "github.com/journey-planner/internal/delivery/http"
	"github.com/journey-planner/internal/delivery/http/handler"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/infrastructure/backend"
	"github.com/journey-planner/internal/infrastructure/providers"
	"github.com/journey-planner/internal/pkg/logger"
	"github.com/journey-planner/internal/registry"
	"github.com/journey-planner/internal/repository/cache"
	"github.com/journey-planner/internal/repository/postgres"
	redisRepo "github.com/journey-planner/internal/repository/redis"
	"github.com/journey-planner/internal/transport"
	"github.com/journey-planner/internal/usecase"
	"github.com/journey-planner/internal/worker"
	providersWorker "github.com/journey-planner/internal/worker/providers"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Journey Planner")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("backend_instances", len(cfg.Backend.Instances)),
	)

	// 3. Backend channel
	channel, err := transport.NewChannel(transport.Config{
		Instances:    cfg.Backend.Instances,
		Timeout:      cfg.Backend.Timeout,
		PoolSize:     cfg.Backend.PoolSize,
		ConnTTL:      cfg.Backend.ConnTTL,
		DialTimeout:  cfg.Backend.DialTimeout,
		FailMax:      cfg.Breaker.FailMax,
		ResetTimeout: cfg.Breaker.ResetTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize backend channel", zap.Error(err))
	}
	defer channel.Close()

	deps := map[string]handler.Pinger{}

	// 4. Connect to Redis (optional)
	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		deps["redis"] = redisClient
		log.Info("Redis connected")
	} else {
		log.Info("Redis disabled, direct path cache and status stream are off")
	}

	// 5. Connect to PostgreSQL (optional)
	var providerStore repository.ProviderStore
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		providerStore = postgres.NewProviderRepository(db)
		deps["postgres"] = db
		log.Info("PostgreSQL connected")
	} else {
		log.Info("PostgreSQL disabled, only legacy providers are used")
	}

	// 6. Regions
	timeouts := backend.Timeouts{
		Places:        cfg.Backend.PlacesTimeout,
		StreetNetwork: cfg.Backend.StreetNetworkTimeout,
		Planner:       cfg.Backend.PlannerTimeout,
	}
	var regionList []*usecase.Region
	for _, name := range channel.Instances() {
		client := backend.NewClient(channel, name, timeouts, log)
		regionList = append(regionList, &usecase.Region{
			Name:        name,
			Places:      client,
			Streets:     client,
			Planner:     client,
			DirectPaths: usecase.NewDirectPathResolver(client, cacheRepo, cfg.Cache.DirectPathTTL, log),
		})
	}
	regions := usecase.NewRegionManager(regionList...)
	log.Info("Regions initialized", zap.Strings("regions", regions.Names()))

	// 7. Provider registries
	legacy, err := config.LoadLegacyProviders(cfg.Providers.LegacyFile)
	if err != nil {
		log.Fatal("Failed to load legacy providers", zap.Error(err))
	}

	statusBoard := providers.NewStatusBoard(streamRepo, log)
	providerDeps := providers.Deps{
		Recorder:     statusBoard,
		FailMax:      cfg.Providers.FailMax,
		ResetTimeout: cfg.Providers.ResetTimeout,
		Timeout:      cfg.Providers.HTTPTimeout,
		Logger:       log,
	}

	bssRegistry := newRegistry(cfg, legacy, providerStore, providers.BssFactory(providerDeps), log)
	carParkRegistry := newRegistry(cfg, legacy, providerStore, providers.CarParkFactory(providerDeps), log)
	ridesharingRegistry := newRegistry(cfg, legacy, providerStore, providers.RidesharingFactory(providerDeps), log)
	equipmentRegistry := newRegistry(cfg, legacy, providerStore, providers.EquipmentFactory(providerDeps), log)
	realtimeRegistry := newRegistry(cfg, legacy, providerStore, providers.RealtimeFactory(providerDeps), log)

	log.Info("Provider registries initialized")

	// 8. Initialize Use Cases
	enricher := usecase.NewEnricher(usecase.EnricherSources{
		Bss:         bssRegistry,
		CarParks:    carParkRegistry,
		Ridesharing: ridesharingRegistry,
		Equipment:   equipmentRegistry,
		Realtime:    realtimeRegistry,
	}, log)

	journeyUC := usecase.NewJourneyUseCase(regions, enricher, journeyDefaults(cfg.Journey), log)
	departuresUC := usecase.NewDeparturesUseCase(regions, realtimeRegistry, log)
	providersUC := usecase.NewProvidersUseCase(statusBoard,
		usecase.CatalogOf[repository.BssProvider](bssRegistry),
		usecase.CatalogOf[repository.CarParkProvider](carParkRegistry),
		usecase.CatalogOf[repository.RidesharingProvider](ridesharingRegistry),
		usecase.CatalogOf[repository.EquipmentProvider](equipmentRegistry),
		usecase.CatalogOf[repository.RealtimeProvider](realtimeRegistry),
	)

	log.Info("Use cases initialized")

	// 9. Background refresh of dynamic providers
	workerManager := worker.NewWorkerManager(log)
	if providerStore != nil {
		workerManager.Register(providersWorker.NewRefreshWorker([]providersWorker.Refresher{
			bssRegistry, carParkRegistry, ridesharingRegistry, equipmentRegistry, realtimeRegistry,
		}, cfg.Worker.RefreshInterval, log))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewHealthHandler(channel, deps),
		handler.NewJourneyHandler(journeyUC, departuresUC, log),
		handler.NewProviderHandler(providersUC, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancel()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

// newRegistry собирает реестр вида провайдеров: статические из файла + динамические из Postgres
func newRegistry[T registry.Provider](
	cfg *config.Config,
	legacy config.LegacyProviders,
	store repository.ProviderStore,
	factory registry.Factory[T],
	log *zap.Logger,
) *registry.Registry[T] {
	kind := factory.Kind()
	static := registry.BuildLegacy(factory, legacy[kind], log)
	log.Info("Legacy providers loaded",
		zap.String("kind", string(kind)),
		zap.Int("count", len(static)))

	return registry.New(registry.Config{
		Kind:           kind,
		UpdateInterval: cfg.Providers.UpdateInterval,
	}, static, store, factory, log)
}

func journeyDefaults(cfg config.JourneyConfig) usecase.JourneyDefaults {
	return usecase.JourneyDefaults{
		MaxDuration:            cfg.MaxDuration,
		MaxNbTransfers:         cfg.MaxNbTransfers,
		MaxDurationToPt:        cfg.MaxDurationToPt,
		Speeds:                 cfg.Speeds,
		ParkDuration:           cfg.ParkDuration,
		WalkingTransferPenalty: cfg.WalkingTransferPenalty,
		TransferPenalty:        cfg.TransferPenalty,
		FirstSectionModes:      cfg.FirstSectionModes,
		LastSectionModes:       cfg.LastSectionModes,
	}
}
