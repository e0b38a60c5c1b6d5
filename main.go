package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"neoncut/cache"
	"neoncut/config"
	jobs "neoncut/cron"
	"neoncut/database"
	historyRepo "neoncut/database/repository/history"
	salonRepo "neoncut/database/repository/salon"
	"neoncut/handlers"
	"neoncut/middleware"
	"neoncut/models"
	"neoncut/routes"
	"neoncut/services/booking"
	"neoncut/services/notification"
	"neoncut/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	usesMongo := cfg.SalonSource == "mongo" || cfg.HistoryBackend == "mongo"
	historyInRedis := cfg.HistoryBackend != "mongo" && cfg.HistoryBackend != "memory"
	usesRedis := historyInRedis || cfg.AvailabilityCache == "redis" || cfg.NotificationsEnabled

	if usesMongo {
		database.InitDB()
	}
	var redisClient *redis.Client
	if usesRedis {
		redisClient = utils.GetCacheClient()
	}

	// repositories.
	salons, err := newSalonRepository(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize salon source: %v", err)
	}
	history, err := newHistoryRepository(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize booking history: %v", err)
	}

	// booking engine.
	bus := booking.NewEventBus(64)
	publishers := booking.MultiPublisher{bus}
	if redisClient != nil {
		publishers = append(publishers, booking.NewRedisEventPublisher(redisClient, booking.EventsChannel))
	}

	notifier, queueClient := newNotifier(cfg, logger)
	if queueClient != nil {
		defer queueClient.Close()
	}

	engine, err := booking.NewEngine(booking.Deps{
		Salons:              salons,
		History:             history,
		Availability:        newAvailabilityStore(cfg, redisClient),
		Checker:             booking.NewSimulatedAvailabilityChecker(),
		Payments:            newPaymentProcessor(cfg, logger),
		Events:              publishers,
		Notifier:            notifier,
		Logger:              logger,
		Location:            config.Location(),
		DaysAhead:           cfg.SlotDaysAhead,
		AvailabilityTimeout: cfg.AvailabilityTimeout,
		PaymentTimeout:      cfg.PaymentTimeout,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := engine.Init(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to initialize booking engine: %v", err)
	}
	defer engine.Destroy()

	// background work.
	scheduler, err := jobs.StartScheduler(jobs.BookingJobs(engine, cfg.SessionIdleTTL, logger), logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start scheduler: %v", err)
	}

	var worker *asynq.Server
	if cfg.NotificationsEnabled {
		handler := &notification.ConfirmationHandler{Logger: logger}
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioPhoneNumber != "" {
			handler.SMS = notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		}
		worker, err = jobs.StartConfirmationWorker(ctx, handler, logger)
		if err != nil {
			logger.Sugar().Errorf("main: confirmation worker unavailable: %v", err)
		}
	}

	var redisClients []*redis.Client
	if redisClient != nil {
		redisClients = append(redisClients, redisClient)
	}
	utils.CheckHealth(ctx, redisClients, database.MongoClient)
	utils.StartHealthMonitor(ctx, redisClients, database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(engine, bus, logger))

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	<-scheduler.Stop().Done()
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func newSalonRepository(ctx context.Context, cfg config.Config) (salonRepo.SalonRepository, error) {
	if cfg.SalonSource == "mongo" {
		repo := salonRepo.NewMongoSalonRepo()
		if ix, ok := repo.(indexer); ok {
			if err := ix.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil
	}
	return salonRepo.NewFileSalonRepo(cfg.SalonDataFile)
}

func newHistoryRepository(ctx context.Context, cfg config.Config, client *redis.Client, logger *zap.Logger) (historyRepo.HistoryRepository, error) {
	switch cfg.HistoryBackend {
	case "mongo":
		repo := historyRepo.NewMongoHistoryRepo()
		if ix, ok := repo.(indexer); ok {
			if err := ix.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil
	case "memory":
		return historyRepo.NewMemoryHistoryRepo(), nil
	default:
		return historyRepo.NewRedisHistoryRepo(client, logger), nil
	}
}

func newAvailabilityStore(cfg config.Config, client *redis.Client) cache.Store[models.AvailabilityEntry] {
	if cfg.AvailabilityCache == "redis" && client != nil {
		return cache.NewRedisCache[models.AvailabilityEntry](client, "neoncut:availability:", booking.AvailabilityCacheTTL)
	}
	return cache.NewTTLCache[models.AvailabilityEntry](booking.AvailabilityCacheTTL, time.Now)
}

func newPaymentProcessor(cfg config.Config, logger *zap.Logger) booking.PaymentProcessor {
	simulated := booking.NewSimulatedPaymentProcessor()
	if cfg.StripeKey == "" {
		logger.Info("STRIPE_KEY not set, using simulated payments")
		return simulated
	}
	stripe.Key = cfg.StripeKey
	return booking.NewStripePaymentProcessor(cfg.StripeCurrency, simulated, logger)
}

func newNotifier(cfg config.Config, logger *zap.Logger) (notification.Notifier, *asynq.Client) {
	if !cfg.NotificationsEnabled {
		return notification.LogNotifier{Logger: logger}, nil
	}
	client := asynq.NewClient(jobs.QueueRedisOpt())
	return notification.NewAsynqNotifier(client, logger), client
}
