package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artisthub/config"
	"artisthub/cron"
	"artisthub/database"
	bookingRepo "artisthub/database/repository/booking"
	memoryRepo "artisthub/database/repository/memory"
	orderRepo "artisthub/database/repository/order"
	providerRepo "artisthub/database/repository/provider"
	userRepo "artisthub/database/repository/user"
	"artisthub/handlers"
	"artisthub/routes"
	"artisthub/services/booking"
	"artisthub/services/order"
	"artisthub/services/provider"
	"artisthub/services/tasks"
	"artisthub/services/user"
	"artisthub/utils"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// storage is the set of repositories the services run against.
type storage struct {
	providers providerRepo.ProviderRepository
	orders    orderRepo.OrderRepository
	users     userRepo.UserRepository
	tx        bookingRepo.TransactionRunner
	pingers   map[string]utils.Pinger
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("main: using the in-process store; data is lost on restart")
		store := memoryRepo.NewStore()
		return &storage{
			providers: store.Providers(),
			orders:    store.Orders(),
			users:     store.Users(),
			tx:        store,
			pingers:   map[string]utils.Pinger{},
			close:     func() {},
		}, nil
	}

	client, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	st, err := mongoStorage(ctx, client, cfg.DatabaseName)
	if err != nil {
		database.Disconnect(client, logger)
		return nil, err
	}
	st.close = func() { database.Disconnect(client, logger) }
	return st, nil
}

func mongoStorage(ctx context.Context, client *mongo.Client, dbName string) (*storage, error) {
	db := client.Database(dbName)
	providers, err := providerRepo.NewMongoProviderRepo(ctx, db)
	if err != nil {
		return nil, err
	}
	orders, err := orderRepo.NewMongoOrderRepo(ctx, db)
	if err != nil {
		return nil, err
	}
	users, err := userRepo.NewMongoUserRepo(ctx, db)
	if err != nil {
		return nil, err
	}
	return &storage{
		providers: providers,
		orders:    orders,
		users:     users,
		tx:        bookingRepo.NewMongoTransactionRunner(client, db),
		pingers:   map[string]utils.Pinger{"mongodb": utils.MongoPinger(client)},
	}, nil
}

func main() {
	cfg := config.LoadConfig()
	logger := utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open storage: %v", err)
	}
	defer st.close()

	var cache provider.AvailabilityCache = utils.NoopAvailabilityCache{}
	if cfg.RedisAddr != "" {
		redisClient, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewRedisAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL, logger)
		st.pingers["redis"] = utils.RedisPinger(redisClient)
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	// services.
	orderService, err := order.NewDefaultOrderService(st.orders, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	bookingService, err := booking.NewDefaultBookingService(st.tx, orderService, cache, cfg.BookingMaxAttempts, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if cfg.RemindersEnabled() {
		queueOpts := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}
		asynqClient := asynq.NewClient(queueOpts)
		defer asynqClient.Close()
		bookingService.Reminders = tasks.NewReminderScheduler(asynqClient, cfg.ReminderLead, logger)

		worker, mux := cron.NewReminderWorker(queueOpts, logger)
		cron.RunReminderWorker(ctx, worker, mux, logger)
	}

	providerService, err := provider.NewDefaultProviderService(st.providers, cache, tokens, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	userService, err := user.NewDefaultUserService(st.users, tokens, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	monitor := utils.NewHealthMonitor(st.pingers, logger)
	monitor.Start(ctx, 30*time.Second)

	handlerBundle := &handlers.HandlerBundle{
		Auth:    &handlers.AuthHandler{Users: userService, Providers: providerService},
		Artists: &handlers.ProviderHandler{Service: providerService},
		Orders:  &handlers.OrderHandler{Booking: bookingService, Orders: orderService},
		Admin:   handlers.NewAdminHandler(providerService, orderService),
		Health:  &handlers.HealthHandler{Monitor: monitor},
	}

	router := routes.NewRouter(handlerBundle, routes.Options{
		Tokens:            tokens,
		AdminToken:        cfg.AdminToken,
		ClientURL:         cfg.ClientURL,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Infof("main: shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	logger.Sugar().Infof("main: server exiting")
}
