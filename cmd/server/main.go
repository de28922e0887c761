package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/pricing"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
	cfg := config.Load()
	logger, err := config.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		database.Options{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
		logger.Info("schema up to date")
	}

	cacheCfg := config.LoadCacheConfig()
	brokerCfg := config.LoadBrokerConfig()
	pricingCfg := config.LoadPricingConfig()
	rlCfg := config.LoadRateLimitConfig()

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	cacheClient := rdb
	if !cacheCfg.Enabled {
		cacheClient = nil
	}

	rooms := repository.NewRoomRepo(db)
	seasons := repository.NewSeasonRepo(db)
	guests := repository.NewGuestRepo(db)
	bookings := repository.NewBookingRepo(db)
	extras := repository.NewExtraRepo(db)
	staff := repository.NewStaffRepo(db)

	searchCache := cache.NewSearchCache(cache.NewCollection(cacheClient, cacheCfg.Prefix, cache.AvailabilityCollection, cacheCfg.TTL))
	extrasCatalog := service.NewExtrasCatalog(extras,
		cache.NewCollection(cacheClient, cacheCfg.Prefix, cache.ExtrasCollection, cacheCfg.TTL), logger)
	roomCatalog := service.NewRoomCatalog(rooms,
		cache.NewCollection(cacheClient, cacheCfg.Prefix, cache.RoomsCollection, cacheCfg.TTL), logger)

	engine := pricing.NewEngine(rooms, seasons, pricingCfg.TaxesPercentage, logger)
	publisher := queue.NewPublisher(brokerCfg.URL, logger)

	availability := service.NewAvailability(db, engine, searchCache, logger)
	confirmer := service.NewConfirmer(service.ConfirmerDeps{
		DB:             db,
		Rooms:          rooms,
		RoomInfo:       rooms,
		Guests:         guests,
		Bookings:       bookings,
		Pricer:         engine,
		Extras:         extrasCatalog,
		Cache:          searchCache,
		Events:         publisher,
		Topic:          brokerCfg.BookingsTopic,
		PublishTimeout: brokerCfg.PublishTimeout,
		Log:            logger,
	})
	bookingSvc := service.NewBookings(bookings, searchCache, publisher, brokerCfg.CancelledTopic, logger)
	authSvc := service.NewAuth(staff, cfg.JWTSecret, cfg.AccessTTLMin, logger)

	if brokerCfg.ConsumerEnabled {
		sinkWriter, err := config.RotatingFile(brokerCfg.NotificationLog)
		if err != nil {
			logger.Fatal("notification log", zap.Error(err))
		}
		sink := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sinkWriter, zap.InfoLevel))
		notifier := queue.NewNotifier(brokerCfg.URL, brokerCfg.BookingsTopic, sink, logger)
		go func() {
			if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notifier stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))

	bookingHandler := &handler.BookingHandler{Bookings: bookingSvc, Availability: searchCache, Log: logger}
	router.RegisterRoutes(e, &handler.ReadyHandler{DB: db, Redis: rdb})
	router.RegisterAuth(e, &handler.AuthHandler{Auth: authSvc, Log: logger})
	router.RegisterPublic(e,
		&handler.AvailabilityHandler{
			Search:       availability,
			Confirmer:    confirmer,
			CacheControl: cacheCfg.CacheControl,
			Log:          logger,
		},
		handler.NewCatalogHandler(extrasCatalog, roomCatalog, cacheCfg.CacheControl, logger),
		bookingHandler,
		middleware.NewTokenBucket(rlCfg, rdb, logger),
	)
	router.RegisterAdmin(e, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
