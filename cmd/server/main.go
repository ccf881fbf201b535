package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"raffle-backend/internal/common/logger"
	"raffle-backend/internal/config"
	"raffle-backend/internal/events"
	"raffle-backend/internal/events/kafkapub"
	"raffle-backend/internal/events/redisstream"
	raffledelivery "raffle-backend/internal/features/raffle/delivery/http"
	"raffle-backend/internal/features/raffle/gateway"
	"raffle-backend/internal/features/raffle/oracle"
	"raffle-backend/internal/features/raffle/payout"
	"raffle-backend/internal/features/raffle/repository"
	memoryrepo "raffle-backend/internal/features/raffle/repository/memory"
	postgresrepo "raffle-backend/internal/features/raffle/repository/postgres"
	redisrepo "raffle-backend/internal/features/raffle/repository/redis"
	"raffle-backend/internal/features/raffle/service"
	"raffle-backend/internal/platform/db"
	"raffle-backend/internal/platform/metrics"
	redisplatform "raffle-backend/internal/platform/redis"
	"raffle-backend/internal/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Init("raffle-backend", true)
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("raffle-backend", cfg.Debug)
	logger.Info().
		Str("storage", cfg.StorageBackend).
		Str("publisher", cfg.EventPublisher).
		Int64("entry_fee_nanoton", cfg.EntryFee).
		Dur("round_interval", cfg.RoundInterval).
		Msg("Starting raffle backend")

	ctx := context.Background()

	// Redis is needed by the redis storage backend and the redis-stream
	// publisher; connect once and share.
	var rdb *goredis.Client
	if cfg.StorageBackend == "redis" || cfg.EventPublisher == "redis" {
		rdb, err = redisplatform.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}

	var repo repository.RoundRepository
	switch cfg.StorageBackend {
	case "redis":
		repo = redisrepo.NewRoundRepository(rdb)
	case "postgres":
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer sqlDB.Close()
		if err := postgresrepo.Migrate(ctx, sqlDB); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		repo = postgresrepo.NewRoundRepository(sqlDB)
	case "memory":
		repo = memoryrepo.NewRoundRepository()
	}

	var notifier events.Publisher
	switch cfg.EventPublisher {
	case "redis":
		notifier = redisstream.New(rdb)
	case "kafka":
		kp := kafkapub.New(cfg.KafkaBrokers)
		defer kp.Close()
		notifier = kp
	case "none":
		notifier = events.Noop{}
	}

	oracleClient := oracle.New(oracle.Config{
		BaseURL:          cfg.OracleBaseURL,
		KeyHash:          cfg.OracleKeyHash,
		SubscriptionID:   cfg.OracleSubscriptionID,
		Confirmations:    cfg.OracleConfirmations,
		CallbackGasLimit: cfg.OracleCallbackGasLimit,
	})
	payoutClient := payout.New(cfg.PayoutBaseURL)

	gw := gateway.New(oracleClient)
	raffleService := service.NewRaffleService(repo, gw, payoutClient, notifier, cfg.EntryFee, cfg.RoundInterval)
	gw.AttachSink(raffleService)

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		_, err := raffleService.CurrentRound(ctx)
		return err
	})
	defer metricsSrv.Close()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Oracle-Token"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	handler := raffledelivery.NewRaffleHandler(raffleService, gw)
	handler.RegisterRoutes(api, cfg.OracleCallbackToken)

	var upkeepWorker *workers.UpkeepWorker
	if cfg.UpkeepIntervalSec > 0 {
		upkeepWorker = workers.NewUpkeepWorker(raffleService, time.Duration(cfg.UpkeepIntervalSec)*time.Second)
		upkeepWorker.Start()
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	if upkeepWorker != nil {
		upkeepWorker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
