// Package main is the entry point for the alert lifecycle scanner: the
// background process that evaluates auto-close conditions against every
// active alert on a cron schedule and publishes the resulting lifecycle
// events to the rest of the fleet-operations platform.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	appevent "github.com/fleetops/alert-engine/internal/application/event"
	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/infrastructure/circuitbreaker"
	"github.com/fleetops/alert-engine/internal/infrastructure/config"
	"github.com/fleetops/alert-engine/internal/infrastructure/database"
	"github.com/fleetops/alert-engine/internal/infrastructure/logger"
	"github.com/fleetops/alert-engine/internal/infrastructure/messaging"
	"github.com/fleetops/alert-engine/internal/infrastructure/scheduler"
	"github.com/fleetops/alert-engine/internal/infrastructure/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.App.IsDevelopment(),
	})

	log.Info().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Env).
		Msg("Starting alert lifecycle scanner...")

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	log.Info().Msg("Connected to PostgreSQL")

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		closeDB(db)
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Connected to Redis")

	alertRepo := database.NewPostgresAlertRepository(db)
	ruleRepo := database.NewPostgresRuleRepository(db)
	jobRepo := database.NewPostgresJobRepository(db)
	cacheRepo := database.NewRedisCacheRepository(redisClient)

	eventBus := messaging.NewRedisStreamBus(redisClient.Client(), cfg.EventBus.ConsumerID)
	retryConfig := messaging.RetryConfig{
		MaxRetries:     cfg.EventBus.MaxRetries,
		InitialBackoff: cfg.EventBus.RetryBackoff,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		Jitter:         true,
	}
	retryableBus := messaging.NewRetryableBus(eventBus, retryConfig)
	log.Info().Msg("Event bus initialized")

	eventWorker := worker.NewEventWorker(retryableBus)
	if err := eventWorker.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start event worker")
	}

	deadLetterProcessor := worker.NewDeadLetterProcessor(retryableBus, cacheRepo)
	if err := deadLetterProcessor.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start dead letter processor")
	}

	breakerRegistry := circuitbreaker.NewRegistry()

	ruleCache := service.NewRuleCache(ruleRepo, cfg.Scheduler.RuleCacheTTL)
	producer := appevent.NewAlertProducer(retryableBus)
	ruleEngine := service.NewRuleEngine(alertRepo, ruleCache, producer, cfg.Scheduler.DefaultEscalationWindowMins, breakerRegistry, cfg.Scheduler.AlertTimeout, log.Logger)
	jobService := service.NewJobService(jobRepo)

	scanner, err := scheduler.NewScanner(cfg.Scheduler.CronExpression, ruleEngine, jobService, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scanner")
	}
	scanner.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scanner.Stop(ctx)
	_ = eventWorker.Stop()
	_ = deadLetterProcessor.Stop()

	closeRedis(redisClient)
	closeDB(db)

	log.Info().Msg("Scanner stopped")
}

func closeDB(db *database.PostgresDB) {
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}
}

func closeRedis(client *database.RedisClient) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis connection")
	}
}
