package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/naraya/pool-http-service/common/config"
	"github.com/naraya/pool-http-service/common/messaging"
	"github.com/naraya/pool-http-service/common/metrics"
	"github.com/naraya/pool-http-service/common/redis"
	"github.com/naraya/pool-http-service/common/work"
	_ "github.com/naraya/pool-http-service/jobs"
)

func main() {
	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	// Create a base context with cancel for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE REDIS (optional job state store)
	var redisClient *redis.RedisClient
	if cfg.Redis.Enabled {
		var err error
		redisClient, err = redis.NewClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup Redis")
		}
		defer redisClient.Close()
		log.Info().Msg("Redis job state store enabled")
	}
	manager := work.NewJobManager(redisClient)

	// INITIATE NATS CLIENT (optional job event publisher)
	var natsClient *messaging.NatsClient
	if cfg.Nats.Enabled {
		var err error
		natsClient, err = messaging.NewNatsClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup NATS client")
		}
		defer natsClient.Close()
	}

	// INITIATE METRICS
	var registry *prometheus.Registry
	poolConfig := work.PoolConfig{
		Name:           "http-jobs",
		NumWorkers:     cfg.Pool.NumWorkers,
		ResultChanSize: cfg.Pool.ResultChanSize,
	}
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		poolConfig.Metrics = metrics.NewPoolMetrics(registry, cfg.Metrics.Namespace)
	}

	// INITIATE WORKER POOL
	pool, err := work.NewPoolWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}

	// Collect job outcomes: record terminal state and publish events.
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for result := range pool.Results() {
			collectResult(ctx, manager, natsClient, result)
		}
	}()

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	// Inject dependencies
	server.SetPool(pool)
	server.SetJobManager(manager)
	server.SetMetricsRegistry(registry)

	// Setup routes
	server.setupRoute()

	// Start server in a goroutine
	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")

	// Wait for shutdown signal
	select {
	case <-shutdown:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Stop accepting connections first, then drain the pool.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	pool.Shutdown()
	<-collectorDone

	log.Info().Msg("Server gracefully stopped")
}

// collectResult records a job outcome and publishes the matching event.
func collectResult(ctx context.Context, manager *work.JobManager, natsClient *messaging.NatsClient, result work.Result) {
	if result.IsSuccess() {
		if err := manager.Complete(ctx, result.JobID); err != nil {
			log.Warn().Err(err).Str("jobID", result.JobID).Msg("Failed to record job completion")
		}
		natsClient.PublishJobEvent(messaging.SubjectJobCompleted, messaging.JobEvent{
			JobID:      result.JobID,
			Status:     work.StatusCompleted,
			DurationMs: result.Duration.Milliseconds(),
			FinishedAt: result.EndTime,
		})
		return
	}

	if err := manager.Fail(ctx, result.JobID); err != nil {
		log.Warn().Err(err).Str("jobID", result.JobID).Msg("Failed to record job failure")
	}
	natsClient.PublishJobEvent(messaging.SubjectJobFailed, messaging.JobEvent{
		JobID:      result.JobID,
		Status:     work.StatusFailed,
		Error:      result.Err.Error(),
		DurationMs: result.Duration.Milliseconds(),
		FinishedAt: result.EndTime,
	})
}
