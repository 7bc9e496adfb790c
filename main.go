package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(os.Stderr, "info", false)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	ctx := context.Background()
	server, cleanup, err := setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("starting server")
		if err := server.Listen(cfg.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info().Msg("shutting down server")

	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := cleanup(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error releasing resources")
	}
	log.Info().Msg("server gracefully stopped")
}

// setup connects storage and the optional event broker and builds the HTTP
// application. The returned cleanup releases both.
func setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*fiber.App, func(context.Context) error, error) {
	// --- Storage ---
	store, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// --- Product events (optional) ---
	var (
		publisher services.EventPublisher
		exchange  string
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			_ = store.Close(ctx)
			return nil, nil, err
		}
		publisher = mqClient
		exchange = mqClient.Exchange()

		if err := mqClient.ConsumeProductEvents(logEvent(log)); err != nil {
			log.Warn().Err(err).Msg("failed to start product event consumer")
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, product events disabled")
	}

	// --- Services and HTTP ---
	productService := services.NewProductService(store.Products, publisher, exchange, log)
	statsService := services.NewStatsService(store.Products)

	server := app.New(app.Deps{
		Config:   cfg,
		Products: productService,
		Stats:    statsService,
		Log:      log,
	})

	cleanup := func(ctx context.Context) error {
		var errs []error
		if mqClient != nil {
			errs = append(errs, mqClient.Close())
		}
		errs = append(errs, store.Close(ctx))
		return errors.Join(errs...)
	}
	return server, cleanup, nil
}

// logEvent records every consumed product event.
func logEvent(log zerolog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		log.Info().
			Str("routing_key", msg.RoutingKey).
			Uint64("delivery_tag", msg.DeliveryTag).
			Bytes("event", msg.Body).
			Msg("received product event")
		return nil
	}
}
