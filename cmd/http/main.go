package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"github.com/sprintdeck/pokersync/internal/domain"
	"github.com/sprintdeck/pokersync/internal/infrastructure/configs"
	"github.com/sprintdeck/pokersync/internal/infrastructure/events"
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/messaging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/ratelimiter"
	"github.com/sprintdeck/pokersync/internal/infrastructure/sign"
	"github.com/sprintdeck/pokersync/internal/infrastructure/tracing"
	"github.com/sprintdeck/pokersync/internal/infrastructure/ws"
	"github.com/sprintdeck/pokersync/internal/poker"
	"github.com/sprintdeck/pokersync/internal/presentation/api"
	healthHandler "github.com/sprintdeck/pokersync/internal/presentation/handler/health"
	roomHandler "github.com/sprintdeck/pokersync/internal/presentation/handler/rooms"
)

func main() {
	logger := logging.NewLogger(logging.NewDefaultConfig())

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		ServiceName: "pokersync",
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		Enabled:     cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(logging.General, logging.Startup, "failed to init tracer", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	// Round history publishing is optional; without an AMQP URI completed
	// rounds stay in each room's in-memory history only.
	var publisher poker.RoundPublisher
	if cfg.AMQP.URI != "" {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URI, cfg.AMQP.Exchange)
		if err != nil {
			logger.Fatal(logging.RabbitMQ, logging.Startup, "failed to connect to RabbitMQ", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
		defer rabbitmq.Close()
		publisher = events.NewRoundPublisher(rabbitmq)
	}

	registry := domain.NewRegistry()

	core := ws.NewCore(logger)
	go core.Run()

	dispatcher := poker.NewDispatcher(core, logger)
	ingress := poker.NewIngress(registry, dispatcher, logger, publisher)

	signer := sign.New(cfg.Negotiate.Secret)
	roomsHandler := roomHandler.NewHandler(core, ingress, signer, cfg.Negotiate, cfg.HTTP.AllowedOrigins, logger)

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, roomsHandler, healthHandler.NewHandler(), logger, rateLimiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited with error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
