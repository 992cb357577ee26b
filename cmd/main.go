package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"pesacore/internal/config"
	"pesacore/internal/domain"
	"pesacore/internal/infrastructure"
	"pesacore/internal/interfaces"
	"pesacore/internal/usecase"
)

func main() {
	settings := config.LoadEnvironmentConfig()
	setupLogger(settings)

	ids, closeIDs := newTransactionIDGenerator(settings)
	defer closeIDs()

	publisher, closePublisher := newOutcomePublisher(settings)
	defer closePublisher()

	dispatcher := infrastructure.NewHTTPDispatcher(
		settings.PesacoreBaseURL,
		settings.PesacoreVerificationEndpoint,
		settings.PesacoreConfirmationEndpoint,
		settings.PesacoreAuthHeader,
		settings.PesacoreTimeout,
	)
	slog.Info("pesacore endpoints",
		"verification", dispatcher.Endpoint(domain.PhaseVerification),
		"confirmation", dispatcher.Endpoint(domain.PhaseSettlement),
		"timeout", settings.PesacoreTimeout)

	metrics := usecase.NewPipelineMetrics()
	verification := usecase.NewVerificationPipeline(dispatcher, ids, metrics)
	settlement := usecase.NewSettlementPipeline(dispatcher, ids, metrics, settings.SettlementLenientResponse)

	controller := interfaces.NewPaymentHubController(verification, settlement, publisher, metrics)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          settings.PesacoreTimeout + 5*time.Second,
		IdleTimeout:           120 * time.Second,
	})
	controller.RegisterRoutes(app)

	go func() {
		slog.Info("server running", "addr", settings.ListenAddress())
		if err := app.Listen(settings.ListenAddress()); err != nil {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down gracefully")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}

func setupLogger(settings *config.ApplicationSettings) {
	opts := &slog.HandlerOptions{Level: settings.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if settings.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newTransactionIDGenerator(settings *config.ApplicationSettings) (domain.TransactionIDGenerator, func()) {
	switch settings.TransactionIDSource {
	case "redis":
		gen := infrastructure.NewRedisSequenceGenerator(settings.RedisAddr, settings.RedisSequenceKey, "PH")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gen.Ping(ctx); err != nil {
			slog.Error("Redis failed", "addr", settings.RedisAddr, "err", err)
			os.Exit(1)
		}

		slog.Info("transaction ids from redis sequence", "addr", settings.RedisAddr, "key", settings.RedisSequenceKey)
		return gen, func() { _ = gen.Close() }
	case "static":
		slog.Warn("transaction ids are static", "id", settings.TransactionIDStatic)
		return infrastructure.StaticGenerator{ID: settings.TransactionIDStatic}, func() {}
	default:
		return infrastructure.UUIDGenerator{}, func() {}
	}
}

func newOutcomePublisher(settings *config.ApplicationSettings) (domain.OutcomePublisher, func()) {
	if settings.NatsURL == "" {
		return infrastructure.NoopOutcomePublisher{}, func() {}
	}

	publisher, err := infrastructure.NewNatsOutcomePublisher(settings.NatsURL, settings.NatsSubjectPrefix)
	if err != nil {
		slog.Error("NATS failed, outcomes will not be published", "err", err)
		return infrastructure.NoopOutcomePublisher{}, func() {}
	}
	return publisher, func() { _ = publisher.Close() }
}
