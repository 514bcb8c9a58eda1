package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/llm"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/prompt"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/sla"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	observer := observability.NewObserver(cfg.Tracing, logger)

	prompts := prompt.NewLoader()
	if cfg.Prompts.Dir != "" {
		prompts = prompt.NewLoaderFromDir(cfg.Prompts.Dir)
	}
	if err := prompts.Verify(); err != nil {
		logger.Fatal("prompt templates unavailable", zap.Error(err))
	}

	if cfg.Provider.APIKey == "" {
		logger.Warn("GOOGLE_API_KEY not set, model calls will fail until configured")
	}

	providerOpts := []llm.GeminiOption{
		llm.WithModel(cfg.Provider.Model),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout()}),
	}
	if cfg.Provider.BaseURL != "" {
		providerOpts = append(providerOpts, llm.WithBaseURL(cfg.Provider.BaseURL))
	}
	provider := llm.NewGemini(cfg.Provider.APIKey, providerOpts...)

	hours, err := sla.NewBusinessHours(cfg.BusinessHours.StartHour, cfg.BusinessHours.EndHour)
	if err != nil {
		logger.Fatal("invalid business hours", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterAuditSubscribers(dispatcher, logger, metrics)

	aiService := service.NewAIService(provider, prompts, observer)
	ticketService := service.NewTicketService(service.TicketDependencies{
		AI:         aiService,
		Calculator: sla.NewCalculator(),
		Hours:      hours,
		Store:      service.NewSessionStore(),
		Dispatcher: dispatcher,
		Observer:   observer,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, provider.Name(), cfg.Provider.APIKey != "", prompts, metrics)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)
	metaHandler := handlers.NewMetaHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
		Meta:    metaHandler,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
