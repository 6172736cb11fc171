package app

import (
	"context"
	"fmt"
	"log/slog"

	"NewsRater/internal/api"
	"NewsRater/internal/config"
	"NewsRater/internal/infrastructure/fetcher"
	"NewsRater/internal/infrastructure/llm"
	"NewsRater/internal/infrastructure/scheduler"
	"NewsRater/internal/infrastructure/storage"
	"NewsRater/internal/infrastructure/telegram"
	"NewsRater/internal/logging"
	"NewsRater/internal/ports"
	"NewsRater/internal/prompts"
	"NewsRater/internal/sources"
	"NewsRater/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	server    *api.Server
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance. Prompt configuration errors
// are fatal: nothing depending on the registry may start without it.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := prompts.Default()
	if cfg.Prompts.Path != "" {
		loaded, err := prompts.LoadFile(cfg.Prompts.Path)
		if err != nil {
			return nil, fmt.Errorf("load prompt registry: %w", err)
		}
		registry = loaded
	}

	oracle, summarizer, model, err := buildOracle(ctx, cfg.LLM, registry)
	if err != nil {
		return nil, err
	}

	db, err := storage.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	articles := storage.NewArticleRepository(db)
	ratings := storage.NewRatingRepository(db)

	rater := usecase.NewRater(usecase.RaterDeps{
		Registry: registry,
		Oracle:   oracle,
		Model:    model,
		Timeout:  cfg.LLM.CallTimeout,
		Logger:   logging.ForComponent(baseLogger, "rater"),
	})

	handler := api.NewHandler(articles, ratings, rater, summarizer,
		logging.ForComponent(baseLogger, "api"))
	server := api.NewServer(cfg.Server.Addr, handler, logging.ForComponent(baseLogger, "server"))

	app := &Application{cfg: cfg, server: server, logger: baseLogger}

	if cfg.Scheduler.Enabled {
		registry := sources.NewRegistry()
		registry.Register(fetcher.NewHeadlineScanner(nil))

		source := fetcher.NewStrategySource(registry, cfg.Sites,
			logging.ForComponent(baseLogger, "source"))

		var notifier ports.Notifier
		if cfg.Notifications.Telegram.BotToken != "" {
			notifier = telegram.NewNotifier(
				cfg.Notifications.Telegram.BotToken,
				cfg.Notifications.Telegram.ChatID,
			)
		}

		pipeline := usecase.NewPipeline(usecase.PipelineDeps{
			Source:     source,
			Articles:   articles,
			Ratings:    ratings,
			Rater:      rater,
			Summarizer: summarizer,
			Notifier:   notifier,
			Logger:     logging.ForComponent(baseLogger, "pipeline"),
		})

		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval)
		app.scheduler = usecase.NewScheduler(driver, pipeline,
			logging.ForComponent(baseLogger, "scheduler"))
	}

	return app, nil
}

// Run starts the ingestion scheduler (when enabled) and serves the API
// until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() { _ = a.scheduler.Stop(context.Background()) }()
	}

	return a.server.Run(ctx)
}

func buildOracle(ctx context.Context, cfg config.LLMConfig, registry *prompts.Registry) (ports.TextOracle, ports.Summarizer, string, error) {
	switch cfg.Provider {
	case "", "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.Gemini, registry)
		if err != nil {
			return nil, nil, "", fmt.Errorf("build gemini client: %w", err)
		}
		return client, client, client.Model(), nil
	case "openai":
		client := llm.NewOpenAIClient(cfg.OpenAI)
		// Summaries stay on Gemini when a key is present; the chat
		// completion oracle only answers scoring prompts.
		var summarizer ports.Summarizer
		if cfg.Gemini.APIKey != "" {
			gemini, err := llm.NewGeminiClient(ctx, cfg.Gemini, registry)
			if err != nil {
				return nil, nil, "", fmt.Errorf("build gemini summarizer: %w", err)
			}
			summarizer = gemini
		}
		return client, summarizer, client.Model(), nil
	default:
		return nil, nil, "", fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
