package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"StockNews/internal/company"
	"StockNews/internal/config"
	"StockNews/internal/infrastructure/classifier"
	"StockNews/internal/infrastructure/crawler"
	"StockNews/internal/infrastructure/email"
	"StockNews/internal/infrastructure/llm"
	"StockNews/internal/infrastructure/scheduler"
	"StockNews/internal/infrastructure/source"
	"StockNews/internal/infrastructure/storage"
	"StockNews/internal/logging"
	"StockNews/internal/ports"
	"StockNews/internal/scanner"
	"StockNews/internal/sentiment"
	"StockNews/internal/timeseries"
	"StockNews/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	ollama   *llm.Service
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	chatClient := llm.NewClient(cfg.Ollama)

	var ollamaService *llm.Service
	if cfg.Ollama.ManageServer {
		ollamaService = llm.NewService(chatClient, baseLogger.With("component", "ollama"))
	}

	var crawlerRunner ports.CrawlerRunner
	if cfg.Crawl.Enabled {
		registry := scanner.NewRegistry()
		registry.Register(crawler.NewCnyesCrawler(nil))
		registry.Register(crawler.NewUdnCrawler(nil))
		crawlerRunner = crawler.NewRunner(registry, cfg.Crawl.Sites, cfg.Paths.NewsDir,
			baseLogger.With("component", "crawler"))
	}

	reference := company.LoadReference(cfg.Paths.CompanyCodes, baseLogger.With("component", "reference"))

	var repository ports.ArticleRepository
	if cfg.Database.DSN != "" {
		if db, err := sql.Open("postgres", cfg.Database.DSN); err != nil {
			baseLogger.Error("audit store unavailable", "error", err)
		} else {
			repository = storage.NewPostgresRepository(db)
		}
	}

	var notifier ports.Notifier
	if cfg.Email.Sender != "" && cfg.Email.Password != "" && len(cfg.Email.Receivers) > 0 {
		notifier = email.NewNotifier(cfg.Email)
	} else {
		baseLogger.Warn("email configuration missing, digests will not be sent")
	}

	analyzer := sentiment.NewAnalyzer(
		chatClient,
		classifier.NewLexicon(),
		cfg.Pipeline.PrimaryWeight,
		cfg.Pipeline.SecondaryWeight,
		baseLogger.With("component", "analyzer"),
	)

	history := timeseries.NewManager(
		reference.Keys(),
		timeseries.NewStore(cfg.Paths.History),
		baseLogger.With("component", "timeseries"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Crawler:    crawlerRunner,
		Source:     source.NewCSVSource(cfg.Paths.SourcePaths(), baseLogger.With("component", "source")),
		Analyzer:   analyzer,
		Reference:  reference,
		Narrator:   company.NewNarrator(chatClient, baseLogger.With("component", "narrator")),
		History:    history,
		Repository: repository,
		Notifier:   notifier,
		Workers:    cfg.Pipeline.MaxWorkers,
		StatsPath:  cfg.Paths.StatsOutput,
		Location:   cfg.Scheduler.Location(),
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline, ollama: ollamaService}
}

// Run executes a single pipeline run, or keeps firing daily when the
// scheduler is enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if a.ollama != nil {
		a.ollama.Start(ctx)
		defer a.ollama.Stop()
	}

	if !a.cfg.Scheduler.Enabled {
		now := time.Now().In(a.cfg.Scheduler.Location())
		return a.pipeline.Run(ctx, now)
	}

	driver := scheduler.NewDailyScheduler(a.cfg.Scheduler.Hour, a.cfg.Scheduler.Location())
	runner := usecase.NewScheduler(driver, a.pipeline)
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer runner.Stop(context.Background())

	<-ctx.Done()
	return ctx.Err()
}
