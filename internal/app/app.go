package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsHerald/internal/collector"
	"NewsHerald/internal/compose"
	"NewsHerald/internal/config"
	"NewsHerald/internal/infrastructure/feed"
	"NewsHerald/internal/infrastructure/images"
	"NewsHerald/internal/infrastructure/llm"
	"NewsHerald/internal/infrastructure/scheduler"
	"NewsHerald/internal/infrastructure/storage"
	"NewsHerald/internal/infrastructure/telegram"
	"NewsHerald/internal/logging"
	"NewsHerald/internal/relevance"
	"NewsHerald/internal/usecase"
)

// Application wires configuration into adapters, use cases and lifecycle.
type Application struct {
	cfg       config.Config
	log       *slog.Logger
	repo      *storage.SQLiteRepository
	messenger *telegram.Client
	listener  *telegram.Listener
	orch      *usecase.Orchestrator
	ticker    *scheduler.TickScheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	repo, err := storage.NewSQLiteRepository(
		cfg.Database.Path,
		cfg.Pipeline.DuplicateWindow(),
		cfg.Pipeline.DuplicateThreshold,
		baseLogger.With("component", "storage"),
	)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	resolver := images.NewResolver(nil, feed.UserAgent, baseLogger.With("component", "images"))
	messenger := telegram.NewClient(cfg.Telegram.BotToken, resolver, baseLogger.With("component", "telegram"))

	col := collector.New(collector.Deps{
		Source:     feed.NewFetcher(15 * time.Second),
		Dedup:      repo,
		Failures:   repo,
		Scorer:     relevance.NewScorer(nil, nil, nil),
		Sources:    cfg.Sources,
		PerFeedCap: cfg.Pipeline.PerFeedCap,
		MinScore:   cfg.Pipeline.MinScore,
		Logger:     baseLogger.With("component", "collector"),
	})

	orch := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Collector:    col,
		Transformer:  compose.NewTransformer(llm.NewChatGPTClient(cfg.OpenAI), cfg.Telegram.Handle),
		Repository:   repo,
		Images:       resolver,
		Messenger:    messenger,
		ChannelID:    cfg.Telegram.ChannelID,
		EditorChatID: cfg.Telegram.EditorChatID,
		Handle:       cfg.Telegram.Handle,
		AutoPublish:  cfg.Pipeline.AutoPublish,
		MaxPerRun:    cfg.Pipeline.MaxPerRun,
		Lookahead:    cfg.Pipeline.Lookahead,
		Logger:       baseLogger.With("component", "orchestrator"),
	})

	commands := usecase.NewCommands(
		repo,
		messenger,
		orch,
		cfg.Telegram.ChannelID,
		cfg.Telegram.EditorChatID,
		baseLogger.With("component", "commands"),
	)

	return &Application{
		cfg:       cfg,
		log:       baseLogger,
		repo:      repo,
		messenger: messenger,
		listener:  telegram.NewListener(messenger, cfg.Telegram.EditorChatID, commands, baseLogger.With("component", "listener")),
		orch:      orch,
		ticker:    scheduler.NewTickScheduler(cfg.Pipeline.TickInterval()),
	}, nil
}

// Run announces startup, starts the scheduler and blocks on the command
// listener until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.messenger.Send(ctx, a.cfg.Telegram.EditorChatID, "🤖 Ботът за български новини е стартиран!", ""); err != nil {
		a.log.Warn("startup announcement failed", "error", err)
	}

	err := a.ticker.Start(ctx, func(time.Time) {
		if runErr := a.orch.Run(ctx); runErr != nil {
			a.log.Error("scheduled run failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.listener.Listen(ctx)

	if err := a.ticker.Stop(context.WithoutCancel(ctx)); err != nil {
		a.log.Warn("stop scheduler", "error", err)
	}
	return a.repo.Close()
}
