package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayane2751/fairybot/internal/ai"
	"github.com/ayane2751/fairybot/internal/config"
	"github.com/ayane2751/fairybot/internal/discord"
	"github.com/ayane2751/fairybot/internal/heartbeat"
	"github.com/ayane2751/fairybot/internal/repository"
	"github.com/ayane2751/fairybot/internal/scheduler"
	"github.com/ayane2751/fairybot/internal/sheets"
	"github.com/ayane2751/fairybot/internal/webhook"
)

// The scheduler lock is cooperative; run exactly one instance of this
// process against a given sheet.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds, err := cfg.Credentials()
	if err != nil {
		slog.Error("failed to load service account credentials", "error", err)
		os.Exit(1)
	}

	store, err := sheets.NewClient(ctx, creds, cfg.SheetID, cfg.SheetName)
	if err != nil {
		slog.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}
	slog.Info("sheets client initialized", "sheet", cfg.SheetName)

	repo := repository.NewReminderRepository(store, cfg.MaxRows, cfg.SendingTimeout)

	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		slog.Info("AI client initialized", "model", cfg.AIModel)
	} else {
		slog.Info("AI client not configured, first replies use the fixed message")
	}

	relay := webhook.NewRelay(cfg.WebhookURL, cfg.WebhookSecret)

	bot, err := discord.New(cfg.DiscordToken, repo, aiClient, relay, cfg.DefaultTimezone)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	notifier := discord.NewNotifier(bot.Session())
	hb := heartbeat.NewWriter(cfg.HeartbeatPath)
	sched := scheduler.New(repo, notifier, hb, cfg.PollInterval, cfg.MaxRetries)
	go sched.Start(ctx)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	slog.Info("starting bot")
	if err := bot.Start(ctx); err != nil && err != context.Canceled {
		slog.Error("bot error", "error", err)
		os.Exit(1)
	}
}
