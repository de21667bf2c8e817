package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/ayane2751/fairybot/internal/ai"
	"github.com/ayane2751/fairybot/internal/repository"
	"github.com/ayane2751/fairybot/internal/webhook"
)

// Bot owns the Discord session and fans events out to the Handler.
type Bot struct {
	session *discordgo.Session
	handler *Handler
}

func New(token string, repo *repository.ReminderRepository, aiClient *ai.Client, relay *webhook.Relay, defaultTZ string) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session: session,
		handler: NewHandler(repo, aiClient, relay, defaultTZ),
	}

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("logged in", "user", r.User.Username)
		if err := RegisterCommands(s); err != nil {
			slog.Error("failed to register commands", "error", err)
		}
	})
	session.AddHandler(bot.handler.HandleInteraction)
	session.AddHandler(bot.handler.HandleMessage)

	return bot, nil
}

// Session exposes the underlying connection for the Notifier.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Start opens the gateway connection and blocks until the context is done.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	<-ctx.Done()
	return b.session.Close()
}
