package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/ayane2751/fairybot/internal/models"
	"github.com/ayane2751/fairybot/internal/scheduler"
)

// Notifier resolves reminder scopes to Discord destinations: a DM channel
// for user scope, the stored channel for channel and server scopes (a
// server reminder is always bound to its configured notification channel).
type Notifier struct {
	session *discordgo.Session
}

func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

func (n *Notifier) ResolveTarget(ctx context.Context, reminder *models.Reminder) (scheduler.Target, error) {
	switch reminder.Scope {
	case models.ScopeUser:
		if reminder.UserID == "" {
			return nil, nil
		}
		channel, err := n.session.UserChannelCreate(reminder.UserID)
		if err != nil {
			return nil, err
		}
		return &channelTarget{session: n.session, channelID: channel.ID}, nil
	case models.ScopeChannel, models.ScopeServer:
		if reminder.ChannelID == "" {
			return nil, nil
		}
		if _, err := n.session.Channel(reminder.ChannelID); err != nil {
			return nil, err
		}
		return &channelTarget{session: n.session, channelID: reminder.ChannelID}, nil
	}
	return nil, nil
}

type channelTarget struct {
	session   *discordgo.Session
	channelID string
}

func (t *channelTarget) Send(ctx context.Context, text string) error {
	_, err := t.session.ChannelMessageSend(t.channelID, text)
	return err
}
