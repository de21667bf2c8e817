package discord

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/ayane2751/fairybot/internal/ai"
	"github.com/ayane2751/fairybot/internal/format"
	"github.com/ayane2751/fairybot/internal/models"
	"github.com/ayane2751/fairybot/internal/repository"
	"github.com/ayane2751/fairybot/internal/timeinput"
	"github.com/ayane2751/fairybot/internal/timezone"
	"github.com/ayane2751/fairybot/internal/webhook"
)

const deleteConfirmPrefix = "delete-confirm_"

// Handler owns the interaction and mention logic. The repository is the
// sole reminder store; the AI client and webhook relay may be nil when not
// configured.
type Handler struct {
	repo      *repository.ReminderRepository
	ai        *ai.Client
	relay     *webhook.Relay
	defaultTZ string
}

func NewHandler(repo *repository.ReminderRepository, aiClient *ai.Client, relay *webhook.Relay, defaultTZ string) *Handler {
	return &Handler{
		repo:      repo,
		ai:        aiClient,
		relay:     relay,
		defaultTZ: defaultTZ,
	}
}

func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != "remind" || len(data.Options) == 0 {
			return
		}
		h.handleRemindCommand(s, i, data.Options[0])
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, deleteConfirmPrefix) {
			h.handleDeleteButton(s, i, strings.TrimPrefix(customID, deleteConfirmPrefix))
		}
	}
}

func (h *Handler) handleRemindCommand(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	if err := deferEphemeral(s, i); err != nil {
		slog.Error("failed to defer interaction", "error", err)
		return
	}

	ctx := context.Background()
	switch sub.Name {
	case "add":
		h.handleAdd(ctx, s, i, optionMap(sub.Options))
	case "list":
		h.handleList(ctx, s, i, optionMap(sub.Options))
	case "delete":
		h.handleDelete(ctx, s, i, optionMap(sub.Options))
	}
}

func (h *Handler) handleAdd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	timeInput := stringOption(opts, "time", "")
	content := stringOption(opts, "content", "")
	scope := models.Scope(stringOption(opts, "scope", string(models.ScopeUser)))
	recurring := models.Recurring(stringOption(opts, "recurring", string(models.RecurringOff)))

	defaultVisibility := "public"
	if scope == models.ScopeUser {
		defaultVisibility = "ephemeral"
	}
	visibility := stringOption(opts, "visibility", defaultVisibility)

	referenceInstant := time.Now().UTC()
	resolved, err := timezone.Resolve(stringOption(opts, "timezone", ""), h.defaultTZ, referenceInstant)
	if err != nil {
		editReply(s, i, format.ErrInvalidTimezone)
		return
	}

	if scope == models.ScopeServer {
		if !isAdministrator(i) {
			editReply(s, i, format.AdminRequiredForCreate)
			return
		}
		if _, ok := opts["channel"]; !ok {
			editReply(s, i, format.ChannelRequiredForServerScope)
			return
		}
	}

	parsed, err := timeinput.Parse(timeInput, referenceInstant, resolved.OffsetMinutes)
	if err != nil {
		editReply(s, i, format.ErrInvalidTime)
		return
	}
	if resolved.Source == timezone.SourceIANA {
		parsed = timezone.AdjustForZone(parsed, resolved.Label, resolved.OffsetMinutes)
	}

	var channelID string
	switch scope {
	case models.ScopeServer:
		channelID = opts["channel"].ChannelValue(nil).ID
	case models.ScopeChannel:
		channelID = i.ChannelID
	}

	key, err := h.repo.GenerateUniqueKey(ctx, scope)
	if err != nil {
		slog.Error("failed to generate reminder key", "error", err)
		editReply(s, i, format.ErrKeyGenerationFailed)
		return
	}

	userID := interactionUserID(i)
	reminder := &models.Reminder{
		ID:            uuid.NewString(),
		Key:           key,
		Content:       content,
		Scope:         scope,
		GuildID:       i.GuildID,
		ChannelID:     channelID,
		UserID:        userID,
		NotifyTimeUTC: models.FormatTime(parsed),
		Timezone:      resolved.Label,
		Recurring:     recurring,
		Visibility:    visibility,
		CreatedBy:     userID,
		CreatedAt:     models.FormatTime(time.Now()),
		Status:        models.StatusPending,
		RetryCount:    "0",
		Metadata:      "{}",
	}
	if err := h.repo.Insert(ctx, reminder); err != nil {
		slog.Error("failed to insert reminder", "error", err)
		editReply(s, i, format.ErrGeneric)
		return
	}

	editReply(s, i, format.Created(key, format.DiscordTimestamp(parsed, "F")))
}

func (h *Handler) handleList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	scope := models.Scope(stringOption(opts, "scope", ""))
	query := stringOption(opts, "query", "")
	limit := 50
	if o, ok := opts["limit"]; ok {
		limit = int(o.IntValue())
	}

	reminders, err := h.repo.ListByScope(ctx, scope, repository.Target{
		UserID:    interactionUserID(i),
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
	})
	if err != nil {
		slog.Error("failed to list reminders", "error", err)
		editReply(s, i, format.ErrGeneric)
		return
	}

	editReply(s, i, buildListReply(string(scope), reminders, query, limit))
}

// buildListReply renders the list response. limit is user input and may be
// negative or larger than the result set; the displayed count clamps to
// [0, len(filtered)].
func buildListReply(scope string, reminders []*models.Reminder, query string, limit int) string {
	if len(reminders) == 0 {
		return format.ListEmpty
	}

	filtered := reminders
	if query != "" {
		filtered = nil
		for _, r := range reminders {
			if strings.Contains(r.Key, query) || strings.Contains(r.Content, query) {
				filtered = append(filtered, r)
			}
		}
	}

	displayed := limit
	if displayed < 0 {
		displayed = 0
	}
	if displayed > len(filtered) {
		displayed = len(filtered)
	}
	items := make([]string, 0, displayed)
	for _, r := range filtered[:displayed] {
		displayDate := r.NotifyTimeUTC
		if t, ok := r.NotifyTime(); ok {
			displayDate = format.DiscordTimestamp(t, "R")
		}
		items = append(items, format.ListItem(r.Key, preview(r.Content), displayDate))
	}

	return format.ListHeader(scope, len(filtered), displayed, strings.Join(items, "\n"))
}

func (h *Handler) handleDelete(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	key := stringOption(opts, "key", "")
	scope := models.Scope(stringOption(opts, "scope", ""))
	confirm := false
	if o, ok := opts["confirm"]; ok {
		confirm = o.BoolValue()
	}

	if scope == models.ScopeServer && !isAdministrator(i) {
		editReply(s, i, format.AdminRequiredForDelete)
		return
	}

	reminder, err := h.repo.FindByKey(ctx, key, scope)
	if err != nil {
		slog.Error("failed to look up reminder", "error", err)
		editReply(s, i, format.ErrGeneric)
		return
	}
	if reminder == nil {
		editReply(s, i, format.NotFound)
		return
	}

	if !confirm {
		components := []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    format.DeleteConfirmLabel,
						Style:    discordgo.DangerButton,
						CustomID: deleteConfirmPrefix + reminder.ID,
					},
				},
			},
		}
		editReplyWithComponents(s, i, format.DeleteConfirm(key), components)
		return
	}

	outcome, err := h.repo.SoftDelete(ctx, reminder.ID)
	if err != nil {
		slog.Error("failed to delete reminder", "reminderId", reminder.ID, "error", err)
		editReply(s, i, format.ErrGeneric)
		return
	}
	if !outcome.Found || outcome.AlreadyDeleted {
		editReply(s, i, format.AlreadyDeleted)
		return
	}
	editReply(s, i, format.DeleteSuccess(key))
}

func (h *Handler) handleDeleteButton(s *discordgo.Session, i *discordgo.InteractionCreate, reminderID string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		slog.Error("failed to acknowledge button", "error", err)
		return
	}

	ctx := context.Background()
	empty := []discordgo.MessageComponent{}

	reminder, err := h.repo.FindByID(ctx, reminderID, false)
	if err != nil {
		slog.Error("failed to look up reminder", "reminderId", reminderID, "error", err)
		editReplyWithComponents(s, i, format.ErrGeneric, empty)
		return
	}
	if reminder == nil {
		editReplyWithComponents(s, i, format.AlreadyDeleted, empty)
		return
	}
	if reminder.Scope == models.ScopeServer && !isAdministrator(i) {
		editReplyWithComponents(s, i, format.AdminRequiredForDelete, empty)
		return
	}

	outcome, err := h.repo.SoftDelete(ctx, reminder.ID)
	if err != nil {
		slog.Error("failed to delete reminder", "reminderId", reminder.ID, "error", err)
		editReplyWithComponents(s, i, format.ErrGeneric, empty)
		return
	}
	if !outcome.Found || outcome.AlreadyDeleted {
		editReplyWithComponents(s, i, format.AlreadyDeleted, empty)
		return
	}
	editReplyWithComponents(s, i, format.DeleteSuccess(reminder.Key), empty)
}

// HandleMessage answers mentions and replies to the bot: a quick first
// reply goes out immediately, then the mention is relayed to n8n for the
// full response.
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State.User == nil || m.Author == nil || m.Author.Bot {
		return
	}

	mentioned := false
	for _, user := range m.Mentions {
		if user.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}
	if !mentioned && m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil {
		mentioned = m.ReferencedMessage.Author.ID == s.State.User.ID
	}
	if !mentioned {
		return
	}

	ctx := context.Background()
	reply := h.ai.FirstReply(ctx, m.Content, nil)
	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		slog.Warn("failed to send first reply", "error", err)
	}

	if h.relay == nil {
		return
	}
	payload := webhook.Payload{
		DiscordUserID:   m.Author.ID,
		DiscordUsername: m.Author.Username,
		ChannelID:       m.ChannelID,
		GuildID:         m.GuildID,
		MessageID:       m.ID,
		Content:         m.Content,
		CreatedAt:       models.FormatTime(time.Now()),
	}
	if err := h.relay.Send(ctx, payload); err != nil {
		slog.Warn("failed to relay mention to webhook", "error", err)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, o := range options {
		m[o.Name] = o
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name, fallback string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return fallback
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func isAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		slog.Error("failed to edit interaction response", "error", err)
	}
}

func editReplyWithComponents(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}); err != nil {
		slog.Error("failed to edit interaction response", "error", err)
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= format.ContentPreviewLength {
		return content
	}
	return string(runes[:format.ContentPreviewLength])
}
