package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ayane2751/fairybot/internal/timezone"
)

type Config struct {
	DiscordToken    string
	SheetID         string
	SheetName       string
	GoogleSAKeyJSON string // base64-encoded service account key
	GoogleSAKeyPath string

	PollInterval    time.Duration
	SendingTimeout  time.Duration
	MaxRetries      int
	MaxRows         int
	DefaultTimezone string
	HeartbeatPath   string

	WebhookURL    string
	WebhookSecret string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SHEET_NAME", "Reminders")
	v.SetDefault("REMINDER_POLL_INTERVAL", "1m")
	v.SetDefault("REMINDER_SENDING_TIMEOUT", "5m")
	v.SetDefault("REMINDER_MAX_RETRIES", 3)
	v.SetDefault("REMINDER_MAX_ROWS", 5000)
	v.SetDefault("DEFAULT_TZ", timezone.DefaultZone)
	v.SetDefault("SCHEDULER_HEARTBEAT_PATH", "/tmp/fairybot-scheduler-heartbeat")
	v.SetDefault("AI_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("AI_MODEL", "openai/gpt-4o-mini")

	cfg := &Config{
		DiscordToken:    v.GetString("DISCORD_BOT_TOKEN"),
		SheetID:         v.GetString("SHEET_ID"),
		SheetName:       v.GetString("SHEET_NAME"),
		GoogleSAKeyJSON: v.GetString("GOOGLE_SA_KEY_JSON"),
		GoogleSAKeyPath: v.GetString("GOOGLE_SA_KEY_PATH"),
		PollInterval:    v.GetDuration("REMINDER_POLL_INTERVAL"),
		SendingTimeout:  v.GetDuration("REMINDER_SENDING_TIMEOUT"),
		MaxRetries:      v.GetInt("REMINDER_MAX_RETRIES"),
		MaxRows:         v.GetInt("REMINDER_MAX_ROWS"),
		DefaultTimezone: v.GetString("DEFAULT_TZ"),
		HeartbeatPath:   v.GetString("SCHEDULER_HEARTBEAT_PATH"),
		WebhookURL:      v.GetString("N8N_WEBHOOK_URL"),
		WebhookSecret:   v.GetString("N8N_WEBHOOK_SECRET"),
		AIAPIKey:        v.GetString("AI_API_KEY"),
		AIBaseURL:       v.GetString("AI_BASE_URL"),
		AIModel:         v.GetString("AI_MODEL"),
	}

	if cfg.DiscordToken == "" {
		if legacy := v.GetString("BOT_TOKEN"); legacy != "" {
			slog.Warn("DISCORD_BOT_TOKEN is not set; using BOT_TOKEN instead")
			cfg.DiscordToken = legacy
		}
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("SHEET_ID is required")
	}
	if cfg.GoogleSAKeyJSON == "" && cfg.GoogleSAKeyPath == "" {
		return nil, fmt.Errorf("GOOGLE_SA_KEY_JSON or GOOGLE_SA_KEY_PATH is required")
	}

	return cfg, nil
}

// Credentials returns the decoded service account key. The key file path
// takes precedence over the inline base64 value.
func (c *Config) Credentials() ([]byte, error) {
	if c.GoogleSAKeyPath != "" {
		data, err := os.ReadFile(c.GoogleSAKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account key: %w", err)
		}
		return data, nil
	}
	data, err := base64.StdEncoding.DecodeString(c.GoogleSAKeyJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GOOGLE_SA_KEY_JSON: %w", err)
	}
	return data, nil
}
