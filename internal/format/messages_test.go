package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotification(t *testing.T) {
	got := Notification("植物に水やり")
	assert.Contains(t, got, "リマインダーだよ")
	assert.Contains(t, got, "植物に水やり")
}

func TestCreated(t *testing.T) {
	got := Created("ABCD2345", "<t:1768143600:F>")
	assert.Contains(t, got, "ABCD2345")
	assert.Contains(t, got, "<t:1768143600:F>")
}

func TestDiscordTimestamp(t *testing.T) {
	at := time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "<t:1768143600:F>", DiscordTimestamp(at, "F"))
	assert.Equal(t, "<t:1768143600:R>", DiscordTimestamp(at, "R"))
}
