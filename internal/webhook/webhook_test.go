package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, NewRelay("", "").Enabled())
	assert.True(t, NewRelay("https://n8n.example.com/hook", "s3cret").Enabled())
	assert.True(t, NewRelay("http://localhost:5678/hook", "").Enabled())
	assert.False(t, NewRelay("http://n8n.example.com/hook", "s3cret").Enabled(),
		"a secret must not travel over plain http")
}

func TestSend(t *testing.T) {
	var got Payload
	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Webhook-Secret")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, "")
	err := relay.Send(context.Background(), Payload{
		DiscordUserID: "u-1",
		ChannelID:     "c-1",
		Content:       "@bot 明日の予定おしえて",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.DiscordUserID)
	assert.Equal(t, "@bot 明日の予定おしえて", got.Content)
	assert.Empty(t, gotSecret)
}

func TestSendNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewRelay(srv.URL, "").Send(context.Background(), Payload{})
	assert.ErrorContains(t, err, "403")
}

func TestSendDisabledRelayIsANoOp(t *testing.T) {
	assert.NoError(t, NewRelay("", "").Send(context.Background(), Payload{}))
}
