// file: services/notify_service_test.go
package services_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugsy/ctfhub/models"
	"github.com/hugsy/ctfhub/services"
)

func TestNotifySendsWebhookPayload(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := services.NewNotifyService(server.URL, time.Second)
	require.True(t, notifier.Enabled())

	notifier.NotifyCtfCreated(&models.Ctf{Name: "SomeCTF"})
	assert.Equal(t, "New CTF added: **SomeCTF**", got["content"])
	assert.NotEmpty(t, got["username"])

	notifier.NotifyChallengeSolved(
		&models.Challenge{Name: "notes", Points: 100},
		&models.Member{Username: "alice"},
	)
	assert.Equal(t, "**alice** solved **notes** (100 pts)", got["content"])
}

// Without a configured webhook delivery is silently disabled.
func TestNotifyDisabledWithoutWebhook(t *testing.T) {
	notifier := services.NewNotifyService("", time.Second)
	assert.False(t, notifier.Enabled())
	assert.False(t, notifier.Send("anything"))
}

// Delivery failures never propagate to the caller.
func TestNotifySwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	notifier := services.NewNotifyService(server.URL, time.Second)
	assert.False(t, notifier.Send("rate limited"))

	notifier = services.NewNotifyService("http://127.0.0.1:1", 200*time.Millisecond)
	assert.False(t, notifier.Send("unreachable"))
}
