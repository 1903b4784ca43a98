// File: services/notify_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hugsy/ctfhub/logger"
	"github.com/hugsy/ctfhub/models"
)

// NotifyService pushes team notifications to a Discord channel webhook.
// Delivery is best effort: a failure is logged and swallowed, never
// surfaced to the request that triggered it.
type NotifyService struct {
	webhookURL string
	botName    string
	client     *http.Client
}

func NewNotifyService(webhookURL string, timeout time.Duration) *NotifyService {
	return &NotifyService{
		webhookURL: webhookURL,
		botName:    "SpiderBot",
		client:     &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a webhook is configured at all.
func (s *NotifyService) Enabled() bool {
	return s.webhookURL != ""
}

// Send posts a plain message to the configured channel.
func (s *NotifyService) Send(content string) bool {
	if !s.Enabled() {
		return false
	}

	payload, err := json.Marshal(map[string]string{
		"username": s.botName,
		"content":  content,
	})
	if err != nil {
		return false
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		logger.Warn.Printf("Send: discord webhook unreachable: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		logger.Warn.Printf("Send: discord webhook returned HTTP %d", resp.StatusCode)
		return false
	}
	return true
}

// NotifyCtfCreated announces a newly created or imported CTF.
func (s *NotifyService) NotifyCtfCreated(ctf *models.Ctf) {
	s.Send(fmt.Sprintf("New CTF added: **%s**", ctf.Name))
}

// NotifyChallengeSolved announces a solve.
func (s *NotifyService) NotifyChallengeSolved(ch *models.Challenge, solver *models.Member) {
	s.Send(fmt.Sprintf("**%s** solved **%s** (%d pts)", solver.Username, ch.Name, ch.Points))
}
