// File: services/collab_service.go
package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/hugsy/ctfhub/models"
)

// Excalidraw rooms are addressed by a 20-char hex id and a 22-char
// url-safe key, generated client-side.
const (
	excalidrawRoomIDCharset  = "0123456789abcdef"
	excalidrawRoomIDLength   = 20
	excalidrawRoomKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	excalidrawRoomKeyLength  = 22
)

// CollabService assembles the URLs pointing at the external note-taking,
// whiteboard and conferencing services. The services themselves are
// opaque: only ids and URL templates are handled here.
type CollabService struct {
	HedgeDocURL   string
	ExcalidrawURL string
	JitsiURL      string
}

func NewCollabService(hedgedocURL, excalidrawURL, jitsiURL string) *CollabService {
	return &CollabService{
		HedgeDocURL:   strings.TrimRight(hedgedocURL, "/"),
		ExcalidrawURL: strings.TrimRight(excalidrawURL, "/"),
		JitsiURL:      strings.TrimRight(jitsiURL, "/"),
	}
}

// NoteURL builds the browser URL for a note. The note itself is created
// by the note-taking service on first access.
func (s *CollabService) NoteURL(noteID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", s.HedgeDocURL, noteID)
}

// ChallengeExcalidrawURL builds the shared whiteboard URL for a
// challenge from its stored room id and key.
func (s *CollabService) ChallengeExcalidrawURL(ch *models.Challenge) string {
	return fmt.Sprintf("%s/#room=%s,%s", s.ExcalidrawURL, ch.ExcalidrawRoomID, ch.ExcalidrawRoomKey)
}

// CtfJitsiURL builds the voice room URL for a CTF.
func (s *CollabService) CtfJitsiURL(ctf *models.Ctf) string {
	return fmt.Sprintf("%s/%s", s.JitsiURL, ctf.ID)
}

// ChallengeJitsiURL builds a per-challenge voice room URL.
func (s *CollabService) ChallengeJitsiURL(ch *models.Challenge) string {
	return fmt.Sprintf("%s/%s--%s", s.JitsiURL, ch.CtfID, ch.ID)
}

// NewExcalidrawRoomID generates a random whiteboard room id.
func NewExcalidrawRoomID() string {
	return randomString(excalidrawRoomIDCharset, excalidrawRoomIDLength)
}

// NewExcalidrawRoomKey generates a random whiteboard room key.
func NewExcalidrawRoomKey() string {
	return randomString(excalidrawRoomKeyCharset, excalidrawRoomKeyLength)
}

// NewAPIKey generates the random key gating member registration.
func NewAPIKey() string {
	return randomString(excalidrawRoomKeyCharset, 64)
}

func randomString(charset string, length int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(charset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; nothing sensible to degrade to.
			panic(err)
		}
		sb.WriteByte(charset[n.Int64()])
	}
	return sb.String()
}
