// file: services/sanitize_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hugsy/ctfhub/services"
)

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "plain text", services.SanitizeDescription("plain text"))
	assert.Equal(t, "<b>bold</b>", services.SanitizeDescription("<b>bold</b>"))
	assert.NotContains(t, services.SanitizeDescription(`<script>alert(1)</script>hi`), "<script>")
	assert.NotContains(t, services.SanitizeDescription(`<img src=x onerror=alert(1)>`), "onerror")
}
