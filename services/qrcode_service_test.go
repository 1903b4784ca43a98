// file: services/qrcode_service_test.go
package services_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugsy/ctfhub/services"
)

func TestGenerateQRCode(t *testing.T) {
	data, err := services.GenerateQRCode("https://ctftime.org/event/1234", 128)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

// A non-positive size falls back to the default instead of failing.
func TestGenerateQRCode_DefaultSize(t *testing.T) {
	data, err := services.GenerateQRCode("https://ctftime.org", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestGenerateQRCode_EmptyContent(t *testing.T) {
	_, err := services.GenerateQRCode("", 128)
	assert.Error(t, err)
}
