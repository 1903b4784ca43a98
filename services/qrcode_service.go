// File: services/qrcode_service.go
package services

import (
	"github.com/skip2/go-qrcode"
)

// GenerateQRCode renders the given URL as a PNG QR code of the requested
// pixel size. Used to hand a CTF page or team invite over to a phone.
func GenerateQRCode(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
