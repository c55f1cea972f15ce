// services/qrcode_service.go
package services

import (
	"errors"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// DefaultQRCodeSize is the PNG edge length in pixels.
const DefaultQRCodeSize = 256

// MatchURL is the public scoreboard address of a match.
func MatchURL(applicationURL, matchID string) string {
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}
	return strings.TrimRight(applicationURL, "/") + "/match/" + matchID
}

// GenerateQRCode encodes content as a size x size PNG.
func GenerateQRCode(content string, size int, encode QRCodeEncoder) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr code content is empty")
	}
	if size <= 0 {
		return nil, errors.New("invalid size: must be positive")
	}
	if encode == nil {
		encode = qrcode.Encode
	}
	return encode(content, qrcode.Medium, size)
}
