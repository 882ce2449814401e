// Package idcode renders the scannable identifier images handed to every account.
package idcode

import (
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of rendered codes.
const DefaultSize = 256

// ErrEmptyPayload is returned when there is nothing to encode.
var ErrEmptyPayload = errors.New("identifier payload is empty")

// Encoder renders PNG QR codes.
type Encoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewEncoder builds an encoder producing size x size images with medium error recovery.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{size: size, level: qrcode.Medium}
}

// Encode renders the payload as a PNG.
func (e *Encoder) Encode(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	return qrcode.Encode(payload, e.level, e.size)
}
