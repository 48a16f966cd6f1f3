// Package qr turns QR payloads from the entrance badges into plate numbers.
package qr

import (
	"image"
	"strings"
)

// Marker identifies the payload line carrying the plate.
const Marker = "Placa:"

// Decoder finds and decodes a QR code in an image.
// An empty payload with a nil error means no code was found.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// ParsePlate returns the plate from the first line containing Marker.
// The plate is the text after the first ": ", trimmed, case preserved.
func ParsePlate(payload string) (string, bool) {
	for _, line := range strings.Split(payload, "\n") {
		if !strings.Contains(line, Marker) {
			continue
		}
		_, after, ok := strings.Cut(line, ": ")
		if !ok {
			return "", false
		}
		plate := strings.TrimSpace(after)
		if plate == "" {
			return "", false
		}
		return plate, true
	}
	return "", false
}
