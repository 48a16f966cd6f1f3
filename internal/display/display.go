package display

import (
	"image/color"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/scanner"
)

// FrameFeed provides camera frames to the display.
type FrameFeed interface {
	Frames() <-chan *capture.Frame
}

// ScanSink decodes frames off the UI loop and reports label updates.
type ScanSink interface {
	Submit(f *capture.Frame)
	Updates() <-chan scanner.Update
}

// BackFunc runs once when the operator leaves the window.
type BackFunc func()

var (
	background  = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	panelColor  = color.RGBA{0x20, 0x20, 0x20, 0xff}
	borderColor = color.RGBA{0x60, 0x60, 0x60, 0xff}
	textColor   = color.RGBA{0x10, 0x10, 0x10, 0xff}
	red         = color.RGBA{0xd0, 0x1c, 0x1c, 0xff}
	green       = color.RGBA{0x10, 0x90, 0x30, 0xff}
	blue        = color.RGBA{0x1c, 0x3c, 0xd0, 0xff}
	buttonColor = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	buttonHover = color.RGBA{0xc4, 0xc4, 0xc4, 0xff}
)

// toneColor maps a status tone to its label colour.
func toneColor(t scanner.Tone) color.RGBA {
	switch t {
	case scanner.TonePositive:
		return green
	case scanner.ToneInfo:
		return blue
	default:
		return red
	}
}
