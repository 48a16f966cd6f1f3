package capture

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrCameraUnavailable is returned when the capture device cannot be opened.
	ErrCameraUnavailable = errors.New("camera unavailable")
	// ErrNoFrame is returned when the device produced nothing this read.
	ErrNoFrame = errors.New("no frame")
)

// Frame represents a captured camera frame, already sized for display.
type Frame struct {
	Image     *image.RGBA
	Seq       uint64
	Timestamp time.Time
}

// Source produces frames on demand and holds the device until closed.
type Source interface {
	Read() (*Frame, error)
	Close() error
}
