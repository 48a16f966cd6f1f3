// Package opencv holds the gocv-backed camera and QR detector.
// It is the only package that links against OpenCV.
package opencv

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
)

// Camera implements capture.Source on top of a local capture device.
type Camera struct {
	mu     sync.Mutex
	dev    *gocv.VideoCapture
	size   image.Point
	raw    gocv.Mat
	scaled gocv.Mat
	rgba   gocv.Mat
	closed bool
}

// OpenCamera opens the capture device at index. Frames are resized to width x height.
func OpenCamera(index, width, height int) (*Camera, error) {
	dev, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", capture.ErrCameraUnavailable, index, err)
	}
	if !dev.IsOpened() {
		dev.Close()
		return nil, fmt.Errorf("%w: device %d not opened", capture.ErrCameraUnavailable, index)
	}
	return &Camera{
		dev:    dev,
		size:   image.Pt(width, height),
		raw:    gocv.NewMat(),
		scaled: gocv.NewMat(),
		rgba:   gocv.NewMat(),
	}, nil
}

// Read grabs one frame, resizes it and converts it to RGBA.
func (c *Camera) Read() (*capture.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, capture.ErrCameraUnavailable
	}
	if ok := c.dev.Read(&c.raw); !ok || c.raw.Empty() {
		return nil, capture.ErrNoFrame
	}

	gocv.Resize(c.raw, &c.scaled, c.size, 0, 0, gocv.InterpolationLinear)
	gocv.CvtColor(c.scaled, &c.rgba, gocv.ColorBGRToRGBA)

	// ToBytes copies, so the returned frame does not alias the reused Mat.
	img := &image.RGBA{
		Pix:    c.rgba.ToBytes(),
		Stride: c.size.X * 4,
		Rect:   image.Rect(0, 0, c.size.X, c.size.Y),
	}
	return &capture.Frame{Image: img, Timestamp: time.Now()}, nil
}

// Close releases the device. Safe to call more than once.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.raw.Close()
	c.scaled.Close()
	c.rgba.Close()
	return c.dev.Close()
}
