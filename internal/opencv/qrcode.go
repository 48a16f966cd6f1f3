package opencv

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// QRDetector implements qr.Decoder using OpenCV's QRCodeDetector.
type QRDetector struct {
	mu       sync.Mutex // detector is not safe for concurrent use
	detector gocv.QRCodeDetector
}

func NewQRDetector() *QRDetector {
	return &QRDetector{detector: gocv.NewQRCodeDetector()}
}

// Decode returns the QR payload in img, or "" if none was found.
func (d *QRDetector) Decode(img image.Image) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return "", fmt.Errorf("convert image: %w", err)
	}
	defer src.Close()

	if src.Empty() {
		return "", fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	points := gocv.NewMat()
	defer points.Close()
	straight := gocv.NewMat()
	defer straight.Close()

	return d.detector.DetectAndDecode(gray, &points, &straight), nil
}

// Close releases the detector resources.
func (d *QRDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector.Close()
}
