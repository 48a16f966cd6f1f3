package notify

import (
	"bytes"
	"image"
	"image/jpeg"
)

// snapshotEncoder turns scan frames into JPEG thumbnails.
type snapshotEncoder struct {
	quality int
}

func newSnapshotEncoder(quality int) *snapshotEncoder {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return &snapshotEncoder{quality: quality}
}

func (e *snapshotEncoder) Encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(32 * 1024) // a 400x300 frame fits comfortably
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
