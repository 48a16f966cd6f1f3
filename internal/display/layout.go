package display

import "math"

// Logical screen size; ebiten scales it to the window.
const (
	layoutWidth  = 480
	layoutHeight = 600
)

const (
	instructionText = "Acerque el QR al recuadro"
	backText        = "Regresar"
)

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(px, py int) bool {
	x, y := float64(px), float64(py)
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) centerX() float64 { return r.x + r.w/2 }
func (r rect) centerY() float64 { return r.y + r.h/2 }

var (
	instructionY = 45.0
	videoPanel   = rect{x: 40, y: 80, w: 400, h: 300}
	statusY      = 420.0
	locationY    = 460.0
	backButton   = rect{x: 170, y: 510, w: 140, h: 44}
)

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
