package display

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/log"
	"github.com/cci-ingenieria/lectorqr/internal/scanner"
)

// Options configures the kiosk window.
type Options struct {
	Title           string
	MessageDuration time.Duration
	PollInterval    time.Duration // one UI tick per poll
	OnBack          BackFunc
	Done            <-chan struct{} // closes the window without running OnBack
	Now             func() time.Time
}

// EbitenDisplay owns the kiosk window and every piece of visual state.
// All fields are touched only from the ebiten loop.
type EbitenDisplay struct {
	title string
	tps   int
	feed  FrameFeed
	scan  ScanSink
	state *scanner.State

	onBack BackFunc
	left   bool
	done   <-chan struct{}
	now    func() time.Time

	frame      *image.RGBA
	frameDirty bool
	video      *ebiten.Image
	fonts      *text.GoTextFaceSource
}

// NewEbitenDisplay creates the window controller. feed may be nil when the
// camera is unavailable; the video panel then stays blank.
func NewEbitenDisplay(feed FrameFeed, scan ScanSink, opts Options) (*EbitenDisplay, error) {
	if scan == nil {
		return nil, fmt.Errorf("display needs a scan sink")
	}
	if opts.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", opts.PollInterval)
	}
	fonts, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tps := int(time.Second / opts.PollInterval)
	if tps < 1 {
		tps = 1
	}
	return &EbitenDisplay{
		title:  opts.Title,
		tps:    tps,
		feed:   feed,
		scan:   scan,
		state:  scanner.NewState(opts.MessageDuration),
		onBack: opts.OnBack,
		done:   opts.Done,
		now:    now,
		fonts:  fonts,
	}, nil
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(layoutWidth, layoutHeight)
	ebiten.SetWindowSizeLimits(layoutWidth, layoutHeight, -1, -1)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(d.tps)
	return ebiten.RunGame(d)
}

// State exposes the label state, for tests and diagnostics.
func (d *EbitenDisplay) State() *scanner.State {
	return d.state
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	select {
	case <-d.done:
		return ebiten.Termination
	default:
	}
	if d.backRequested() {
		d.back()
		return ebiten.Termination
	}
	d.step(d.now())
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	d.drawLabel(screen, instructionText, 20, layoutWidth/2, instructionY, textColor)
	d.drawVideo(screen)
	d.drawLabel(screen, d.state.Status, 18, layoutWidth/2, statusY, toneColor(d.state.Tone))
	if d.state.Location != "" {
		d.drawLabel(screen, d.state.Location, 18, layoutWidth/2, locationY, blue)
	}
	d.drawButton(screen)
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return layoutWidth, layoutHeight
}

// step advances the non-input part of a tick: newest frame to screen and
// decoder, scanner updates into the labels, then the reset deadline.
func (d *EbitenDisplay) step(now time.Time) {
	if d.feed != nil {
		if f := capture.Latest(d.feed.Frames()); f != nil {
			d.frame = f.Image
			d.frameDirty = true
			d.scan.Submit(f)
		}
	}

drain:
	for {
		select {
		case u := <-d.scan.Updates():
			if d.state.Apply(u, now) {
				log.Debug("status", "seq", u.Seq, "text", u.Status, "tone", u.Tone)
			}
		default:
			break drain
		}
	}

	if d.state.Tick(now) {
		log.Debug("status reset")
	}
}

func (d *EbitenDisplay) backRequested() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return backButton.contains(x, y)
	}
	return false
}

func (d *EbitenDisplay) back() {
	if d.left {
		return
	}
	d.left = true
	if d.onBack != nil {
		d.onBack()
	}
}

// --- drawing ---

func (d *EbitenDisplay) drawVideo(screen *ebiten.Image) {
	p := videoPanel
	vector.DrawFilledRect(screen, float32(p.x), float32(p.y), float32(p.w), float32(p.h), panelColor, false)

	if d.frame != nil {
		b := d.frame.Bounds()
		if d.video == nil || d.video.Bounds().Dx() != b.Dx() || d.video.Bounds().Dy() != b.Dy() {
			d.video = ebiten.NewImage(b.Dx(), b.Dy())
			d.frameDirty = true
		}
		if d.frameDirty {
			d.video.WritePixels(d.frame.Pix)
			d.frameDirty = false
		}

		scale, offsetX, offsetY := aspectFitTransform(p.w, p.h, float64(b.Dx()), float64(b.Dy()))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(p.x+offsetX, p.y+offsetY)
		screen.DrawImage(d.video, op)
	}

	vector.StrokeRect(screen, float32(p.x), float32(p.y), float32(p.w), float32(p.h), 2, borderColor, false)
}

func (d *EbitenDisplay) drawButton(screen *ebiten.Image) {
	b := backButton
	fill := buttonColor
	if x, y := ebiten.CursorPosition(); b.contains(x, y) {
		fill = buttonHover
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), fill, true)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1, borderColor, true)
	d.drawLabel(screen, backText, 18, b.centerX(), b.centerY(), textColor)
}

// drawLabel draws s centred on (x, y).
func (d *EbitenDisplay) drawLabel(screen *ebiten.Image, s string, size, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, s, &text.GoTextFace{Source: d.fonts, Size: size}, op)
}
