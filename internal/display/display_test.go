package display

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/scanner"
	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

type fakeFeed struct {
	ch chan *capture.Frame
}

func (f *fakeFeed) Frames() <-chan *capture.Frame { return f.ch }

type fakeSink struct {
	submitted []*capture.Frame
	updates   chan scanner.Update
}

func (s *fakeSink) Submit(f *capture.Frame) { s.submitted = append(s.submitted, f) }
func (s *fakeSink) Updates() <-chan scanner.Update { return s.updates }

var t0 = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newTestDisplay(t *testing.T, feed FrameFeed) (*EbitenDisplay, *fakeSink) {
	t.Helper()
	sink := &fakeSink{updates: make(chan scanner.Update, 8)}
	d, err := NewEbitenDisplay(feed, sink, Options{
		Title:           "test",
		MessageDuration: 3 * time.Second,
		PollInterval:    10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewEbitenDisplay: %v", err)
	}
	return d, sink
}

func TestNewEbitenDisplayValidation(t *testing.T) {
	if _, err := NewEbitenDisplay(nil, nil, Options{PollInterval: time.Millisecond}); err == nil {
		t.Error("expected error for nil sink")
	}
	sink := &fakeSink{updates: make(chan scanner.Update)}
	if _, err := NewEbitenDisplay(nil, sink, Options{}); err == nil {
		t.Error("expected error for zero poll interval")
	}
}

func TestTicksFollowPollInterval(t *testing.T) {
	d, _ := newTestDisplay(t, nil)
	if d.tps != 100 {
		t.Errorf("tps = %d, want 100", d.tps)
	}
}

func TestStepForwardsNewestFrame(t *testing.T) {
	feed := &fakeFeed{ch: make(chan *capture.Frame, 2)}
	d, sink := newTestDisplay(t, feed)

	older := &capture.Frame{Seq: 1, Image: image.NewRGBA(image.Rect(0, 0, 4, 3))}
	newer := &capture.Frame{Seq: 2, Image: image.NewRGBA(image.Rect(0, 0, 4, 3))}
	feed.ch <- older
	feed.ch <- newer

	d.step(t0)
	if len(sink.submitted) != 1 || sink.submitted[0] != newer {
		t.Fatalf("submitted = %v, want only the newest frame", sink.submitted)
	}
	if d.frame != newer.Image || !d.frameDirty {
		t.Error("newest frame should be pending upload")
	}

	d.step(t0.Add(10 * time.Millisecond))
	if len(sink.submitted) != 1 {
		t.Error("no new frame, nothing should be submitted")
	}
}

func TestStepWithoutCamera(t *testing.T) {
	d, sink := newTestDisplay(t, nil)
	d.step(t0)
	if len(sink.submitted) != 0 || d.frame != nil {
		t.Error("no feed should leave the panel blank")
	}
	if d.State().Status != scanner.IdleText {
		t.Errorf("status = %q", d.State().Status)
	}
}

func TestStepAppliesUpdatesAndResets(t *testing.T) {
	d, sink := newTestDisplay(t, nil)

	sink.updates <- scanner.DetectedUpdate(1)
	sink.updates <- scanner.ResultUpdate(1, validation.Result{Allowed: true, Message: "OK", Location: "A1"})
	d.step(t0)

	st := d.State()
	if st.Status != "OK" || st.Tone != scanner.TonePositive || st.Location != "Puesto asignado: A1" {
		t.Fatalf("state = %+v", st)
	}
	if c := toneColor(st.Tone); c != green {
		t.Errorf("colour = %v, want green", c)
	}

	d.step(t0.Add(2999 * time.Millisecond))
	if st.Status != "OK" {
		t.Error("reset before message duration")
	}

	d.step(t0.Add(3 * time.Second))
	if st.Status != scanner.IdleText || st.Location != "" || toneColor(st.Tone) != red {
		t.Errorf("after reset: %+v", st)
	}
}

func TestBackRunsOnce(t *testing.T) {
	calls := 0
	sink := &fakeSink{updates: make(chan scanner.Update)}
	d, err := NewEbitenDisplay(nil, sink, Options{
		PollInterval: 10 * time.Millisecond,
		OnBack:       func() { calls++ },
	})
	if err != nil {
		t.Fatalf("NewEbitenDisplay: %v", err)
	}
	d.back()
	d.back()
	if calls != 1 {
		t.Errorf("OnBack called %d times, want 1", calls)
	}
}

func TestBackButtonHitTest(t *testing.T) {
	tests := []struct {
		x, y int
		want bool
	}{
		{240, 530, true},
		{170, 510, true},
		{310, 554, false},
		{169, 530, false},
		{240, 200, false},
	}
	for _, tt := range tests {
		if got := backButton.contains(tt.x, tt.y); got != tt.want {
			t.Errorf("contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestAspectFitTransform(t *testing.T) {
	scale, ox, oy := aspectFitTransform(400, 300, 400, 300)
	if scale != 1 || ox != 0 || oy != 0 {
		t.Errorf("identity fit = (%v, %v, %v)", scale, ox, oy)
	}

	// 640x360 into 400x300: width bound, letterboxed vertically.
	scale, ox, oy = aspectFitTransform(400, 300, 640, 360)
	if math.Abs(scale-0.625) > 1e-9 || ox != 0 || math.Abs(oy-37.5) > 1e-9 {
		t.Errorf("wide fit = (%v, %v, %v)", scale, ox, oy)
	}
}

func TestToneColors(t *testing.T) {
	if toneColor(scanner.ToneNegative) != red || toneColor(scanner.TonePositive) != green || toneColor(scanner.ToneInfo) != blue {
		t.Error("unexpected tone colours")
	}
}
