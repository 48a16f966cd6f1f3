package scanner

import (
	"testing"
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

var t0 = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func TestNewStateIsIdle(t *testing.T) {
	s := NewState(3 * time.Second)
	if s.Status != IdleText || s.Tone != ToneNegative || s.Location != "" {
		t.Errorf("initial state = %+v", s)
	}
	if s.Showing() {
		t.Error("idle state should not be showing")
	}
	if s.Tick(t0.Add(time.Hour)) {
		t.Error("idle state should not reset")
	}
}

func TestResultUpdate(t *testing.T) {
	tests := []struct {
		name   string
		result validation.Result
		want   Update
	}{
		{
			name:   "allowed with location",
			result: validation.Result{Allowed: true, Message: "OK", Location: "A1"},
			want:   Update{Seq: 7, Status: "OK", Tone: TonePositive, Location: "Puesto asignado: A1", Terminal: true},
		},
		{
			name:   "allowed without location",
			result: validation.Result{Allowed: true, Message: "OK"},
			want:   Update{Seq: 7, Status: "OK", Tone: TonePositive, Terminal: true},
		},
		{
			name:   "denied drops location",
			result: validation.Result{Allowed: false, Message: "Denied", Location: "A1"},
			want:   Update{Seq: 7, Status: "Denied", Tone: ToneNegative, Terminal: true},
		},
		{
			name:   "failure",
			result: validation.Failure(),
			want:   Update{Seq: 7, Status: "Error al validar placa", Tone: ToneNegative, Terminal: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultUpdate(7, tt.result); got != tt.want {
				t.Errorf("ResultUpdate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStateResetsAfterDuration(t *testing.T) {
	s := NewState(3 * time.Second)

	s.Apply(DetectedUpdate(1), t0)
	if s.Status != DetectedText || s.Tone != ToneInfo {
		t.Fatalf("after detect: %+v", s)
	}
	if s.Showing() {
		t.Error("non-terminal update must not schedule a reset")
	}

	done := t0.Add(500 * time.Millisecond)
	s.Apply(ResultUpdate(1, validation.Result{Allowed: true, Message: "OK", Location: "A1"}), done)
	if s.Status != "OK" || s.Tone != TonePositive || s.Location != "Puesto asignado: A1" {
		t.Fatalf("after result: %+v", s)
	}
	if got := s.ResetAt(); !got.Equal(done.Add(3 * time.Second)) {
		t.Errorf("ResetAt = %s, want %s", got, done.Add(3*time.Second))
	}

	if s.Tick(done.Add(3*time.Second - time.Millisecond)) {
		t.Error("reset fired early")
	}
	if s.Status != "OK" {
		t.Error("status changed before deadline")
	}
	if !s.Tick(done.Add(3 * time.Second)) {
		t.Error("reset did not fire at deadline")
	}
	if s.Status != IdleText || s.Tone != ToneNegative || s.Location != "" {
		t.Errorf("after reset: %+v", s)
	}
	if s.Tick(done.Add(4 * time.Second)) {
		t.Error("reset fired twice")
	}
}

func TestStateNewScanSupersedesReset(t *testing.T) {
	s := NewState(3 * time.Second)

	s.Apply(PlateNotFoundUpdate(1), t0)
	if s.Status != PlateNotFoundText || !s.Showing() {
		t.Fatalf("after plate not found: %+v", s)
	}

	// A second scan two seconds later cancels the pending reset.
	s.Apply(DetectedUpdate(2), t0.Add(2*time.Second))
	if s.Tick(t0.Add(3 * time.Second)) {
		t.Error("superseded reset still fired")
	}
	if s.Status != DetectedText {
		t.Errorf("status = %q, want %q", s.Status, DetectedText)
	}

	s.Apply(ResultUpdate(2, validation.Result{Message: "Denied"}), t0.Add(4*time.Second))
	if s.Tick(t0.Add(6 * time.Second)) {
		t.Error("reset fired before its own deadline")
	}
	if !s.Tick(t0.Add(7 * time.Second)) {
		t.Error("reset did not fire")
	}
}

func TestStateIgnoresStaleResults(t *testing.T) {
	s := NewState(3 * time.Second)

	s.Apply(DetectedUpdate(1), t0)
	s.Apply(DetectedUpdate(2), t0.Add(6*time.Second))
	if s.Apply(ResultUpdate(1, validation.Result{Allowed: true, Message: "late"}), t0.Add(6500*time.Millisecond)) {
		t.Error("stale result applied")
	}
	if s.Status != DetectedText {
		t.Errorf("status = %q, want %q", s.Status, DetectedText)
	}
	if !s.Apply(ResultUpdate(2, validation.Result{Message: "Denied"}), t0.Add(7*time.Second)) {
		t.Error("current result rejected")
	}
}

func TestToneString(t *testing.T) {
	if ToneNegative.String() != "negative" || TonePositive.String() != "positive" || ToneInfo.String() != "info" {
		t.Error("unexpected tone names")
	}
}
