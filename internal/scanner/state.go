package scanner

import (
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

// Tone is the colour class of the status label.
type Tone int

const (
	ToneNegative Tone = iota
	TonePositive
	ToneInfo
)

func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "positive"
	case ToneInfo:
		return "info"
	default:
		return "negative"
	}
}

// Texts shown on the status and location labels.
const (
	IdleText          = "No detecta"
	DetectedText      = "QR Detectado"
	PlateNotFoundText = "Placa no encontrada en QR"
	LocationPrefix    = "Puesto asignado: "
)

// Update is a change to the on-screen status, tagged with the scan that caused it.
// Terminal updates schedule a reset back to idle.
type Update struct {
	Seq      uint64
	Status   string
	Tone     Tone
	Location string
	Terminal bool
}

// DetectedUpdate is shown as soon as a scan is accepted.
func DetectedUpdate(seq uint64) Update {
	return Update{Seq: seq, Status: DetectedText, Tone: ToneInfo}
}

// PlateNotFoundUpdate is shown when the QR has no plate line.
func PlateNotFoundUpdate(seq uint64) Update {
	return Update{Seq: seq, Status: PlateNotFoundText, Tone: ToneNegative, Terminal: true}
}

// ResultUpdate maps a validation result onto the labels.
func ResultUpdate(seq uint64, r validation.Result) Update {
	u := Update{Seq: seq, Status: r.Message, Tone: ToneNegative, Terminal: true}
	if r.Allowed {
		u.Tone = TonePositive
		if r.Location != "" {
			u.Location = LocationPrefix + r.Location
		}
	}
	return u
}

// State is the UI-owned label state. It is not safe for concurrent use;
// the display goroutine is its only writer.
type State struct {
	Status   string
	Tone     Tone
	Location string

	duration time.Duration
	seq      uint64
	resetAt  time.Time
}

// NewState returns an idle state whose results stay visible for duration.
func NewState(duration time.Duration) *State {
	s := &State{duration: duration}
	s.reset()
	return s
}

// Apply shows u unless a newer scan is already on screen. It reports whether
// the labels changed.
func (s *State) Apply(u Update, now time.Time) bool {
	if u.Seq < s.seq {
		return false
	}
	s.seq = u.Seq
	s.Status = u.Status
	s.Tone = u.Tone
	s.Location = u.Location
	if u.Terminal {
		s.resetAt = now.Add(s.duration)
	} else {
		s.resetAt = time.Time{}
	}
	return true
}

// Tick resets to idle once the pending deadline has passed. It reports
// whether a reset happened.
func (s *State) Tick(now time.Time) bool {
	if s.resetAt.IsZero() || now.Before(s.resetAt) {
		return false
	}
	s.reset()
	return true
}

// Showing reports whether a result is on screen waiting for its reset.
func (s *State) Showing() bool {
	return !s.resetAt.IsZero()
}

// ResetAt returns the pending reset deadline, zero if none.
func (s *State) ResetAt() time.Time {
	return s.resetAt
}

func (s *State) reset() {
	s.Status = IdleText
	s.Tone = ToneNegative
	s.Location = ""
	s.resetAt = time.Time{}
}
