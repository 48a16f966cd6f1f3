// Package scanner runs the scan cycle: decode frames off the UI loop, gate
// them through the cooldown, validate plates and report label updates back
// to the display over a channel.
package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/log"
	"github.com/cci-ingenieria/lectorqr/internal/qr"
	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

// Validator decides whether a plate may enter.
type Validator interface {
	Validate(ctx context.Context, plate string) validation.Result
}

// Publisher receives accepted scans and their results. Implementations
// must not block.
type Publisher interface {
	PublishScan(ev ScanEvent, frame *capture.Frame)
	PublishResult(ev ScanEvent, r validation.Result)
}

// ScanEvent is an accepted QR read.
type ScanEvent struct {
	ID      uuid.UUID
	Seq     uint64
	Plate   string // empty when the payload had no plate line
	Payload string
	At      time.Time
}

// Stats are running counters for the scan cycle.
type Stats struct {
	Submitted uint64
	Dropped   uint64
	Accepted  uint64
	Throttled uint64
}

// Options configures a Scanner.
type Options struct {
	Cooldown  time.Duration
	Publisher Publisher
	Now       func() time.Time
}

// Scanner owns the decode worker and the cooldown gate.
type Scanner struct {
	decoder   qr.Decoder
	validator Validator
	pub       Publisher
	limiter   *rate.Limiter
	now       func() time.Time

	mailbox chan *capture.Frame
	updates chan Update
	wg      sync.WaitGroup
	seq     atomic.Uint64

	submitted atomic.Uint64
	dropped   atomic.Uint64
	accepted  atomic.Uint64
	throttled atomic.Uint64
}

// New creates a Scanner. Cooldown must be positive.
func New(dec qr.Decoder, v Validator, opts Options) (*Scanner, error) {
	if dec == nil || v == nil {
		return nil, errors.New("scanner needs a decoder and a validator")
	}
	if opts.Cooldown <= 0 {
		return nil, errors.New("cooldown must be positive")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		decoder:   dec,
		validator: v,
		pub:       opts.Publisher,
		limiter:   rate.NewLimiter(rate.Every(opts.Cooldown), 1),
		now:       now,
		mailbox:   make(chan *capture.Frame, 1),
		updates:   make(chan Update, 16),
	}, nil
}

// Updates delivers label changes; the display drains it every tick.
func (s *Scanner) Updates() <-chan Update {
	return s.updates
}

// Submit hands a frame to the decode worker without blocking. A frame still
// waiting in the mailbox is replaced. Call from a single goroutine.
func (s *Scanner) Submit(f *capture.Frame) {
	if f == nil {
		return
	}
	s.submitted.Add(1)
	select {
	case s.mailbox <- f:
		return
	default:
	}
	select {
	case <-s.mailbox:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.mailbox <- f:
	default:
		s.dropped.Add(1)
	}
}

// Run is the decode worker. It returns when ctx is done, after in-flight
// validations have finished.
func (s *Scanner) Run(ctx context.Context) error {
	defer s.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-s.mailbox:
			s.process(ctx, f)
		}
	}
}

// Stats returns a snapshot of the counters.
func (s *Scanner) Stats() Stats {
	return Stats{
		Submitted: s.submitted.Load(),
		Dropped:   s.dropped.Load(),
		Accepted:  s.accepted.Load(),
		Throttled: s.throttled.Load(),
	}
}

func (s *Scanner) process(ctx context.Context, f *capture.Frame) {
	payload, err := s.decoder.Decode(f.Image)
	if err != nil {
		log.Debug("decode frame", "seq", f.Seq, "error", err)
		return
	}
	if payload == "" {
		return
	}

	now := s.now()
	if !s.limiter.AllowN(now, 1) {
		s.throttled.Add(1)
		return
	}
	s.accepted.Add(1)

	ev := ScanEvent{
		ID:      uuid.New(),
		Seq:     s.seq.Add(1),
		Payload: payload,
		At:      now,
	}
	s.emit(ctx, DetectedUpdate(ev.Seq))

	plate, ok := qr.ParsePlate(payload)
	ev.Plate = plate
	if s.pub != nil {
		s.pub.PublishScan(ev, f)
	}
	if !ok {
		log.Info("plate not found in QR", "scan", ev.ID)
		s.emit(ctx, PlateNotFoundUpdate(ev.Seq))
		return
	}

	log.Info("QR detected", "scan", ev.ID, "plate", plate)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := s.validator.Validate(ctx, plate)
		s.emit(ctx, ResultUpdate(ev.Seq, r))
		if s.pub != nil {
			s.pub.PublishResult(ev, r)
		}
	}()
}

func (s *Scanner) emit(ctx context.Context, u Update) {
	select {
	case s.updates <- u:
	case <-ctx.Done():
	}
}
