package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cci-ingenieria/lectorqr/internal/log"
)

// Poller reads a Source on a fixed interval and publishes frames.
// Frames are dropped when the consumer falls behind.
type Poller struct {
	src      Source
	interval time.Duration
	frameCh  chan *Frame
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
	seq     uint64
}

// NewPoller creates a poller for src. interval must be positive.
func NewPoller(src Source, interval time.Duration) (*Poller, error) {
	if src == nil {
		return nil, errors.New("nil source")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return &Poller{
		src:      src,
		interval: interval,
		frameCh:  make(chan *Frame, 2),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return fmt.Errorf("already started")
	}
	p.running = true
	go p.loop()
	return nil
}

// Stop halts polling and waits for the loop to exit. The source is not closed.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.stopped = true
	close(p.stopCh)
	p.mu.Unlock()
	<-p.doneCh
}

func (p *Poller) Frames() <-chan *Frame {
	return p.frameCh
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer close(p.doneCh)
	defer close(p.frameCh)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			f, err := p.src.Read()
			if err != nil {
				if !errors.Is(err, ErrNoFrame) {
					log.Debug("read frame", "error", err)
				}
				continue
			}
			p.seq++
			f.Seq = p.seq
			select {
			case p.frameCh <- f:
			default:
			}
		}
	}
}

// Latest drains frames and returns the newest one, or nil if none is waiting.
func Latest(frames <-chan *Frame) *Frame {
	var last *Frame
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return last
			}
			last = f
		default:
			return last
		}
	}
}
