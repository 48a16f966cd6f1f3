// Package notify streams scan activity to an optional monitoring station
// over a WebSocket.
package notify

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cci-ingenieria/lectorqr/internal/capture"
	"github.com/cci-ingenieria/lectorqr/internal/log"
	"github.com/cci-ingenieria/lectorqr/internal/scanner"
	"github.com/cci-ingenieria/lectorqr/internal/validation"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 5 * time.Second
	queueSize    = 32
)

type outgoing struct {
	msg   Message
	frame *image.RGBA
}

// Client is a WebSocket publisher. It implements scanner.Publisher.
type Client struct {
	url     string
	kioskID string
	enc     *snapshotEncoder

	conn   *websocket.Conn
	queue  chan outgoing
	mu     sync.Mutex
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

var _ scanner.Publisher = (*Client)(nil)

// NewClient creates a publisher for url. Snapshots are encoded at quality.
func NewClient(url, kioskID string, quality int) *Client {
	return &Client{
		url:     url,
		kioskID: kioskID,
		enc:     newSnapshotEncoder(quality),
		queue:   make(chan outgoing, queueSize),
		done:    make(chan struct{}),
	}
}

// Connect dials the monitor, registers the kiosk and starts the I/O loops.
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("monitor dial: %w", err)
	}
	c.conn = conn

	err = c.send(Message{
		Type:      TypeRegister,
		KioskID:   c.kioskID,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("monitor register: %w", err)
	}

	c.wg.Add(3)
	go c.readLoop()
	go c.writeLoop()
	go c.pingLoop()
	return nil
}

// Close shuts down the connection and waits for the loops to exit.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// PublishScan queues an accepted scan with a snapshot of its frame.
func (c *Client) PublishScan(ev scanner.ScanEvent, frame *capture.Frame) {
	out := outgoing{msg: Message{
		Type:      TypeScan,
		KioskID:   c.kioskID,
		ScanID:    ev.ID.String(),
		Seq:       ev.Seq,
		Plate:     ev.Plate,
		Timestamp: ev.At.UnixMilli(),
	}}
	if frame != nil {
		out.frame = frame.Image
	}
	c.enqueue(out)
}

// PublishResult queues the validation outcome of a scan.
func (c *Client) PublishResult(ev scanner.ScanEvent, r validation.Result) {
	allowed := r.Allowed
	c.enqueue(outgoing{msg: Message{
		Type:      TypeResult,
		KioskID:   c.kioskID,
		ScanID:    ev.ID.String(),
		Seq:       ev.Seq,
		Plate:     ev.Plate,
		Allowed:   &allowed,
		Msg:       r.Message,
		Location:  r.Location,
		Timestamp: time.Now().UnixMilli(),
	}})
}

func (c *Client) enqueue(out outgoing) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.queue <- out:
	default:
		log.Debug("monitor queue full, dropping message", "type", out.msg.Type)
	}
}

func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *Client) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case out := <-c.queue:
			if out.frame != nil {
				snap, err := c.enc.Encode(out.frame)
				if err != nil {
					log.Warn("encode snapshot", "error", err)
				} else {
					out.msg.Snapshot = snap
				}
			}
			if err := c.send(out.msg); err != nil {
				log.Warn("monitor send", "type", out.msg.Type, "error", err)
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.done:
			default:
				log.Warn("monitor read", "error", err)
			}
			return
		}
		switch msg.Type {
		case TypeRegistered:
			log.Info("registered with monitor", "kiosk", c.kioskID)
		case TypeError:
			log.Warn("monitor error", "message", msg.Msg)
		case TypePong:
			// heartbeat response, nothing to do
		}
	}
}

func (c *Client) pingLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.send(Message{Type: TypePing})
		}
	}
}
