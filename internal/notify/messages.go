package notify

// Message types for the monitoring protocol.
const (
	TypeRegister   = "register"
	TypeRegistered = "registered"
	TypeScan       = "scan"
	TypeResult     = "result"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
)

// Message is the envelope for all monitoring messages.
type Message struct {
	Type      string `json:"type"`
	KioskID   string `json:"kioskId,omitempty"`
	ScanID    string `json:"scanId,omitempty"`
	Seq       uint64 `json:"seq,omitempty"`
	Plate     string `json:"plate,omitempty"`
	Allowed   *bool  `json:"allowed,omitempty"`
	Msg       string `json:"message,omitempty"`
	Location  string `json:"location,omitempty"`
	Snapshot  []byte `json:"snapshot,omitempty"` // JPEG
	Timestamp int64  `json:"timestamp,omitempty"`
}
