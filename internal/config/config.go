package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is the production access-control endpoint.
const DefaultAPIURL = "https://api-lectores-cci.onrender.com/validar_placa/"

// Config holds all runtime configuration for the kiosk binary.
type Config struct {
	APIURL          string        `env:"API_URL" envDefault:"https://api-lectores-cci.onrender.com/validar_placa/"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ScanCooldown    time.Duration `env:"SCAN_COOLDOWN" envDefault:"5s"`
	MessageDuration time.Duration `env:"MESSAGE_DURATION" envDefault:"3s"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"10ms"`

	CameraIndex int `env:"CAMERA_INDEX" envDefault:"0"`
	FrameWidth  int `env:"FRAME_WIDTH" envDefault:"400"`
	FrameHeight int `env:"FRAME_HEIGHT" envDefault:"300"`

	MenuCommand     string `env:"MENU_COMMAND"`
	MonitorURL      string `env:"MONITOR_URL"`
	KioskID         string `env:"KIOSK_ID"`
	SnapshotQuality int    `env:"SNAPSHOT_QUALITY" envDefault:"70"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present), the environment, then command-line flags.
// Flags win over the environment.
func Load(args []string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("lector", flag.ContinueOnError)
	flags.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Plate validation endpoint URL")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Validation request timeout")
	flags.DurationVar(&cfg.ScanCooldown, "cooldown", cfg.ScanCooldown, "Minimum time between accepted scans")
	flags.DurationVar(&cfg.MessageDuration, "message-duration", cfg.MessageDuration, "How long a result stays on screen")
	flags.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Camera polling interval")
	flags.IntVar(&cfg.CameraIndex, "camera", cfg.CameraIndex, "Capture device index (0 = first camera)")
	flags.IntVar(&cfg.FrameWidth, "width", cfg.FrameWidth, "Displayed frame width")
	flags.IntVar(&cfg.FrameHeight, "height", cfg.FrameHeight, "Displayed frame height")
	flags.StringVar(&cfg.MenuCommand, "menu", cfg.MenuCommand, "Command started by the back button (empty = just exit)")
	flags.StringVar(&cfg.MonitorURL, "monitor", cfg.MonitorURL, "Monitoring WebSocket URL (empty = disabled)")
	flags.StringVar(&cfg.KioskID, "id", cfg.KioskID, "Kiosk ID (auto-generated if empty)")
	flags.IntVar(&cfg.SnapshotQuality, "snapshot-quality", cfg.SnapshotQuality, "JPEG quality of monitor snapshots (1-100)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.KioskID == "" {
		cfg.KioskID = fmt.Sprintf("kiosk-%s", uuid.NewString()[:8])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.APIURL == "":
		return errors.New("api url must not be empty")
	case c.ScanCooldown <= 0:
		return fmt.Errorf("scan cooldown must be positive, got %s", c.ScanCooldown)
	case c.MessageDuration <= 0:
		return fmt.Errorf("message duration must be positive, got %s", c.MessageDuration)
	case c.PollInterval <= 0:
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return fmt.Errorf("frame size must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	case c.SnapshotQuality < 1 || c.SnapshotQuality > 100:
		return fmt.Errorf("snapshot quality must be 1-100, got %d", c.SnapshotQuality)
	}
	return nil
}

// MockAPIConfig holds configuration for the mock access-control service.
type MockAPIConfig struct {
	Addr     string `env:"MOCKAPI_ADDR" envDefault:":8000"`
	Allow    string `env:"MOCKAPI_ALLOW"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadMockAPI parses configuration for the mockapi binary.
func LoadMockAPI(args []string) (*MockAPIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &MockAPIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("mockapi", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flags.StringVar(&cfg.Allow, "allow", cfg.Allow, "Registered plates, e.g. ABC123=A1,XYZ789=")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}
