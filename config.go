package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Deployment modes for the credential broker.
const (
	ModeDemo = "demo"
	ModeAPI  = "api"
)

// Session store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config drives startup wiring: which broker and store strategies to use.
// The strategies are selected exactly once, here; nothing switches modes
// at runtime.
type Config struct {
	Listen      string        `env:"LISTEN_ADDR, default=:3000"`
	Mode        string        `env:"AUTH_MODE, default=demo"`
	APIBaseURL  string        `env:"API_BASE_URL, default=http://localhost:4000/api/"`
	SigningKey  string        `env:"AUTH_SIGNING_KEY, default=jobportal-demo-key"`
	Store       string        `env:"AUTH_STORE, default=file"`
	StorePath   string        `env:"AUTH_STORE_PATH, default=.jobportal/session.json"`
	StoreDSN    string        `env:"AUTH_STORE_DSN, default=file:.jobportal/session.db"`
	Profile     string        `env:"AUTH_PROFILE, default=default"`
	DemoLatency time.Duration `env:"DEMO_LATENCY, default=400ms"`
	Debug       bool          `env:"AUTH_DEBUG, default=false"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewBroker builds the credential broker the config selects
func (c *Config) NewBroker() (CredentialBroker, error) {
	switch c.Mode {
	case ModeDemo:
		return NewDemoBroker(c.SigningKey).WithLatency(c.DemoLatency), nil
	case ModeAPI:
		return NewAPIBroker(c.APIBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", c.Mode)
	}
}

// NewStore builds the session store the config selects
func (c *Config) NewStore(ctx context.Context) (SessionStore, error) {
	switch c.Store {
	case StoreFile:
		return NewFileStore(c.StorePath), nil
	case StoreSQLite:
		return NewBunStore(ctx, c.StoreDSN, c.Profile)
	default:
		return nil, fmt.Errorf("unknown session store: %q", c.Store)
	}
}
