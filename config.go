package orbit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process-level viewer configuration, read from ORBIT_*
// environment variables. Command-line flags override it.
type Config struct {
	APIURL          string        `env:"ORBIT_API_URL"           envDefault:"http://localhost:3000/api"`
	GesturePolicy   string        `env:"ORBIT_GESTURE_POLICY"    envDefault:"double-tap"`
	DoubleTapWindow time.Duration `env:"ORBIT_DOUBLE_TAP_WINDOW" envDefault:"300ms"`
	LongPress       time.Duration `env:"ORBIT_LONG_PRESS"        envDefault:"500ms"`
	SectionHeight   float64       `env:"ORBIT_SECTION_HEIGHT"    envDefault:"800"`
	// ScrollLeadIn is the scroll bias as a fraction of SectionHeight.
	ScrollLeadIn float64       `env:"ORBIT_SCROLL_LEAD_IN"   envDefault:"0"`
	Glide        time.Duration `env:"ORBIT_GLIDE"            envDefault:"1200ms"`
	FlagStore    string        `env:"ORBIT_FLAG_STORE"`
	HTTPTimeout  time.Duration `env:"ORBIT_HTTP_TIMEOUT"     envDefault:"12s"`
	BridgeAddr   string        `env:"ORBIT_BRIDGE_ADDR"      envDefault:"127.0.0.1:8090"`
	Debug        bool          `env:"ORBIT_DEBUG"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := ParseGesturePolicy(cfg.GesturePolicy); err != nil {
		return Config{}, fmt.Errorf("parse env: ORBIT_GESTURE_POLICY: %w", err)
	}
	if cfg.ScrollLeadIn < 0 || cfg.ScrollLeadIn >= 1 {
		return Config{}, fmt.Errorf("parse env: ORBIT_SCROLL_LEAD_IN must be in [0, 1), got %v", cfg.ScrollLeadIn)
	}
	return cfg, nil
}

// RecognizerConfig converts the gesture settings. An invalid policy falls
// back to double-tap; LoadConfig has already rejected it.
func (c Config) RecognizerConfig() RecognizerConfig {
	policy, _ := ParseGesturePolicy(c.GesturePolicy)
	return RecognizerConfig{
		Policy:            policy,
		DoubleTapWindow:   c.DoubleTapWindow,
		LongPressDuration: c.LongPress,
	}
}

// SessionOptions builds session options around sync.
func (c Config) SessionOptions(viewport Rect, sync *Synchronizer) SessionOptions {
	return SessionOptions{
		Recognizer:    c.RecognizerConfig(),
		SectionHeight: c.SectionHeight,
		LeadIn:        c.ScrollLeadIn,
		Viewport:      viewport,
		Sync:          sync,
	}
}

// Client returns a catalog client honoring APIURL and HTTPTimeout.
func (c Config) Client() *Client {
	return NewClient(c.APIURL, &http.Client{Timeout: c.HTTPTimeout})
}
