// Package config loads scrollkit configuration from TOML files.
//
// Configuration is optional everywhere: a missing file yields defaults, and
// every section has working zero-ish defaults so a partial file only
// overrides what it names.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/scrollkit/internal/responder"
)

// Config is the root configuration.
type Config struct {
	Responder ResponderConfig `toml:"responder"`
	Logging   LoggingConfig   `toml:"logging"`
	Simulator SimulatorConfig `toml:"simulator"`
}

// ResponderConfig configures the coordination state machine.
type ResponderConfig struct {
	// KeyboardPersistTaps is "never", "always", or "handled".
	KeyboardPersistTaps string `toml:"keyboard_persist_taps"`

	// PanResponderDisabled disables responder acquisition entirely.
	PanResponderDisabled bool `toml:"pan_responder_disabled"`

	// MomentumSettleWindowMS is how long after a momentum-end the surface
	// still counts as animating, in milliseconds. Zero means the default.
	MomentumSettleWindowMS int `toml:"momentum_settle_window_ms"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`
}

// SimulatorConfig configures the interactive simulator and trace replay.
type SimulatorConfig struct {
	ScreenWidth  float64 `toml:"screen_width"`
	ScreenHeight float64 `toml:"screen_height"`

	// KeyboardHeight is the simulated keyboard height; its top edge is
	// ScreenHeight - KeyboardHeight.
	KeyboardHeight float64 `toml:"keyboard_height"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Responder: ResponderConfig{
			KeyboardPersistTaps:    "never",
			MomentumSettleWindowMS: int(responder.DefaultMomentumSettleWindow / time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Simulator: SimulatorConfig{
			ScreenWidth:    400,
			ScreenHeight:   800,
			KeyboardHeight: 300,
		},
	}
}

// Load reads configuration from path, layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, _, err := responder.ParsePersistTaps(c.Responder.KeyboardPersistTaps); err != nil {
		return fmt.Errorf("responder.keyboard_persist_taps: %w", err)
	}
	if c.Responder.MomentumSettleWindowMS < 0 {
		return fmt.Errorf("responder.momentum_settle_window_ms must not be negative")
	}
	if c.Simulator.ScreenWidth < 0 || c.Simulator.ScreenHeight < 0 || c.Simulator.KeyboardHeight < 0 {
		return fmt.Errorf("simulator dimensions must not be negative")
	}
	return nil
}

// PersistTaps returns the parsed tap-dismiss policy.
func (c Config) PersistTaps() responder.PersistTapsPolicy {
	policy, _, err := responder.ParsePersistTaps(c.Responder.KeyboardPersistTaps)
	if err != nil {
		return responder.PersistTapsNever
	}
	return policy
}

// SettleWindow returns the momentum settle window as a duration.
func (c Config) SettleWindow() time.Duration {
	if c.Responder.MomentumSettleWindowMS <= 0 {
		return responder.DefaultMomentumSettleWindow
	}
	return time.Duration(c.Responder.MomentumSettleWindowMS) * time.Millisecond
}
