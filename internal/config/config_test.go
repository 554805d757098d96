package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/scrollkit/internal/responder"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrollkit.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[responder]
keyboard_persist_taps = "handled"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PersistTaps() != responder.PersistTapsHandled {
		t.Errorf("persist taps = %v, want handled", cfg.PersistTaps())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q, want default info", cfg.Logging.Level)
	}
	if cfg.Simulator.ScreenHeight != 800 {
		t.Errorf("screen height = %v, want default 800", cfg.Simulator.ScreenHeight)
	}
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
[responder]
keyboard_persist_taps = "always"
pan_responder_disabled = true
momentum_settle_window_ms = 32

[logging]
level = "debug"

[simulator]
screen_width = 1024.0
screen_height = 768.0
keyboard_height = 280.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PersistTaps() != responder.PersistTapsAlways {
		t.Errorf("persist taps = %v, want always", cfg.PersistTaps())
	}
	if !cfg.Responder.PanResponderDisabled {
		t.Error("pan_responder_disabled not honored")
	}
	if cfg.SettleWindow() != 32*time.Millisecond {
		t.Errorf("settle window = %v, want 32ms", cfg.SettleWindow())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Simulator.ScreenWidth != 1024 {
		t.Errorf("screen width = %v, want 1024", cfg.Simulator.ScreenWidth)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad persist taps", "[responder]\nkeyboard_persist_taps = \"sometimes\"\n"},
		{"negative settle window", "[responder]\nmomentum_settle_window_ms = -5\n"},
		{"negative screen", "[simulator]\nscreen_height = -1.0\n"},
		{"malformed toml", "[responder\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}

func TestSettleWindowDefault(t *testing.T) {
	var cfg Config
	if cfg.SettleWindow() != responder.DefaultMomentumSettleWindow {
		t.Fatalf("zero settle window = %v, want default", cfg.SettleWindow())
	}
}
