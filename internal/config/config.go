// Package config provides configuration types and defaults for hunky.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/hunky/internal/engine"
)

// Config holds all configuration options for hunky.
type Config struct {
	// Repo is the repository root to watch. Empty means the current
	// directory, resolved at startup.
	Repo string `mapstructure:"repo"`

	Watch  WatchConfig  `mapstructure:"watch"`
	Diff   DiffConfig   `mapstructure:"diff"`
	Stream StreamConfig `mapstructure:"stream"`
	UI     UIConfig     `mapstructure:"ui"`
	Debug  DebugConfig  `mapstructure:"debug"`
}

// WatchConfig holds filesystem watcher options.
type WatchConfig struct {
	// DebounceMs is the quiet window before a burst of file events
	// collapses into one refresh. Default: 500.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// DiffConfig holds snapshot extraction options.
type DiffConfig struct {
	// ContextLines is the number of unchanged lines shown around each
	// change. Default: 5, max 5.
	ContextLines int `mapstructure:"context_lines"`
}

// StreamConfig holds playback options.
type StreamConfig struct {
	// Mode is "auto" (default) or "buffered".
	Mode string `mapstructure:"mode"`

	// Speed is "fast", "medium" (default), or "slow".
	Speed string `mapstructure:"speed"`

	// View is "new" (default, unseen hunks only) or "all".
	View string `mapstructure:"view"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	WrapLines     bool `mapstructure:"wrap_lines"`
	ShowStatusBar bool `mapstructure:"show_status_bar"`
}

// DebugConfig holds debug logging options.
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	LogPath string `mapstructure:"log_path"` // Default: hunky.log in the cwd
}

// Default returns the configuration used when no file or flag overrides
// anything.
func Default() Config {
	return Config{
		Watch: WatchConfig{DebounceMs: 500},
		Diff:  DiffConfig{ContextLines: 5},
		Stream: StreamConfig{
			Mode:  "auto",
			Speed: "medium",
			View:  "new",
		},
		UI: UIConfig{
			WrapLines:     false,
			ShowStatusBar: true,
		},
		Debug: DebugConfig{LogPath: "hunky.log"},
	}
}

// MaxContextLines bounds the context window around changes.
const MaxContextLines = 5

// Validate checks the configuration for errors. Empty values are valid
// and fall back to defaults.
func (c Config) Validate() error {
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}
	if c.Diff.ContextLines < 0 || c.Diff.ContextLines > MaxContextLines {
		return fmt.Errorf("diff.context_lines must be between 0 and %d, got %d", MaxContextLines, c.Diff.ContextLines)
	}
	switch c.Stream.Mode {
	case "", "auto", "buffered":
	default:
		return fmt.Errorf("stream.mode must be \"auto\" or \"buffered\", got %q", c.Stream.Mode)
	}
	switch c.Stream.Speed {
	case "", "fast", "medium", "slow":
	default:
		return fmt.Errorf("stream.speed must be \"fast\", \"medium\", or \"slow\", got %q", c.Stream.Speed)
	}
	switch c.Stream.View {
	case "", "new", "all":
	default:
		return fmt.Errorf("stream.view must be \"new\" or \"all\", got %q", c.Stream.View)
	}
	return nil
}

// Debounce returns the watcher debounce window as a duration.
func (c Config) Debounce() time.Duration {
	if c.Watch.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// EngineOptions maps the stream settings onto engine start-up options.
func (c Config) EngineOptions() engine.Options {
	opts := engine.Options{WrapLines: c.UI.WrapLines}

	if c.Stream.Mode == "buffered" {
		opts.StreamMode = engine.Buffered
	}
	if c.Stream.View == "all" {
		opts.ViewMode = engine.AllChanges
	}
	switch c.Stream.Speed {
	case "fast":
		opts.Speed = engine.SpeedFast
	case "slow":
		opts.Speed = engine.SpeedSlow
	default:
		opts.Speed = engine.SpeedMedium
	}
	return opts
}

// DefaultConfigPath returns ~/.config/hunky/config.yaml, or empty string
// if the home dir is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hunky", "config.yaml")
}

// LocalConfigPath returns the repo-local config location under root.
func LocalConfigPath(root string) string {
	return filepath.Join(root, ".hunky", "config.yaml")
}
