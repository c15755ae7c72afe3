package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds application-level configuration.
type Config struct {
	BaseURL     string        // API origin, e.g. "https://api.chillchill.app"
	Timeout     time.Duration // Per-request timeout for API calls
	SessionPath string        // File holding the session cookie value
	SessionName string        // Session cookie name
	Algo        string        // Initial feed algorithm
	PageSize    int           // Items per feed page
	UIStatePath string        // Persisted algo/mute between sessions

	ProbeURL   string // Reference image used by the bandwidth probe
	ProbeBytes int64  // Approximate size of the reference image

	WheelThreshold float64       // Minimum wheel delta in pixel-equivalents
	WheelCooldown  time.Duration // Quiet window after a wheel snap
	TouchDamping   float64       // Drag preview factor
	SnapDuration   time.Duration // Snap animation length
	CellHeight     float64       // Pixel-equivalents per terminal row when the terminal does not report pixels

	AmbientInterval time.Duration // Ambient colour sampling period

	LogFile  string
	LogLevel string
}

// Dir returns the configuration directory (XDG_CONFIG_HOME aware).
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "chilltok"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.path", filepath.Join(dir, "session"))
	v.SetDefault("session.name", "chill_session")
	v.SetDefault("feed.algo", "for-you")
	v.SetDefault("feed.page_size", 8)
	v.SetDefault("ui.state_path", filepath.Join(dir, "ui_state.json"))
	v.SetDefault("probe.url", "")
	v.SetDefault("probe.bytes", 250_000)
	v.SetDefault("gesture.wheel_threshold", 28.0)
	v.SetDefault("gesture.wheel_cooldown", 600*time.Millisecond)
	v.SetDefault("gesture.touch_damping", 0.7)
	v.SetDefault("gesture.snap_duration", 320*time.Millisecond)
	v.SetDefault("viewport.cell_height", 16.0)
	v.SetDefault("card.ambient_interval", 800*time.Millisecond)
	v.SetDefault("log.file", filepath.Join(dir, "chilltok.log"))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from defaults, the TOML config file and the
// environment, in increasing priority.
//
//	CHILLTOK_API_BASE_URL  API origin (required before any request is built)
//	CHILLTOK_FEED_ALGO     for-you | following
//	CHILLTOK_LOG_LEVEL     debug | info | warn | error
//
// An empty path means $XDG_CONFIG_HOME/chilltok/config.toml.
func Load(path string) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path = filepath.Join(dir, "config.toml")
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetConfigType("toml")
	v.SetEnvPrefix("CHILLTOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	base, err := normalizeBaseURL(v.GetString("api.base_url"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:         base,
		Timeout:         v.GetDuration("api.timeout"),
		SessionPath:     v.GetString("session.path"),
		SessionName:     v.GetString("session.name"),
		Algo:            v.GetString("feed.algo"),
		PageSize:        v.GetInt("feed.page_size"),
		UIStatePath:     v.GetString("ui.state_path"),
		ProbeURL:        v.GetString("probe.url"),
		ProbeBytes:      v.GetInt64("probe.bytes"),
		WheelThreshold:  v.GetFloat64("gesture.wheel_threshold"),
		WheelCooldown:   v.GetDuration("gesture.wheel_cooldown"),
		TouchDamping:    v.GetFloat64("gesture.touch_damping"),
		SnapDuration:    v.GetDuration("gesture.snap_duration"),
		CellHeight:      v.GetFloat64("viewport.cell_height"),
		AmbientInterval: v.GetDuration("card.ambient_interval"),
		LogFile:         v.GetString("log.file"),
		LogLevel:        v.GetString("log.level"),
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("invalid feed.page_size: %d", cfg.PageSize)
	}
	if cfg.ProbeURL == "" && cfg.BaseURL != "" {
		cfg.ProbeURL = cfg.BaseURL + "/static/probe.jpg"
	}
	return cfg, nil
}

// normalizeBaseURL accepts an empty origin (requests fail later with a
// configuration error) or an absolute http(s) URL.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid api.base_url: must be an absolute URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("invalid api.base_url: only http(s) is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// UIState is what the client remembers between sessions.
type UIState struct {
	Algo  string `json:"algo,omitempty"`
	Muted bool   `json:"muted"`
}

// DefaultUIState is used before anything has been saved. Playback starts
// muted.
func DefaultUIState() UIState {
	return UIState{Muted: true}
}

// LoadUIState reads persisted UI state. A missing file yields
// DefaultUIState.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultUIState(), nil
		}
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	st := DefaultUIState()
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes UI state, creating the parent directory.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding ui state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
