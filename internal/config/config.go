package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/duos-app/duos/internal/paths"
)

// DefaultVolume is the default playback volume (0-100).
const DefaultVolume = 100

// DefaultSound is the alarm sound used when an alarm carries none.
const DefaultSound = "classic"

// DefaultRingSeconds is how long a firing alarm plays its tone.
const DefaultRingSeconds = 30

// Feed holds the MQTT change-feed connection settings. An empty broker
// disables partner sync; the app then works purely against the local store.
type Feed struct {
	Broker   string `json:"broker,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Webhook holds an optional partner-notification endpoint. Header values
// may reference $ENV_VAR secrets.
type Webhook struct {
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Config holds the top-level configuration: device identity, store location,
// feed transport and playback settings.
type Config struct {
	UserID      string  `json:"user_id,omitempty"`
	PairID      string  `json:"pair_id,omitempty"`
	DBPath      string  `json:"db_path,omitempty"`
	Volume      int     `json:"volume,omitempty"`
	Sound       string  `json:"sound,omitempty"`
	RingSeconds int     `json:"ring_seconds,omitempty"`
	Feed        Feed    `json:"feed,omitempty"`
	Webhook     Webhook `json:"webhook,omitempty"`
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.Volume = DefaultVolume
	c.Sound = DefaultSound
	c.RingSeconds = DefaultRingSeconds
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Default returns a config with defaults applied and the store in the
// app data directory. Used when no config file exists.
func Default() Config {
	return Config{
		Volume:      DefaultVolume,
		Sound:       DefaultSound,
		RingSeconds: DefaultRingSeconds,
		DBPath:      filepath.Join(paths.DataDir(), paths.DBFileName),
	}
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. duos-config.json next to the running binary
//  3. ~/.config/duos/duos-config.json
//
// A missing config file (cases 2 and 3) is not an error: the defaults
// are returned so the CLI works out of the box.
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	return Default(), nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(paths.DataDir(), paths.DBFileName)
	}
	return cfg, nil
}
