package call

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables a host can set for a CallManager instance.
// Everything here is optional; DefaultConfig's zero-ish values are safe
// to run with unconfigured.
type Config struct {
	// LogLevel is parsed with logrus.ParseLevel; empty keeps logrus's
	// current level untouched.
	LogLevel string `yaml:"log_level"`

	// PreferredEncoders, when non-empty, restricts the local encoders fed to
	// BuildAdvertisement/ComputeCommonFormats to these codec names. The
	// order of this list is not used: the surviving encoders are still
	// ranked AV1>H265>VP9>H264>VP8. Empty keeps every local encoder.
	PreferredEncoders []string `yaml:"preferred_encoders"`

	// ReconnectGracePeriod is a grace period for the host's own watchdog
	// to apply while the call is Reconnecting. CallManager does not read
	// or enforce it.
	ReconnectGracePeriod time.Duration `yaml:"reconnect_grace_period"`
}

// DefaultConfig returns the configuration CallManager uses when none is
// supplied.
func DefaultConfig() Config {
	return Config{
		ReconnectGracePeriod: 30 * time.Second,
	}
}

// LoadConfig reads and parses a YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("call: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("call: parse config: %w", err)
	}
	return cfg, nil
}
