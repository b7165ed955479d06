package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that can be parsed from TOML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// StaticConfig is the configuration for the server.
// It allows to configure server specific settings and tools to be enabled or disabled.
type StaticConfig struct {
	LogLevel   int    `toml:"log_level,omitzero"`
	Port       string `toml:"port,omitempty"`
	SSEBaseURL string `toml:"sse_base_url,omitempty"`
	KubeConfig string `toml:"kubeconfig,omitempty"`
	ListOutput string `toml:"list_output,omitempty"`

	Toolsets      []string `toml:"toolsets,omitempty"`
	EnabledTools  []string `toml:"enabled_tools,omitempty"`
	DisabledTools []string `toml:"disabled_tools,omitempty"`

	// CallTimeout is the per-call execution budget for a single tool call.
	CallTimeout Duration `toml:"call_timeout,omitempty"`
	// MaxRetries is the number of additional attempts for transient cluster failures.
	MaxRetries int `toml:"max_retries,omitzero"`
	// RetryBaseDelay is the backoff delay before the first retry, doubled on each subsequent retry.
	RetryBaseDelay Duration `toml:"retry_base_delay,omitempty"`
}

// Default returns the effective default configuration.
func Default() *StaticConfig {
	return &StaticConfig{
		ListOutput:     "yaml",
		Toolsets:       []string{"diagnostics"},
		CallTimeout:    Duration(30 * time.Second),
		MaxRetries:     2,
		RetryBaseDelay: Duration(250 * time.Millisecond),
	}
}

// Read reads the toml file and returns the StaticConfig.
// Values present in the file overwrite the defaults, values not present remain unchanged.
func Read(configPath string) (*StaticConfig, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ReadToml(configData)
}

// ReadToml reads the toml data and returns the StaticConfig.
func ReadToml(configData []byte) (*StaticConfig, error) {
	config := Default()
	if _, err := toml.NewDecoder(bytes.NewReader(configData)).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	return config, nil
}

// Validate checks the config for values that can never work.
func (c *StaticConfig) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.CallTimeout.Duration() <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %s", c.CallTimeout.Duration())
	}
	if c.RetryBaseDelay.Duration() <= 0 {
		return fmt.Errorf("retry_base_delay must be positive, got %s", c.RetryBaseDelay.Duration())
	}
	return nil
}
