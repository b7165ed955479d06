package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func (s *ConfigSuite) TestDefault() {
	cfg := Default()
	s.Run("list output is yaml", func() {
		s.Equal("yaml", cfg.ListOutput)
	})
	s.Run("diagnostics toolset enabled", func() {
		s.Equal([]string{"diagnostics"}, cfg.Toolsets)
	})
	s.Run("call timeout is 30s", func() {
		s.Equal(30*time.Second, cfg.CallTimeout.Duration())
	})
	s.Run("retries transient failures twice", func() {
		s.Equal(2, cfg.MaxRetries)
	})
	s.Run("retry base delay is 250ms", func() {
		s.Equal(250*time.Millisecond, cfg.RetryBaseDelay.Duration())
	})
	s.Run("defaults validate", func() {
		s.NoError(cfg.Validate())
	})
}

func (s *ConfigSuite) TestReadToml() {
	s.Run("valid file overrides defaults and keeps the rest", func() {
		cfg, err := ReadToml([]byte(`
port = "8080"
log_level = 5
call_timeout = "10s"
toolsets = ["diagnostics"]
`))
		s.Require().NoError(err)
		s.Equal("8080", cfg.Port)
		s.Equal(5, cfg.LogLevel)
		s.Equal(10*time.Second, cfg.CallTimeout.Duration())
		s.Equal(2, cfg.MaxRetries)
	})
	s.Run("invalid file returns error", func() {
		_, err := ReadToml([]byte(`port = 8080 extra`))
		s.Error(err)
	})
	s.Run("invalid duration returns error", func() {
		_, err := ReadToml([]byte(`call_timeout = "not-a-duration"`))
		s.Error(err)
	})
}

func (s *ConfigSuite) TestRead() {
	s.Run("missing file returns error", func() {
		_, err := Read(filepath.Join(s.T().TempDir(), "missing.toml"))
		s.Error(err)
	})
	s.Run("valid file is read", func() {
		path := filepath.Join(s.T().TempDir(), "config.toml")
		s.Require().NoError(os.WriteFile(path, []byte(`kubeconfig = "/tmp/kubeconfig"`), 0o644))
		cfg, err := Read(path)
		s.Require().NoError(err)
		s.Equal("/tmp/kubeconfig", cfg.KubeConfig)
	})
}

func (s *ConfigSuite) TestValidate() {
	s.Run("negative max_retries rejected", func() {
		cfg := Default()
		cfg.MaxRetries = -1
		s.Error(cfg.Validate())
	})
	s.Run("zero call_timeout rejected", func() {
		cfg := Default()
		cfg.CallTimeout = 0
		s.Error(cfg.Validate())
	})
	s.Run("zero retry_base_delay rejected", func() {
		cfg := Default()
		cfg.RetryBaseDelay = 0
		s.Error(cfg.Validate())
	})
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}
