package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

func testStream() (IOStreams, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return IOStreams{
		In:     &bytes.Buffer{},
		Out:    out,
		ErrOut: io.Discard,
	}, out
}

type RootSuite struct {
	suite.Suite
}

func (s *RootSuite) TestVersion() {
	ioStreams, out := testStream()
	rootCmd := NewMCPServer(ioStreams)
	rootCmd.SetArgs([]string{"--version"})
	s.Require().NoError(rootCmd.Execute())
	s.Equal("0.0.0-dev\n", out.String())
}

func (s *RootSuite) TestValidate() {
	s.Run("rejects invalid list output", func() {
		ioStreams, _ := testStream()
		rootCmd := NewMCPServer(ioStreams)
		rootCmd.SetArgs([]string{"--version", "--list-output", "xml"})
		err := rootCmd.Execute()
		s.Require().Error(err)
		s.Contains(err.Error(), "invalid output name: xml")
	})
	s.Run("rejects unknown toolset", func() {
		ioStreams, _ := testStream()
		rootCmd := NewMCPServer(ioStreams)
		rootCmd.SetArgs([]string{"--version", "--toolsets", "no-such-toolset"})
		err := rootCmd.Execute()
		s.Require().Error(err)
		s.Contains(err.Error(), "no-such-toolset")
	})
	s.Run("rejects non-positive call timeout", func() {
		ioStreams, _ := testStream()
		rootCmd := NewMCPServer(ioStreams)
		rootCmd.SetArgs([]string{"--version", "--call-timeout", "0s"})
		err := rootCmd.Execute()
		s.Require().Error(err)
		s.Contains(err.Error(), "call_timeout must be positive")
	})
}

func (s *RootSuite) TestConfig() {
	writeConfig := func(content string) string {
		path := filepath.Join(s.T().TempDir(), "config.toml")
		s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	s.Run("invalid path throws error", func() {
		ioStreams, _ := testStream()
		rootCmd := NewMCPServer(ioStreams)
		rootCmd.SetArgs([]string{"--version", "--config", "invalid-path-to-config.toml"})
		s.Error(rootCmd.Execute())
	})
	s.Run("file values override defaults", func() {
		configPath := writeConfig("list_output = \"json\"\ncall_timeout = \"10s\"\n")
		o := NewMCPServerOptions(IOStreams{In: &bytes.Buffer{}, Out: io.Discard, ErrOut: io.Discard})
		rootCmd := NewMCPServer(IOStreams{In: &bytes.Buffer{}, Out: io.Discard, ErrOut: io.Discard})
		s.Require().NoError(rootCmd.ParseFlags([]string{"--config", configPath}))
		o.ConfigPath = configPath
		s.Require().NoError(o.Complete(rootCmd))
		s.Equal("json", o.StaticConfig.ListOutput)
		s.Equal(10*time.Second, o.StaticConfig.CallTimeout.Duration())
		s.Equal([]string{"diagnostics"}, o.StaticConfig.Toolsets)
	})
	s.Run("flags take precedence over file", func() {
		configPath := writeConfig("list_output = \"json\"\n")
		o := NewMCPServerOptions(IOStreams{In: &bytes.Buffer{}, Out: io.Discard, ErrOut: io.Discard})
		rootCmd := NewMCPServer(IOStreams{In: &bytes.Buffer{}, Out: io.Discard, ErrOut: io.Discard})
		s.Require().NoError(rootCmd.ParseFlags([]string{"--config", configPath, "--list-output", "yaml"}))
		o.ConfigPath = configPath
		o.ListOutput = "yaml"
		s.Require().NoError(o.Complete(rootCmd))
		s.Equal("yaml", o.StaticConfig.ListOutput)
	})
}

func TestRoot(t *testing.T) {
	suite.Run(t, new(RootSuite))
}
