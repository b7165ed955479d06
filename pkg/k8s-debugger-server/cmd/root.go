package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"

	"github.com/bdastur/k8s-debugger/pkg/config"
	internalhttp "github.com/bdastur/k8s-debugger/pkg/http"
	"github.com/bdastur/k8s-debugger/pkg/kubernetes"
	"github.com/bdastur/k8s-debugger/pkg/mcp"
	"github.com/bdastur/k8s-debugger/pkg/output"
	"github.com/bdastur/k8s-debugger/pkg/toolsets"
	"github.com/bdastur/k8s-debugger/pkg/version"
)

const long = `Read-only Kubernetes diagnostics exposed as Model Context Protocol (MCP) tools.

Without --port the server speaks the STDIO transport. With --port it serves
both streamable HTTP (/mcp) and SSE (/sse) on the given port.`

const examples = `# show this help
k8s-debugger-server -h

# show version information
k8s-debugger-server --version

# start a STDIO server
k8s-debugger-server

# start an HTTP server on port 5001
k8s-debugger-server --port 5001

# start an HTTP server with a tighter per-call budget
k8s-debugger-server --port 5001 --call-timeout 10s`

const (
	flagVersion       = "version"
	flagLogLevel      = "log-level"
	flagConfig        = "config"
	flagPort          = "port"
	flagSSEBaseURL    = "sse-base-url"
	flagKubeconfig    = "kubeconfig"
	flagToolsets      = "toolsets"
	flagListOutput    = "list-output"
	flagEnabledTools  = "enabled-tools"
	flagDisabledTools = "disabled-tools"
	flagCallTimeout   = "call-timeout"
	flagMaxRetries    = "max-retries"
)

// IOStreams groups the standard process streams so tests can substitute them.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type MCPServerOptions struct {
	Version       bool
	LogLevel      int
	Port          string
	SSEBaseURL    string
	Kubeconfig    string
	Toolsets      []string
	ListOutput    string
	EnabledTools  []string
	DisabledTools []string
	CallTimeout   time.Duration
	MaxRetries    int

	ConfigPath   string
	StaticConfig *config.StaticConfig

	IOStreams
}

func NewMCPServerOptions(streams IOStreams) *MCPServerOptions {
	return &MCPServerOptions{
		IOStreams:    streams,
		StaticConfig: config.Default(),
	}
}

func NewMCPServer(streams IOStreams) *cobra.Command {
	o := NewMCPServerOptions(streams)
	cmd := &cobra.Command{
		Use:     "k8s-debugger-server [command] [options]",
		Short:   "Read-only Kubernetes diagnostics MCP server",
		Long:    long,
		Example: examples,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Complete(c); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	cmd.Flags().BoolVar(&o.Version, flagVersion, o.Version, "Print version information and quit")
	cmd.Flags().IntVar(&o.LogLevel, flagLogLevel, o.LogLevel, "Set the log level (from 0 to 9)")
	cmd.Flags().StringVar(&o.ConfigPath, flagConfig, o.ConfigPath, "Path of the config file.")
	cmd.Flags().StringVar(&o.Port, flagPort, o.Port, "Start a streamable HTTP and SSE HTTP server on the specified port (e.g. 5001)")
	cmd.Flags().StringVar(&o.SSEBaseURL, flagSSEBaseURL, o.SSEBaseURL, "SSE public base URL to use when sending the endpoint message (e.g. https://example.com)")
	cmd.Flags().StringVar(&o.Kubeconfig, flagKubeconfig, o.Kubeconfig, "Path to the kubeconfig file to use for authentication")
	cmd.Flags().StringSliceVar(&o.Toolsets, flagToolsets, o.Toolsets, "Comma-separated list of MCP toolsets to use (available toolsets: "+strings.Join(toolsets.ToolsetNames(), ", ")+"). Defaults to "+strings.Join(o.StaticConfig.Toolsets, ", ")+".")
	cmd.Flags().StringVar(&o.ListOutput, flagListOutput, o.ListOutput, "Output format for resource list operations (one of: "+strings.Join(output.Names, ", ")+"). Defaults to "+o.StaticConfig.ListOutput+".")
	cmd.Flags().StringSliceVar(&o.EnabledTools, flagEnabledTools, o.EnabledTools, "Comma-separated list of tool names to expose. If set, only these tools are exposed.")
	cmd.Flags().StringSliceVar(&o.DisabledTools, flagDisabledTools, o.DisabledTools, "Comma-separated list of tool names to hide.")
	cmd.Flags().DurationVar(&o.CallTimeout, flagCallTimeout, o.StaticConfig.CallTimeout.Duration(), "Per-call execution budget for a single tool call")
	cmd.Flags().IntVar(&o.MaxRetries, flagMaxRetries, o.StaticConfig.MaxRetries, "Number of additional attempts for transient cluster failures")

	return cmd
}

func (m *MCPServerOptions) Complete(cmd *cobra.Command) error {
	if m.ConfigPath != "" {
		cnf, err := config.Read(m.ConfigPath)
		if err != nil {
			return err
		}
		m.StaticConfig = cnf
	}

	m.loadFlags(cmd)

	m.initializeLogging()

	return nil
}

func (m *MCPServerOptions) loadFlags(cmd *cobra.Command) {
	if cmd.Flag(flagLogLevel).Changed {
		m.StaticConfig.LogLevel = m.LogLevel
	}
	if cmd.Flag(flagPort).Changed {
		m.StaticConfig.Port = m.Port
	}
	if cmd.Flag(flagSSEBaseURL).Changed {
		m.StaticConfig.SSEBaseURL = m.SSEBaseURL
	}
	if cmd.Flag(flagKubeconfig).Changed {
		m.StaticConfig.KubeConfig = m.Kubeconfig
	}
	if cmd.Flag(flagToolsets).Changed {
		m.StaticConfig.Toolsets = m.Toolsets
	}
	if cmd.Flag(flagListOutput).Changed {
		m.StaticConfig.ListOutput = m.ListOutput
	}
	if cmd.Flag(flagEnabledTools).Changed {
		m.StaticConfig.EnabledTools = m.EnabledTools
	}
	if cmd.Flag(flagDisabledTools).Changed {
		m.StaticConfig.DisabledTools = m.DisabledTools
	}
	if cmd.Flag(flagCallTimeout).Changed {
		m.StaticConfig.CallTimeout = config.Duration(m.CallTimeout)
	}
	if cmd.Flag(flagMaxRetries).Changed {
		m.StaticConfig.MaxRetries = m.MaxRetries
	}
}

func (m *MCPServerOptions) initializeLogging() {
	flagSet := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(flagSet)
	if m.StaticConfig.Port == "" {
		// disable klog output for stdio mode
		// this is needed to avoid klog writing to stderr and breaking the protocol
		_ = flagSet.Parse([]string{"-logtostderr=false", "-alsologtostderr=false", "-stderrthreshold=FATAL"})
		return
	}
	loggerOptions := []textlogger.ConfigOption{textlogger.Output(m.Out)}
	if m.StaticConfig.LogLevel >= 0 {
		loggerOptions = append(loggerOptions, textlogger.Verbosity(m.StaticConfig.LogLevel))
		_ = flagSet.Parse([]string{"--v", strconv.Itoa(m.StaticConfig.LogLevel)})
	}
	logger := textlogger.NewLogger(textlogger.NewConfig(loggerOptions...))
	klog.SetLoggerWithOptions(logger)
}

func (m *MCPServerOptions) Validate() error {
	if output.FromString(m.StaticConfig.ListOutput) == nil {
		return fmt.Errorf("invalid output name: %s, valid names are: %s", m.StaticConfig.ListOutput, strings.Join(output.Names, ", "))
	}
	if err := toolsets.Validate(m.StaticConfig.Toolsets); err != nil {
		return err
	}
	return m.StaticConfig.Validate()
}

func (m *MCPServerOptions) Run() error {
	if m.Version {
		_, _ = fmt.Fprintf(m.Out, "%s\n", version.Version)
		return nil
	}

	klog.V(1).Infof("Starting %s", version.BinaryName)
	klog.V(1).Infof(" - Config: %s", m.ConfigPath)
	klog.V(1).Infof(" - Toolsets: %s", strings.Join(m.StaticConfig.Toolsets, ", "))
	klog.V(1).Infof(" - ListOutput: %s", m.StaticConfig.ListOutput)
	klog.V(1).Infof(" - CallTimeout: %s", m.StaticConfig.CallTimeout.Duration())

	manager, err := kubernetes.NewManager(m.StaticConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize cluster access: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Configuration{StaticConfig: m.StaticConfig}, manager)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP server: %w", err)
	}
	defer mcpServer.Close()

	if m.StaticConfig.Port != "" {
		return internalhttp.Serve(context.Background(), mcpServer, m.StaticConfig)
	}

	if err := mcpServer.ServeStdio(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
