package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdastur/k8s-debugger/pkg/agent"
	"github.com/bdastur/k8s-debugger/pkg/version"
)

const long = `Interactive Kubernetes debugging agent.

Connects to a k8s-debugger-server over MCP, exposes its diagnostic tools to a
Bedrock Converse model, and drives the investigation loop until the model
produces an answer.`

const examples = `# one-shot question
k8s-debugger-client --server-url http://localhost:5001/mcp --profile dev --query "which pods are unhealthy?"

# interactive session against an SSE endpoint
k8s-debugger-client --server-url http://mcp.example.com:5001/sse --profile dev --region us-east-1`

const (
	flagVersion   = "version"
	flagServerURL = "server-url"
	flagProfile   = "profile"
	flagRegion    = "region"
	flagModelID   = "model-id"
	flagMaxTurns  = "max-turns"
	flagTimeout   = "timeout"
	flagQuery     = "query"
)

// IOStreams groups the standard process streams so tests can substitute them.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type ClientOptions struct {
	Version   bool
	ServerURL string
	Profile   string
	Region    string
	ModelID   string
	MaxTurns  int
	Timeout   time.Duration
	Query     string

	IOStreams
}

func NewClientOptions(streams IOStreams) *ClientOptions {
	return &ClientOptions{
		IOStreams: streams,
		ServerURL: "http://localhost:5001/mcp",
		Region:    "us-east-1",
		ModelID:   "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		MaxTurns:  10,
		Timeout:   30 * time.Second,
	}
}

func NewClient(streams IOStreams) *cobra.Command {
	o := NewClientOptions(streams)
	cmd := &cobra.Command{
		Use:     "k8s-debugger-client [options]",
		Short:   "Kubernetes debugging agent over MCP and Bedrock",
		Long:    long,
		Example: examples,
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(c.Context())
		},
	}

	cmd.Flags().BoolVar(&o.Version, flagVersion, o.Version, "Print version information and quit")
	cmd.Flags().StringVar(&o.ServerURL, flagServerURL, o.ServerURL, "MCP server URL. URLs ending in /sse use the SSE transport, anything else streamable HTTP.")
	cmd.Flags().StringVar(&o.Profile, flagProfile, o.Profile, "AWS shared config profile for Bedrock access")
	cmd.Flags().StringVar(&o.Region, flagRegion, o.Region, "AWS region for Bedrock")
	cmd.Flags().StringVar(&o.ModelID, flagModelID, o.ModelID, "Bedrock model identifier")
	cmd.Flags().IntVar(&o.MaxTurns, flagMaxTurns, o.MaxTurns, "Maximum model turns per query before giving up")
	cmd.Flags().DurationVar(&o.Timeout, flagTimeout, o.Timeout, "HTTP timeout for tool calls")
	cmd.Flags().StringVar(&o.Query, flagQuery, o.Query, "Single query to run. If empty, starts an interactive session on stdin.")

	return cmd
}

func (o *ClientOptions) Validate() error {
	if o.ServerURL == "" {
		return fmt.Errorf("--%s is required", flagServerURL)
	}
	if o.MaxTurns <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", flagMaxTurns, o.MaxTurns)
	}
	return nil
}

func (o *ClientOptions) Run(ctx context.Context) error {
	if o.Version {
		_, _ = fmt.Fprintf(o.Out, "%s\n", version.Version)
		return nil
	}

	transport, err := agent.NewMCPTransport(ctx, o.ServerURL, o.Timeout)
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	model, err := agent.NewBedrock(ctx, agent.BedrockOptions{
		Profile: o.Profile,
		Region:  o.Region,
		ModelID: o.ModelID,
	})
	if err != nil {
		return err
	}

	runner := agent.NewRunner(model, transport, agent.DefaultSystemPrompt, o.MaxTurns)

	if o.Query != "" {
		return o.runQuery(ctx, runner, o.Query)
	}
	return o.interactiveLoop(ctx, runner)
}

func (o *ClientOptions) runQuery(ctx context.Context, runner *agent.Runner, query string) error {
	answer, err := runner.Run(ctx, query)
	if err != nil {
		var maxTurns *agent.MaxTurnsError
		if errors.As(err, &maxTurns) {
			_, _ = fmt.Fprintf(o.ErrOut, "No final answer after %d turns. Partial trace has %d messages.\n", maxTurns.Turns, len(maxTurns.Trace))
		}
		return err
	}
	_, _ = fmt.Fprintln(o.Out, answer)
	return nil
}

func (o *ClientOptions) interactiveLoop(ctx context.Context, runner *agent.Runner) error {
	scanner := bufio.NewScanner(o.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		_, _ = fmt.Fprint(o.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "q" {
			return nil
		}
		if err := o.runQuery(ctx, runner, query); err != nil {
			if errors.Is(err, agent.ErrTransportClosed) {
				return err
			}
			_, _ = fmt.Fprintf(o.ErrOut, "Error: %v\n", err)
		}
	}
}

// Execute is a convenience entry point with the standard process streams.
func Execute() {
	streams := IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	if err := NewClient(streams).Execute(); err != nil {
		os.Exit(1)
	}
}
