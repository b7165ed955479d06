package mcp

import (
	"context"
	"net/http"
	"os"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bdastur/k8s-debugger/pkg/api"
	"github.com/bdastur/k8s-debugger/pkg/config"
	"github.com/bdastur/k8s-debugger/pkg/output"
	"github.com/bdastur/k8s-debugger/pkg/toolsets"
	"github.com/bdastur/k8s-debugger/pkg/version"
)

type Configuration struct {
	*config.StaticConfig
	listOutput output.Output
	toolsets   []api.Toolset
}

func (c *Configuration) Toolsets() []api.Toolset {
	if c.toolsets == nil {
		for _, toolset := range c.StaticConfig.Toolsets {
			c.toolsets = append(c.toolsets, toolsets.ToolsetFromString(toolset))
		}
	}
	return c.toolsets
}

func (c *Configuration) ListOutput() output.Output {
	if c.listOutput == nil {
		c.listOutput = output.FromString(c.StaticConfig.ListOutput)
	}
	return c.listOutput
}

func (c *Configuration) isToolApplicable(tool api.ServerTool) bool {
	if c.EnabledTools != nil && !slices.Contains(c.EnabledTools, tool.Tool.Name) {
		return false
	}
	if c.DisabledTools != nil && slices.Contains(c.DisabledTools, tool.Tool.Name) {
		return false
	}
	return true
}

type Server struct {
	configuration *Configuration
	server        *mcp.Server
	registry      *Registry
	sessions      *SessionManager
}

func NewServer(configuration Configuration, k8s api.KubernetesClient) (*Server, error) {
	tools := make([]api.ServerTool, 0)
	for _, toolset := range configuration.Toolsets() {
		for _, tool := range toolset.GetTools() {
			if configuration.isToolApplicable(tool) {
				tools = append(tools, tool)
			}
		}
	}
	registry, err := NewRegistry(tools)
	if err != nil {
		return nil, err
	}

	s := &Server{
		configuration: &configuration,
		registry:      registry,
		sessions: NewSessionManager(
			registry, k8s, configuration.ListOutput(), configuration.CallTimeout.Duration()),
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    version.BinaryName,
				Title:   version.BinaryName,
				Version: version.Version,
			},
			&mcp.ServerOptions{
				Capabilities: &mcp.ServerCapabilities{
					Tools:   &mcp.ToolCapabilities{},
					Logging: &mcp.LoggingCapabilities{},
				},
			}),
	}

	s.server.AddReceivingMiddleware(toolCallLoggingMiddleware)
	for _, tool := range registry.List() {
		s.server.AddTool(toGoSdkTool(tool), s.toolHandler(tool))
	}
	return s, nil
}

// Registry exposes the immutable tool registry, mainly for the CLI to print
// the enabled tools.
func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr})
}

func (s *Server) ServeSse() *mcp.SSEHandler {
	return mcp.NewSSEHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.SSEOptions{})
}

func (s *Server) ServeHTTP() *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{})
}

func (s *Server) Close() {
	s.sessions.CloseAll()
}

func NewTextResult(content string, err error) *mcp.CallToolResult {
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: err.Error(),
				},
			},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: content,
			},
		},
	}
}
