package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// ErrTransportClosed is returned when a call is attempted on a closed
// transport. Unlike tool failures, this terminates the orchestration loop:
// the client owns the conversation history and reconnects fresh.
var ErrTransportClosed = errors.New("transport closed")

// ToolTransport is the connection to the tool server.
type ToolTransport interface {
	// ListTools returns the tool catalog exported by the server.
	ListTools(ctx context.Context) ([]ToolSpec, error)
	// CallTool executes a single tool call. callID is the wire-level call
	// identifier, unique per session. Tool-level failures are returned as
	// results with IsError set, not as errors.
	CallTool(ctx context.Context, callID, name string, arguments map[string]any) (ToolResult, error)
	Close() error
}

// MCPTransport talks to the MCP server over streamable HTTP, or SSE when the
// server URL ends in /sse.
type MCPTransport struct {
	client *mcpclient.Client
	closed atomic.Bool
}

var _ ToolTransport = (*MCPTransport)(nil)

func NewMCPTransport(ctx context.Context, serverURL string, timeout time.Duration) (*MCPTransport, error) {
	var client *mcpclient.Client
	var err error
	if strings.HasSuffix(serverURL, "/sse") {
		client, err = mcpclient.NewSSEMCPClient(serverURL)
	} else {
		client, err = mcpclient.NewStreamableHttpClient(serverURL, transport.WithHTTPTimeout(timeout))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	if err = client.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err = client.Initialize(ctx, mcp.InitializeRequest{
		Request: mcp.Request{Method: string(mcp.MethodInitialize)},
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "k8s-debugger-client",
				Version: "dev",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	return &MCPTransport{client: client}, nil
}

func (t *MCPTransport) ListTools(ctx context.Context) ([]ToolSpec, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	toolsResult, err := t.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	specs := make([]ToolSpec, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		schema, err := toSchemaMap(tool)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input schema for tool %s: %w", tool.Name, err)
		}
		specs = append(specs, ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		})
	}
	return specs, nil
}

func toSchemaMap(tool mcp.Tool) (map[string]any, error) {
	raw := []byte(tool.RawInputSchema)
	if len(raw) == 0 {
		var err error
		raw, err = json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, err
		}
	}
	schema := map[string]any{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (t *MCPTransport) CallTool(ctx context.Context, callID, name string, arguments map[string]any) (ToolResult, error) {
	if t.closed.Load() {
		return ToolResult{}, ErrTransportClosed
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	result, err := t.client.CallTool(ctx, mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: arguments,
			Meta:      &mcp.Meta{AdditionalFields: map[string]any{"callId": callID}},
		},
	})
	if err != nil {
		if t.closed.Load() {
			return ToolResult{}, ErrTransportClosed
		}
		return ToolResult{}, fmt.Errorf("tool call %s failed: %w", name, err)
	}
	return ToolResult{
		CallID:  callID,
		Content: firstText(result),
		IsError: result.IsError,
	}, nil
}

func (t *MCPTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.client.Close()
}

func firstText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
