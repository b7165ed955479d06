package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"
)

// CallIDMetaKey is the request _meta key that carries the caller-assigned
// call identifier. Clients that don't set it get a server-generated one.
const CallIDMetaKey = "callId"

func toGoSdkTool(tool *RegisteredTool) *mcp.Tool {
	return &mcp.Tool{
		Name:        tool.Tool.Name,
		Description: tool.Tool.Description,
		InputSchema: tool.Tool.InputSchema,
		Annotations: &mcp.ToolAnnotations{
			Title:           tool.Tool.Annotations.Title,
			ReadOnlyHint:    ptr.Deref(tool.Tool.Annotations.ReadOnlyHint, false),
			DestructiveHint: tool.Tool.Annotations.DestructiveHint,
			IdempotentHint:  ptr.Deref(tool.Tool.Annotations.IdempotentHint, false),
			OpenWorldHint:   tool.Tool.Annotations.OpenWorldHint,
		},
	}
}

// toolHandler adapts a registered tool to the go-sdk handler signature. The
// request context is derived from the client connection, disconnects cancel
// in-flight executions. Protocol violations and execution failures alike are
// delivered as tool results, never as JSON-RPC errors, so a bad call
// terminates only that call.
func (s *Server) toolHandler(tool *RegisteredTool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return NewTextResult("", fmt.Errorf("%w: %v", ErrInvalidArgument, err)), nil
			}
		}

		callID := ""
		if meta := req.Params.GetMeta(); meta != nil {
			callID, _ = meta[CallIDMetaKey].(string)
		}
		if callID == "" {
			callID = uuid.NewString()
		}

		sessionID := ""
		if req.Session != nil {
			sessionID = req.Session.ID()
		}

		result, err := s.sessions.Dispatch(ctx, sessionID, &CallRequest{
			ID:        callID,
			Tool:      tool.Tool.Name,
			Arguments: args,
			IssuedAt:  time.Now(),
		})
		if err != nil {
			return NewTextResult("", err), nil
		}
		return NewTextResult(result.Content, result.Error), nil
	}
}
