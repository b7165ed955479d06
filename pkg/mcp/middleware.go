package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/klog/v2"
)

func toolCallLoggingMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch params := req.GetParams().(type) {
		case *mcp.CallToolParamsRaw:
			klog.V(5).Infof("mcp tool call: %s(%s)", params.Name, string(params.Arguments))
		default:
			if klog.V(7).Enabled() {
				raw, _ := json.Marshal(req.GetParams())
				klog.V(7).Infof("mcp request: %s %s", method, string(raw))
			}
		}
		return next(ctx, method, req)
	}
}
