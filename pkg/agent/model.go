package agent

import "context"

// ToolSpec describes a tool to the model: name, description, and the JSON
// schema of its parameters. This is the contract surface between the tool
// catalog exported by the server and the model's tool configuration.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

type StopReason string

const (
	// StopEndTurn means the model produced a final answer.
	StopEndTurn StopReason = "end_turn"
	// StopToolUse means the model requests one or more tool calls before it
	// can continue.
	StopToolUse StopReason = "tool_use"
)

// Completion is one model response: either final text or a tool-call batch.
type Completion struct {
	StopReason StopReason
	Text       string
	ToolCalls  []ToolCall
}

// ModelClient is the foundation-model capability the orchestration loop
// drives. Implementations translate the conversation and tool catalog to
// their provider's wire format.
type ModelClient interface {
	Complete(ctx context.Context, system string, messages []Message, tools []ToolSpec) (*Completion, error)
}
