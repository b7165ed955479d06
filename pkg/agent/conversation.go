package agent

import "sync"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries tool results back to the model. On the wire these are
	// delivered as user messages with tool-result blocks.
	RoleTool Role = "tool"
)

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of one tool call, correlated by the call ID.
// Failed calls are results too, the model decides how to react to them.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// Message is one entry in the conversation: user text, assistant text, an
// assistant tool-call batch, or a batch of tool results.
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// Conversation is the append-only message history of a debugging session.
// Messages are never mutated or removed, the history only grows.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
}

func (c *Conversation) Append(message Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}
