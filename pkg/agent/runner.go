package agent

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ErrMaxTurnsExceeded is returned when the model keeps requesting tools past
// the turn bound without producing a final answer.
var ErrMaxTurnsExceeded = errors.New("max turns exceeded")

// MaxTurnsError carries the conversation trace accumulated before the turn
// bound was hit, so callers can surface the partial investigation.
type MaxTurnsError struct {
	Turns int
	Trace []Message
}

func (e *MaxTurnsError) Error() string {
	return fmt.Sprintf("no final answer after %d turns", e.Turns)
}

func (e *MaxTurnsError) Unwrap() error {
	return ErrMaxTurnsExceeded
}

// Runner drives the model/tool orchestration loop for one conversation.
type Runner struct {
	Model        ModelClient
	Transport    ToolTransport
	SystemPrompt string
	// MaxTurns bounds the number of model completions per Run call.
	MaxTurns int

	conversation Conversation
	tools        []ToolSpec
}

func NewRunner(model ModelClient, transport ToolTransport, systemPrompt string, maxTurns int) *Runner {
	return &Runner{
		Model:        model,
		Transport:    transport,
		SystemPrompt: systemPrompt,
		MaxTurns:     maxTurns,
	}
}

// Messages returns a copy of the conversation so far.
func (r *Runner) Messages() []Message {
	return r.conversation.Messages()
}

// Run appends the user query to the conversation and loops model completions
// against tool-call batches until the model produces a final answer or the
// turn bound is exceeded. The conversation is retained across Run calls, so
// follow-up questions see the full history.
func (r *Runner) Run(ctx context.Context, query string) (string, error) {
	if r.tools == nil {
		tools, err := r.Transport.ListTools(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load tool catalog: %w", err)
		}
		r.tools = tools
	}

	r.conversation.Append(Message{Role: RoleUser, Text: query})

	for turn := 0; turn < r.MaxTurns; turn++ {
		completion, err := r.Model.Complete(ctx, r.SystemPrompt, r.conversation.Messages(), r.tools)
		if err != nil {
			return "", err
		}

		if completion.StopReason != StopToolUse {
			r.conversation.Append(Message{Role: RoleAssistant, Text: completion.Text})
			return completion.Text, nil
		}

		r.conversation.Append(Message{
			Role:      RoleAssistant,
			Text:      completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		results, err := r.dispatchBatch(ctx, completion.ToolCalls)
		if err != nil {
			return "", err
		}
		r.conversation.Append(Message{Role: RoleTool, ToolResults: results})
	}

	return "", &MaxTurnsError{Turns: r.MaxTurns, Trace: r.conversation.Messages()}
}

// dispatchBatch executes a tool-call batch concurrently and waits for every
// call to finish before returning. Tool failures become error results the
// model can reason about, only a dead transport aborts the batch.
func (r *Runner) dispatchBatch(ctx context.Context, calls []ToolCall) ([]ToolResult, error) {
	results := make([]ToolResult, len(calls))
	g, gCtx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			klog.V(5).Infof("dispatching tool call %s (%s)", call.Name, call.ID)
			result, err := r.Transport.CallTool(gCtx, call.ID, call.Name, call.Arguments)
			if err != nil {
				if errors.Is(err, ErrTransportClosed) {
					return err
				}
				result = ToolResult{CallID: call.ID, Content: err.Error(), IsError: true}
			}
			result.CallID = call.ID
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
