package mcp

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
)

var (
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrUnknownTool is returned when a call names a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArgument is returned when call arguments do not conform to the
	// tool's input schema.
	ErrInvalidArgument = errors.New("invalid tool arguments")
)

// RegisteredTool is a ServerTool with its input schema resolved for
// call-time argument validation.
type RegisteredTool struct {
	api.ServerTool
	resolved *jsonschema.Resolved
}

// ValidateArguments checks the call arguments against the tool's input
// schema. Arguments not declared in the schema are rejected, a tool call with
// unknown extra fields almost always signals a hallucinated parameter.
func (t *RegisteredTool) ValidateArguments(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	for key := range args {
		if _, ok := t.Tool.InputSchema.Properties[key]; !ok {
			return fmt.Errorf("%w: unknown argument %q for tool %s", ErrInvalidArgument, key, t.Tool.Name)
		}
	}
	if err := t.resolved.Validate(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// Registry holds the fixed set of tools exposed to clients. It is immutable
// after NewRegistry, lookups need no locking.
type Registry struct {
	byName  map[string]*RegisteredTool
	ordered []*RegisteredTool
}

// NewRegistry builds a registry from the given tools. Registration fails on
// duplicate names, missing or malformed input schemas, and tools not
// annotated read-only: this server only ever inspects the cluster.
func NewRegistry(tools []api.ServerTool) (*Registry, error) {
	r := &Registry{byName: make(map[string]*RegisteredTool, len(tools))}
	for _, tool := range tools {
		if err := r.register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(tool api.ServerTool) error {
	name := tool.Tool.Name
	if name == "" {
		return errors.New("tool name must not be empty")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	if !ptr.Deref(tool.Tool.Annotations.ReadOnlyHint, false) {
		return fmt.Errorf("tool %s is not annotated read-only", name)
	}
	if tool.Tool.InputSchema == nil {
		return fmt.Errorf("tool %s has no input schema", name)
	}
	resolved, err := tool.Tool.InputSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("tool %s has a malformed input schema: %w", name, err)
	}
	registered := &RegisteredTool{ServerTool: tool, resolved: resolved}
	r.byName[name] = registered
	r.ordered = append(r.ordered, registered)
	return nil
}

// Lookup returns the registered tool by name.
func (r *Registry) Lookup(name string) (*RegisteredTool, error) {
	tool, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool, nil
}

// List returns the tools in registration order. The order is stable for the
// lifetime of the process.
func (r *Registry) List() []*RegisteredTool {
	return append([]*RegisteredTool(nil), r.ordered...)
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, tool := range r.ordered {
		names = append(names, tool.Tool.Name)
	}
	return names
}
