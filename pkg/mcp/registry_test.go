package mcp

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/suite"
	"k8s.io/utils/ptr"

	"github.com/bdastur/k8s-debugger/pkg/api"
)

func testTool(name string) api.ServerTool {
	return api.ServerTool{
		Tool: api.Tool{
			Name:        name,
			Description: "test tool " + name,
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"namespace": {Type: "string"},
					"name":      {Type: "string"},
				},
				Required: []string{"name"},
			},
			Annotations: api.ToolAnnotations{ReadOnlyHint: ptr.To(true)},
		},
		Handler: func(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
			return api.NewToolCallResult("ok", nil), nil
		},
	}
}

type RegistrySuite struct {
	suite.Suite
}

func (s *RegistrySuite) TestRegisterAndLookup() {
	registry, err := NewRegistry([]api.ServerTool{testTool("pods_list"), testTool("nodes_list")})
	s.Require().NoError(err)

	s.Run("registered tool is returned by lookup", func() {
		tool, err := registry.Lookup("pods_list")
		s.Require().NoError(err)
		s.Equal("pods_list", tool.Tool.Name)
	})
	s.Run("unknown tool returns ErrUnknownTool", func() {
		_, err := registry.Lookup("missing")
		s.ErrorIs(err, ErrUnknownTool)
		s.Contains(err.Error(), "missing")
	})
}

func (s *RegistrySuite) TestDuplicateNameRejected() {
	_, err := NewRegistry([]api.ServerTool{testTool("pods_list"), testTool("pods_list")})
	s.ErrorIs(err, ErrDuplicateTool)
}

func (s *RegistrySuite) TestListOrderIsStable() {
	tools := []api.ServerTool{testTool("c"), testTool("a"), testTool("b")}
	registry, err := NewRegistry(tools)
	s.Require().NoError(err)

	s.Equal([]string{"c", "a", "b"}, registry.Names())
	s.Equal(registry.Names(), registry.Names(), "repeated calls return the same order")
}

func (s *RegistrySuite) TestRegistrationRejections() {
	s.Run("empty name", func() {
		tool := testTool("")
		_, err := NewRegistry([]api.ServerTool{tool})
		s.Error(err)
	})
	s.Run("missing schema", func() {
		tool := testTool("pods_list")
		tool.Tool.InputSchema = nil
		_, err := NewRegistry([]api.ServerTool{tool})
		s.ErrorContains(err, "no input schema")
	})
	s.Run("malformed schema", func() {
		tool := testTool("pods_list")
		tool.Tool.InputSchema = &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"name": {Type: "string", Pattern: "["}},
		}
		_, err := NewRegistry([]api.ServerTool{tool})
		s.ErrorContains(err, "malformed input schema")
	})
	s.Run("tool without read-only annotation", func() {
		tool := testTool("pods_delete")
		tool.Tool.Annotations.ReadOnlyHint = nil
		_, err := NewRegistry([]api.ServerTool{tool})
		s.ErrorContains(err, "not annotated read-only")
	})
}

func (s *RegistrySuite) TestValidateArguments() {
	registry, err := NewRegistry([]api.ServerTool{testTool("pods_get")})
	s.Require().NoError(err)
	tool, err := registry.Lookup("pods_get")
	s.Require().NoError(err)

	s.Run("valid arguments accepted", func() {
		s.NoError(tool.ValidateArguments(map[string]any{"name": "nginx", "namespace": "default"}))
	})
	s.Run("missing required argument rejected", func() {
		err := tool.ValidateArguments(map[string]any{"namespace": "default"})
		s.ErrorIs(err, ErrInvalidArgument)
	})
	s.Run("wrong type rejected", func() {
		err := tool.ValidateArguments(map[string]any{"name": 42})
		s.ErrorIs(err, ErrInvalidArgument)
	})
	s.Run("unknown extra argument rejected", func() {
		err := tool.ValidateArguments(map[string]any{"name": "nginx", "pod": "nginx"})
		s.ErrorIs(err, ErrInvalidArgument)
		s.Contains(err.Error(), "pod")
	})
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}
