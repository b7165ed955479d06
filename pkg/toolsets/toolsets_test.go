package toolsets

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/bdastur/k8s-debugger/pkg/api"
)

type testToolset struct {
	name string
}

func (t *testToolset) GetName() string        { return t.name }
func (t *testToolset) GetDescription() string { return "toolset " + t.name }
func (t *testToolset) GetTools() []api.ServerTool {
	return nil
}

type ToolsetsSuite struct {
	suite.Suite
	originalToolsets []api.Toolset
}

func (s *ToolsetsSuite) SetupTest() {
	s.originalToolsets = Toolsets()
	Clear()
}

func (s *ToolsetsSuite) TearDownTest() {
	Clear()
	for _, toolset := range s.originalToolsets {
		Register(toolset)
	}
}

func (s *ToolsetsSuite) TestRegister() {
	Register(&testToolset{name: "beta"})
	Register(&testToolset{name: "alpha"})

	s.Run("registered toolsets are returned", func() {
		s.Len(Toolsets(), 2)
	})
	s.Run("names are sorted", func() {
		s.Equal([]string{"alpha", "beta"}, ToolsetNames())
	})
}

func (s *ToolsetsSuite) TestToolsetFromString() {
	Register(&testToolset{name: "alpha"})

	s.Run("known name resolves", func() {
		s.NotNil(ToolsetFromString("alpha"))
	})
	s.Run("name is trimmed", func() {
		s.NotNil(ToolsetFromString(" alpha "))
	})
	s.Run("unknown name returns nil", func() {
		s.Nil(ToolsetFromString("unknown"))
	})
}

func (s *ToolsetsSuite) TestValidate() {
	Register(&testToolset{name: "alpha"})

	s.NoError(Validate([]string{"alpha"}))
	s.Error(Validate([]string{"alpha", "unknown"}))
}

func TestToolsets(t *testing.T) {
	suite.Run(t, new(ToolsetsSuite))
}
