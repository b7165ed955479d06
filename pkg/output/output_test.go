package output

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OutputSuite struct {
	suite.Suite
}

func (s *OutputSuite) TestFromString() {
	s.Run("yaml returns Yaml output", func() {
		s.Equal(Yaml, FromString("yaml"))
	})
	s.Run("json returns Json output", func() {
		s.Equal(Json, FromString("json"))
	})
	s.Run("unknown returns nil", func() {
		s.Nil(FromString("table"))
	})
}

func (s *OutputSuite) TestNames() {
	s.Equal([]string{"yaml", "json"}, Names)
}

func (s *OutputSuite) TestPrintObj() {
	obj := map[string]any{"name": "nginx", "ready": true}
	s.Run("yaml", func() {
		out, err := Yaml.PrintObj(obj)
		s.Require().NoError(err)
		s.Contains(out, "name: nginx")
		s.Contains(out, "ready: true")
	})
	s.Run("json", func() {
		out, err := Json.PrintObj(obj)
		s.Require().NoError(err)
		s.Contains(out, `"name": "nginx"`)
	})
}

func TestOutput(t *testing.T) {
	suite.Run(t, new(OutputSuite))
}
