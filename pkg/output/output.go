package output

import (
	"encoding/json"

	yml "sigs.k8s.io/yaml"
)

var Yaml = &yaml{}

var Json = &jsonOutput{}

type Output interface {
	// GetName returns the name of the output format, will be used by the CLI to identify the output format.
	GetName() string
	// PrintObj prints the given object as a string.
	PrintObj(obj any) (string, error)
}

var Outputs = []Output{
	Yaml,
	Json,
}

var Names []string

func FromString(name string) Output {
	for _, output := range Outputs {
		if output.GetName() == name {
			return output
		}
	}
	return nil
}

type yaml struct{}

func (p *yaml) GetName() string {
	return "yaml"
}
func (p *yaml) PrintObj(obj any) (string, error) {
	return MarshalYaml(obj)
}

type jsonOutput struct{}

func (p *jsonOutput) GetName() string {
	return "json"
}
func (p *jsonOutput) PrintObj(obj any) (string, error) {
	ret, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

func MarshalYaml(v any) (string, error) {
	ret, err := yml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

func init() {
	Names = make([]string, 0)
	for _, output := range Outputs {
		Names = append(Names, output.GetName())
	}
}
