package plan

import (
	"gopkg.in/yaml.v3"
)

// ExportedStruct is the YAML view of a StructPlan.
type ExportedStruct struct {
	Name    string          `yaml:"name"`
	Target  string          `yaml:"target"`
	Derives []string        `yaml:"derives"`
	Fields  []ExportedField `yaml:"fields,omitempty"`
}

// ExportedField is the YAML view of a FieldPlan.
type ExportedField struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Class    string `yaml:"class"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Strategy string `yaml:"strategy"`
}

// Export converts plans into their reviewable form.
func Export(plans []StructPlan) []ExportedStruct {
	out := make([]ExportedStruct, 0, len(plans))

	for _, p := range plans {
		es := ExportedStruct{
			Name:   p.Receiver(),
			Target: p.Target,
		}

		for _, d := range p.Directions {
			es.Derives = append(es.Derives, d.String())
		}

		for _, f := range p.Fields {
			es.Fields = append(es.Fields, ExportedField{
				Name:     f.Name,
				Type:     f.Type,
				Class:    f.Class.String(),
				Nullable: f.Nullable,
				Strategy: f.Strategy.String(),
			})
		}

		out = append(out, es)
	}

	return out
}

// ExportYAML renders plans as YAML for the analyze command.
func ExportYAML(plans []StructPlan) ([]byte, error) {
	return yaml.Marshal(Export(plans))
}
