package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VarEntry is one project variable in declaration order.
type VarEntry struct {
	Key   string
	Value any
}

// Number is a numeric variable kept as written in the config file, so 1.0
// stays "1.0" and 1e3 stays "1e3" when substituted.
type Number string

func (n Number) String() string { return string(n) }

// MarshalJSON writes n as a bare JSON number when its text is one, and as a
// string otherwise (YAML forms such as 0x1F or .inf).
func (n Number) MarshalJSON() ([]byte, error) {
	if n != "" && n[0] != '+' && json.Valid([]byte(n)) {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// OrderedVars keeps project variables in the order they are declared.
type OrderedVars []VarEntry

// UnmarshalYAML decodes a mapping of scalars without losing key order.
func (o *OrderedVars) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables must be a mapping", node.Line)
	}
	vars := make(OrderedVars, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: variable %q must be a string, number or boolean", v.Line, k.Value)
		}
		var value any
		switch v.Tag {
		case "!!null":
			value = ""
		case "!!int", "!!float":
			value = Number(v.Value)
		case "!!timestamp":
			value = v.Value
		default:
			if err := v.Decode(&value); err != nil {
				return fmt.Errorf("line %d: variable %q: %w", v.Line, k.Value, err)
			}
		}
		vars = append(vars, VarEntry{Key: k.Value, Value: value})
	}
	*o = vars
	return nil
}

// Keys returns the variable names in order.
func (o OrderedVars) Keys() []string {
	keys := make([]string, len(o))
	for i, e := range o {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON writes the variables as a JSON object in declaration order,
// leaving <, > and & unescaped.
func (o OrderedVars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	encode := func(v any) ([]byte, error) {
		buf.Reset()
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}

	out := []byte{'{'}
	for i, e := range o {
		if i > 0 {
			out = append(out, ',')
		}
		key, err := encode(e.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, key...)
		out = append(out, ':')
		value, err := encode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", e.Key, err)
		}
		out = append(out, value...)
	}
	return append(out, '}'), nil
}

// ProjectConfig is a <project>-config.{json,yaml,yml} file.
type ProjectConfig struct {
	ProjectName   string      `yaml:"project_name" json:"project_name"`
	ProcedureFile string      `yaml:"procedure_file" json:"procedure_file"`
	Description   string      `yaml:"description" json:"description"`
	Variables     OrderedVars `yaml:"variables" json:"variables"`
}

// LoadProject reads a project config file. JSON files are read as YAML,
// which accepts them unchanged. project_name defaults to name.
func LoadProject(path, name string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProject(data, name)
}

// ParseProject decodes and validates project config data.
func ParseProject(data []byte, name string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = name
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
