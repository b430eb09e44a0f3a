package project

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/procedure"
)

// Meta is the optional YAML front matter of a procedure file.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
	Owner       string   `yaml:"owner"`
	Tags        []string `yaml:"tags"`
}

// Empty reports whether no front matter field is set.
func (m Meta) Empty() bool {
	return m.Title == "" && m.Description == "" && m.Version == "" &&
		m.Owner == "" && len(m.Tags) == 0
}

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

func splitFrontMatter(raw []byte) (Meta, string, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta, yamlFrontMatter)
	if err != nil {
		return Meta{}, "", err
	}
	return meta, string(body), nil
}

// Project is an opened project: its config plus the procedure source with
// any front matter removed and line endings normalised to \n.
type Project struct {
	Name          string
	Config        *config.ProjectConfig
	ProcedurePath string
	Meta          Meta
	Source        string
}

// Vars returns the config variables in declaration order.
func (p *Project) Vars() procedure.Vars {
	vars := make(procedure.Vars, 0, len(p.Config.Variables))
	for _, e := range p.Config.Variables {
		vars = append(vars, procedure.Var{Name: e.Key, Value: e.Value})
	}
	return vars
}

// Resolve returns the source with every placeholder substituted, or a
// *procedure.MissingVariablesError.
func (p *Project) Resolve() (string, error) {
	return procedure.Substitute(p.Source, p.Vars())
}

// Document parses the raw procedure source. Sections and steps keep their
// placeholders; only Resolve fills them in.
func (p *Project) Document() *procedure.Document {
	return procedure.New(p.Source, p.Vars())
}
