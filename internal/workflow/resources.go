package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jorge-barreto/engmgr/internal/docs"
	"github.com/jorge-barreto/engmgr/internal/procedure"
	"github.com/jorge-barreto/engmgr/internal/project"
)

// Procedure returns the project's procedure with every placeholder
// resolved. When a variable is missing the raw text is returned behind a
// warning line.
func (s *Service) Procedure(ctx context.Context, projectName string) (string, error) {
	p, msg, err := s.open(ctx, projectName, true)
	if p == nil {
		return msg, err
	}
	text, err := p.Resolve()
	if err == nil {
		return text, nil
	}
	var missing *procedure.MissingVariablesError
	if !errors.As(err, &missing) {
		return "", err
	}
	s.log(ctx).Warn("workflow.procedure.substitution_failed", "project", projectName, "missing", strings.Join(missing.Names, ","))
	return "⚠️  Variable substitution incomplete\n\n" + p.Source, nil
}

// ConfigView returns the procedure file name and the variables as indented
// JSON in declaration order.
func (s *Service) ConfigView(ctx context.Context, projectName string) (string, error) {
	cfg, msg, err := s.loadConfig(ctx, projectName)
	if cfg == nil {
		return msg, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Configuration: %s\n\n", projectName)
	fmt.Fprintf(&b, "**Procedure file:** %s\n\n", cfg.ProcedureFile)
	if len(cfg.Variables) > 0 {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg.Variables); err != nil {
			return "", err
		}
		b.WriteString("## Template Variables\n\n```json\n")
		b.WriteString(strings.TrimRight(buf.String(), "\n"))
		b.WriteString("\n```\n")
	}
	return b.String(), nil
}

// Templates returns the template variable guide.
func (s *Service) Templates(context.Context) (string, error) {
	return docs.Templates(), nil
}

// Projects returns the readiness of every configured project.
func (s *Service) Projects(ctx context.Context) (string, error) {
	statuses := s.registry.Statuses()
	if len(statuses) == 0 {
		var b strings.Builder
		b.WriteString("# No Projects Configured\n\nAdd project configurations to one of these directories:\n\n")
		b.WriteString(bulletList(s.settings.ConfigPaths, "`%s`"))
		b.WriteString("\n\nConfiguration files should be named: `<project>-config.json`")
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString("# Available Projects\n\n")
	for _, st := range statuses {
		fmt.Fprintf(&b, "## %s\n\n", st.Name)
		switch {
		case st.Err != nil:
			s.log(ctx).Warn("workflow.projects.config_error", "project", st.Name, "error", st.Err)
			fmt.Fprintf(&b, "- **Status:** ❌ Configuration error: %s\n\n", project.Message(st.Err))
			continue
		case st.Ready():
			fmt.Fprintf(&b, "- **Procedure:** %s\n- **Status:** ✅ Ready\n", st.ProcedureFile)
		default:
			fmt.Fprintf(&b, "- **Procedure:** %s\n- **Status:** ❌ Procedure file missing\n", st.ProcedureFile)
		}
		b.WriteString("\n")
	}
	if d := s.settings.DefaultProject; d != "" {
		fmt.Fprintf(&b, "\n**Default project:** %s\n", d)
	}
	return b.String(), nil
}
