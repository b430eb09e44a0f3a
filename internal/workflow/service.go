// Package workflow answers workflow questions about a project's procedure:
// the next step, a named section, the step list, and project details. Every
// answer is user-facing markdown; a non-nil error is reserved for failures
// the caller should report as unexpected.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/logging"
	"github.com/jorge-barreto/engmgr/internal/procedure"
	"github.com/jorge-barreto/engmgr/internal/project"
)

// MaxSuggestions caps the section suggestions shown on a lookup miss.
const MaxSuggestions = 5

// Service runs workflow operations against a project registry. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	registry *project.Registry
	settings config.Settings
	logger   logging.Logger
}

// NewService returns a Service over registry.
func NewService(registry *project.Registry, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		registry: registry,
		settings: registry.Settings(),
		logger:   logger,
	}
}

// Registry returns the underlying project registry.
func (s *Service) Registry() *project.Registry { return s.registry }

// DefaultProject returns the configured default project, possibly "".
func (s *Service) DefaultProject() string { return s.settings.DefaultProject }

// NextStep returns step 1 when current is nil or 0, and the step numbered
// *current+1 otherwise.
func (s *Service) NextStep(ctx context.Context, projectName string, current *int) (string, error) {
	name, ok := s.projectOrDefault(projectName)
	if !ok {
		return s.noProjectMessage(true), nil
	}
	p, msg, err := s.open(ctx, name, true)
	if p == nil {
		return msg, err
	}
	doc := p.Document()

	n := 0
	if current != nil {
		n = *current
	}
	if n == 0 {
		step, ok := doc.Step(1)
		if !ok {
			return "❌ No steps found in procedure file", nil
		}
		return step.Format(), nil
	}
	step, ok := doc.NextStep(n)
	if !ok {
		return fmt.Sprintf("✅ Workflow complete! You've finished step %d.\n\nNo more steps in this procedure.", n), nil
	}
	s.log(ctx).Debug("workflow.next_step", "project", name, "current", n, "next", step.Number)
	return step.Format(), nil
}

// Section returns the section titled title, or suggestions for titles and
// bodies mentioning it.
func (s *Service) Section(ctx context.Context, title, projectName string) (string, error) {
	name, ok := s.projectOrDefault(projectName)
	if !ok {
		return s.noProjectMessage(false), nil
	}
	p, msg, err := s.open(ctx, name, false)
	if p == nil {
		return msg, err
	}
	doc := p.Document()

	if body, ok := doc.Section(title); ok {
		return fmt.Sprintf("## %s\n\n%s", title, body), nil
	}

	matches := doc.FindSections(title)
	if len(matches) == 0 {
		return "❌ Section not found: " + title, nil
	}
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Section not found: %s\n\nDid you mean one of these?", title)
	for _, m := range matches {
		b.WriteString("\n- ")
		b.WriteString(m.Title)
	}
	return b.String(), nil
}

// ListSteps returns the "N. Title" summary of every step.
func (s *Service) ListSteps(ctx context.Context, projectName string) (string, error) {
	name, ok := s.projectOrDefault(projectName)
	if !ok {
		return s.noProjectMessage(false), nil
	}
	p, msg, err := s.open(ctx, name, false)
	if p == nil {
		return msg, err
	}
	return p.Document().StepsSummary(), nil
}

// ListProjects returns the configured project names and the default project.
func (s *Service) ListProjects(ctx context.Context) (string, error) {
	names := s.registry.ListProjects()
	if len(names) == 0 {
		var b strings.Builder
		b.WriteString("❌ No projects configured.\n\nAdd project configurations to one of these directories:\n")
		b.WriteString(bulletList(s.settings.ConfigPaths, "%s"))
		b.WriteString("\n\nConfiguration files should be named: <project>-config.json")
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString("# Available Projects\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- **%s**\n", n)
	}
	if d := s.settings.DefaultProject; d != "" {
		fmt.Fprintf(&b, "\nDefault project: **%s**", d)
	}
	return b.String(), nil
}

// ProjectInfo describes a project's config, variables and procedure file.
// When the procedure opens, its front matter and any placeholders without a
// value are listed too.
func (s *Service) ProjectInfo(ctx context.Context, projectName string) (string, error) {
	cfg, msg, err := s.loadConfig(ctx, projectName)
	if cfg == nil {
		return msg, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n\n", cfg.ProjectName)
	fmt.Fprintf(&b, "**Procedure file:** %s\n\n", cfg.ProcedureFile)
	if cfg.Description != "" {
		fmt.Fprintf(&b, "**Description:** %s\n\n", cfg.Description)
	}
	if len(cfg.Variables) > 0 {
		b.WriteString("## Template Variables\n\n")
		for _, v := range cfg.Variables {
			fmt.Fprintf(&b, "- `%s` = %v\n", v.Key, v.Value)
		}
	}

	path, found := s.registry.FindProcedure(cfg.ProcedureFile)
	if !found {
		fmt.Fprintf(&b, "\n❌ Procedure file not found: %s", cfg.ProcedureFile)
		return b.String(), nil
	}
	fmt.Fprintf(&b, "\n✅ Procedure file found: %s", path)

	p, err := s.registry.Open(projectName)
	if err != nil {
		s.log(ctx).Warn("workflow.project_info.open", "project", projectName, "error", err)
		fmt.Fprintf(&b, "\n\n❌ %s", project.Message(err))
		return b.String(), nil
	}
	if !p.Meta.Empty() {
		b.WriteString("\n\n## Procedure Metadata\n")
		writeMeta(&b, p.Meta)
	}
	if missing := procedure.MissingVariables(p.Source, p.Vars()); len(missing) > 0 {
		fmt.Fprintf(&b, "\n\n⚠️  Unresolved placeholders: %s", strings.Join(missing, ", "))
	}
	return b.String(), nil
}

func writeMeta(b *strings.Builder, m project.Meta) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(b, "\n- **%s:** %s", label, value)
		}
	}
	field("Title", m.Title)
	field("Description", m.Description)
	field("Version", m.Version)
	field("Owner", m.Owner)
	field("Tags", strings.Join(m.Tags, ", "))
}

func (s *Service) projectOrDefault(name string) (string, bool) {
	if name = strings.TrimSpace(name); name != "" {
		return name, true
	}
	if d := s.settings.DefaultProject; d != "" {
		return d, true
	}
	return "", false
}

func (s *Service) noProjectMessage(hint bool) string {
	var b strings.Builder
	b.WriteString("❌ No project specified and no default project configured.\n\n")
	if hint {
		b.WriteString("Please specify a project name or set " + config.EnvPrefix + "DEFAULT_PROJECT.\n\n")
	}
	b.WriteString("Available projects: " + strings.Join(s.registry.ListProjects(), ", "))
	return b.String()
}

// open returns the opened project, or a user-facing message when the
// project or its procedure does not exist. Other failures are returned as
// errors.
func (s *Service) open(ctx context.Context, name string, searchHint bool) (*project.Project, string, error) {
	p, err := s.registry.Open(name)
	if err == nil {
		return p, "", nil
	}
	if !project.IsNotFound(err) {
		s.log(ctx).Error("workflow.open", "project", name, "error", err)
		return nil, "", err
	}
	msg := "❌ " + project.Message(err)
	if searchHint && project.Code(err) == project.CodeProcedureNotFound {
		msg += fmt.Sprintf("\n\nSearched in: %s and config paths", s.settings.ProceduresDir)
	}
	return nil, msg, nil
}

func (s *Service) loadConfig(ctx context.Context, name string) (*config.ProjectConfig, string, error) {
	cfg, err := s.registry.LoadConfig(name)
	if err == nil {
		return cfg, "", nil
	}
	if project.IsNotFound(err) {
		return nil, "❌ " + project.Message(err), nil
	}
	s.log(ctx).Error("workflow.load_config", "project", name, "error", err)
	return nil, "", err
}

func (s *Service) log(ctx context.Context) logging.Logger {
	if ctx == nil {
		return s.logger
	}
	return s.logger.WithContext(ctx)
}

func bulletList(items []string, format string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + fmt.Sprintf(format, it)
	}
	return strings.Join(lines, "\n")
}

// ErrorText renders an unexpected failure for a user: "❌ Error <action>: <detail>".
func ErrorText(action string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error %s: %s", action, project.Message(err))
}
