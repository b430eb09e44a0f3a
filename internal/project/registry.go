// Package project locates project configs and procedure files on disk and
// opens them as procedure documents.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/logging"
)

// configSuffixes are tried in order for <project>-config.<ext>.
var configSuffixes = []string{"-config.json", "-config.yaml", "-config.yml"}

// Registry resolves project names against the configured search paths.
// Every call reads the filesystem again.
type Registry struct {
	settings config.Settings
	logger   logging.Logger
}

// NewRegistry returns a Registry for settings. A nil logger discards output.
func NewRegistry(settings config.Settings, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Registry{settings: settings, logger: logger}
}

// Settings returns the settings the registry was built with.
func (r *Registry) Settings() config.Settings { return r.settings }

// FindConfig returns the first <name>-config.{json,yaml,yml} across the
// config paths.
func (r *Registry) FindConfig(name string) (string, bool) {
	if !validName(name) {
		return "", false
	}
	for _, dir := range r.settings.ExpandedConfigPaths() {
		for _, suffix := range configSuffixes {
			p := filepath.Join(dir, name+suffix)
			if isFile(p) {
				r.logger.Debug("project.config.found", "project", name, "path", p)
				return p, true
			}
		}
	}
	r.logger.Warn("project.config.missing", "project", name)
	return "", false
}

// LoadConfig finds and decodes the config for name.
func (r *Registry) LoadConfig(name string) (*config.ProjectConfig, error) {
	path, ok := r.FindConfig(name)
	if !ok {
		return nil, notFound(
			fmt.Sprintf("Project configuration not found: %s. Searched in: %s",
				name, strings.Join(r.settings.ExpandedConfigPaths(), ", ")),
			CodeProjectNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readFailed(err, fmt.Sprintf("Failed to load project config %s", path), CodeConfigReadFailed)
	}
	cfg, err := config.ParseProject(data, name)
	if err != nil {
		return nil, invalidConfig(err, fmt.Sprintf("Invalid project config %s", path))
	}
	r.logger.Info("project.config.loaded", "project", name, "path", path)
	return cfg, nil
}

// FindProcedure resolves a procedure file name. Absolute paths are used as
// is; relative names are looked up in the procedures dir and then in each
// config path.
func (r *Registry) FindProcedure(file string) (string, bool) {
	if file == "" {
		return "", false
	}
	if filepath.IsAbs(file) {
		return file, isFile(file)
	}
	var dirs []string
	if dir, err := config.ExpandPath(r.settings.ProceduresDir); err == nil {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, r.settings.ExpandedConfigPaths()...)
	for _, dir := range dirs {
		p := filepath.Join(dir, file)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

// ListProjects returns the sorted distinct project names that have a config
// file in any config path.
func (r *Registry) ListProjects() []string {
	seen := map[string]bool{}
	for _, dir := range r.settings.ExpandedConfigPaths() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			r.logger.Warn("project.list.read_dir", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if name, ok := projectName(e.Name()); ok {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open loads the project's config and procedure source.
func (r *Registry) Open(name string) (*Project, error) {
	cfg, err := r.LoadConfig(name)
	if err != nil {
		return nil, err
	}
	path, ok := r.FindProcedure(cfg.ProcedureFile)
	if !ok {
		return nil, notFound(fmt.Sprintf("Procedure file not found: %s", cfg.ProcedureFile), CodeProcedureNotFound)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, readFailed(err, fmt.Sprintf("Failed to read procedure file %s", path), CodeProcedureRead)
	}
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, readFailed(err, fmt.Sprintf("Invalid front matter in %s", path), CodeProcedureRead)
	}
	r.logger.Debug("project.opened", "project", name, "procedure", path, "bytes", len(raw))
	return &Project{
		Name:          name,
		Config:        cfg,
		ProcedurePath: path,
		Meta:          meta,
		Source:        strings.ReplaceAll(body, "\r\n", "\n"),
	}, nil
}

// Status is the readiness of one project.
type Status struct {
	Name          string
	ProcedureFile string
	ProcedurePath string
	Err           error
}

// Ready reports whether the config loaded and the procedure file exists.
func (s Status) Ready() bool { return s.Err == nil && s.ProcedurePath != "" }

// Statuses returns the readiness of every listed project.
func (r *Registry) Statuses() []Status {
	names := r.ListProjects()
	out := make([]Status, 0, len(names))
	for _, name := range names {
		st := Status{Name: name}
		cfg, err := r.LoadConfig(name)
		if err != nil {
			st.Err = err
			out = append(out, st)
			continue
		}
		st.ProcedureFile = cfg.ProcedureFile
		if p, ok := r.FindProcedure(cfg.ProcedureFile); ok {
			st.ProcedurePath = p
		}
		out = append(out, st)
	}
	return out
}

func projectName(file string) (string, bool) {
	for _, suffix := range configSuffixes {
		if name, ok := strings.CutSuffix(file, suffix); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// validName rejects names that would escape the config directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
