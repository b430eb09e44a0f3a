package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/procedure"
)

const trowelWorkflow = `# Trowel Workflow

## 1. Create branch
git checkout -b {BRANCH_PREFIX}/{ISSUE_NUMBER}

## 2. Open PR
Open a PR against {DEFAULT_BRANCH}.

## Quality Gates
Run the tests.
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRegistry(t *testing.T, configDirs ...string) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	settings := config.Defaults()
	settings.ProceduresDir = filepath.Join(root, "procedures")
	settings.ConfigPaths = []string{settings.ProceduresDir}
	for _, d := range configDirs {
		settings.ConfigPaths = append(settings.ConfigPaths, filepath.Join(root, d))
	}
	require.NoError(t, os.MkdirAll(settings.ProceduresDir, 0755))
	return NewRegistry(settings, nil), root
}

func TestRegistry_LoadConfig(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "trowel-config.json"), `{
  "procedure_file": "trowel-workflow.md",
  "variables": {"DEFAULT_BRANCH": "main", "BRANCH_PREFIX": "feature", "ISSUE_NUMBER": 42}
}`)

	cfg, err := r.LoadConfig("trowel")
	require.NoError(t, err)
	assert.Equal(t, "trowel", cfg.ProjectName)
	assert.Equal(t, "trowel-workflow.md", cfg.ProcedureFile)
	assert.Equal(t, []string{"DEFAULT_BRANCH", "BRANCH_PREFIX", "ISSUE_NUMBER"}, cfg.Variables.Keys())
}

func TestRegistry_LoadConfig_NotFound(t *testing.T) {
	r, root := newTestRegistry(t)

	_, err := r.LoadConfig("ghost")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t,
		"Project configuration not found: ghost. Searched in: "+filepath.Join(root, "procedures"),
		Message(err))
}

func TestRegistry_LoadConfig_Invalid(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "broken-config.yaml"), "description: no procedure\n")

	_, err := r.LoadConfig("broken")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, Message(err), "procedure_file is required")
}

func TestRegistry_FindConfig_FirstPathWins(t *testing.T) {
	r, root := newTestRegistry(t, "home")
	first := filepath.Join(root, "procedures", "trowel-config.yml")
	writeFile(t, first, "procedure_file: a.md\n")
	writeFile(t, filepath.Join(root, "home", "trowel-config.json"), `{"procedure_file": "b.md"}`)

	got, ok := r.FindConfig("trowel")
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestRegistry_FindConfig_RejectsPathNames(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, name := range []string{"", ".", "..", "../etc", `a\b`} {
		_, ok := r.FindConfig(name)
		assert.False(t, ok, name)
	}
}

func TestRegistry_FindProcedure_SearchOrder(t *testing.T) {
	r, root := newTestRegistry(t, "home")
	writeFile(t, filepath.Join(root, "home", "only-home.md"), "x")
	writeFile(t, filepath.Join(root, "procedures", "both.md"), "x")
	writeFile(t, filepath.Join(root, "home", "both.md"), "x")

	got, ok := r.FindProcedure("only-home.md")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "home", "only-home.md"), got)

	got, ok = r.FindProcedure("both.md")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "procedures", "both.md"), got)

	abs := filepath.Join(root, "elsewhere.md")
	writeFile(t, abs, "x")
	got, ok = r.FindProcedure(abs)
	require.True(t, ok)
	assert.Equal(t, abs, got)

	_, ok = r.FindProcedure("missing.md")
	assert.False(t, ok)
}

func TestRegistry_ListProjects(t *testing.T) {
	r, root := newTestRegistry(t, "home")
	writeFile(t, filepath.Join(root, "procedures", "trowel-config.json"), "{}")
	writeFile(t, filepath.Join(root, "procedures", "notes.md"), "")
	writeFile(t, filepath.Join(root, "home", "trowel-config.yaml"), "")
	writeFile(t, filepath.Join(root, "home", "atlas-config.yml"), "")
	writeFile(t, filepath.Join(root, "home", "-config.json"), "")

	assert.Equal(t, []string{"atlas", "trowel"}, r.ListProjects())
}

func TestRegistry_Open(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "trowel-config.json"), `{
  "procedure_file": "trowel-workflow.md",
  "variables": {"DEFAULT_BRANCH": "main", "BRANCH_PREFIX": "feature", "ISSUE_NUMBER": 42}
}`)
	writeFile(t, filepath.Join(root, "procedures", "trowel-workflow.md"),
		"---\ntitle: Trowel\nowner: platform\ntags: [release, git]\n---\n"+trowelWorkflow)

	p, err := r.Open("trowel")
	require.NoError(t, err)
	assert.Equal(t, "Trowel", p.Meta.Title)
	assert.Equal(t, "platform", p.Meta.Owner)
	assert.Equal(t, []string{"release", "git"}, p.Meta.Tags)
	assert.Equal(t, trowelWorkflow, p.Source)

	resolved, err := p.Resolve()
	require.NoError(t, err)
	assert.Contains(t, resolved, "git checkout -b feature/42")

	doc := p.Document()
	step, ok := doc.Step(1)
	require.True(t, ok)
	assert.Equal(t, "git checkout -b {BRANCH_PREFIX}/{ISSUE_NUMBER}", step.Body)
	next, ok := doc.NextStep(1)
	require.True(t, ok)
	assert.Equal(t, "Open a PR against {DEFAULT_BRANCH}.", next.Body)
}

func TestRegistry_Open_NoFrontMatter(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "plain-config.yaml"), "procedure_file: plain.md\n")
	writeFile(t, filepath.Join(root, "procedures", "plain.md"), trowelWorkflow)

	p, err := r.Open("plain")
	require.NoError(t, err)
	assert.True(t, p.Meta.Empty())
	assert.Equal(t, trowelWorkflow, p.Source)
}

func TestProject_DocumentParsesRawSource(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "partial-config.yaml"),
		"procedure_file: partial.md\nvariables:\n  DEFAULT_BRANCH: main\n")
	writeFile(t, filepath.Join(root, "procedures", "partial.md"), trowelWorkflow)

	p, err := r.Open("partial")
	require.NoError(t, err)

	_, err = p.Resolve()
	var missing *procedure.MissingVariablesError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"BRANCH_PREFIX", "ISSUE_NUMBER"}, missing.Names)

	step, ok := p.Document().Step(2)
	require.True(t, ok)
	assert.Equal(t, "Open a PR against {DEFAULT_BRANCH}.", step.Body)
}

func TestRegistry_Open_ProcedureMissing(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "lost-config.yaml"), "procedure_file: lost.md\n")

	_, err := r.Open("lost")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Procedure file not found: lost.md", Message(err))
}

func TestRegistry_Statuses(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "ready-config.yaml"), "procedure_file: ready.md\n")
	writeFile(t, filepath.Join(root, "procedures", "ready.md"), trowelWorkflow)
	writeFile(t, filepath.Join(root, "procedures", "missing-config.yaml"), "procedure_file: nowhere.md\n")
	writeFile(t, filepath.Join(root, "procedures", "broken-config.yaml"), "variables: [1, 2]\n")

	statuses := r.Statuses()
	require.Len(t, statuses, 3)

	assert.Equal(t, "broken", statuses[0].Name)
	assert.Error(t, statuses[0].Err)
	assert.False(t, statuses[0].Ready())

	assert.Equal(t, "missing", statuses[1].Name)
	assert.NoError(t, statuses[1].Err)
	assert.False(t, statuses[1].Ready())

	assert.Equal(t, "ready", statuses[2].Name)
	assert.True(t, statuses[2].Ready())
}

func TestProject_DocumentIgnoresHeadingsInValues(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "deploy-config.yaml"),
		"procedure_file: deploy.md\nvariables:\n  SVC: api\n  NOTE: \"x\\n## 9. Injected\\nboo\"\n")
	writeFile(t, filepath.Join(root, "procedures", "deploy.md"),
		"## Deploy {SVC}\nShip it.\n\n## 1. One\n\n{NOTE}\n")

	p, err := r.Open("deploy")
	require.NoError(t, err)
	doc := p.Document()

	body, ok := doc.Section("Deploy {SVC}")
	require.True(t, ok)
	assert.Equal(t, "Ship it.", body)

	assert.Equal(t, []procedure.Step{{Number: 1, Title: "One", Body: "{NOTE}"}}, doc.Steps())

	resolved, err := p.Resolve()
	require.NoError(t, err)
	assert.Contains(t, resolved, "## Deploy api")
	assert.Contains(t, resolved, "x\n## 9. Injected\nboo")
}

func TestRegistry_Open_NormalisesCRLF(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "win-config.yaml"), "procedure_file: win.md\n")
	writeFile(t, filepath.Join(root, "procedures", "win.md"),
		"---\r\ntitle: Windows\r\n---\r\n## 1. First\r\nDo X.\r\nDo Y.\r\n")

	p, err := r.Open("win")
	require.NoError(t, err)
	assert.NotContains(t, p.Source, "\r")

	step, ok := p.Document().Step(1)
	require.True(t, ok)
	assert.Equal(t, "Do X.\nDo Y.", step.Body)
}

func TestProject_ResolveKeepsNumberText(t *testing.T) {
	r, root := newTestRegistry(t)
	writeFile(t, filepath.Join(root, "procedures", "rel-config.json"),
		`{"procedure_file": "rel.md", "variables": {"VER": 1.0, "MAX": 1e3}}`)
	writeFile(t, filepath.Join(root, "procedures", "rel.md"), "ship {VER} to {MAX} hosts\n")

	p, err := r.Open("rel")
	require.NoError(t, err)
	got, err := p.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "ship 1.0 to 1e3 hosts\n", got)
}
