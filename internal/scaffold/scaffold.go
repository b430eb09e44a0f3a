package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jorge-barreto/engmgr/internal/ux"
)

// DefaultProject is the project name used when init is given none.
const DefaultProject = "my-project"

var projectNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

const configTemplate = `project_name: %[1]q
description: %[2]q
procedure_file: %[3]q

variables:
  PROJECT_NAME: %[1]q
  DEFAULT_BRANCH: main
  BRANCH_PREFIX: feature/
  TEST_COMMAND: make test
`

const workflowTemplate = `---
title: %s workflow
description: Step-by-step development procedure
version: "1"
tags:
  - development
---
# {PROJECT_NAME} Development Workflow

## 1. Create a branch
Start from an up-to-date {DEFAULT_BRANCH}:

    git checkout {DEFAULT_BRANCH}
    git pull
    git checkout -b {BRANCH_PREFIX}<short-description>

## 2. Implement the change
Keep commits small and focused. Update documentation alongside the code.

## 3. Run the tests
Run {TEST_COMMAND} and fix every failure before moving on.

## 4. Open a pull request
Push the branch and open a pull request against {DEFAULT_BRANCH}.
Describe what changed and how it was verified.

## Quality Gates
- {TEST_COMMAND} passes
- No unrelated changes in the diff
- Documentation updated

## Error Recovery Protocols
If the tests fail after a rebase, rerun {TEST_COMMAND} on a clean checkout of
{DEFAULT_BRANCH} to tell new failures from existing ones.
`

// Files lists the paths Init creates, relative to the target directory.
func Files(project string) (config, workflow string) {
	return filepath.Join("procedures", project+"-config.yaml"),
		filepath.Join("procedures", project+"-workflow.md")
}

// Init creates procedures/<project>-config.yaml and its workflow file under
// targetDir and prints a summary to w. It never overwrites existing files.
func Init(targetDir, project string, w io.Writer) error {
	if project == "" {
		project = DefaultProject
	}
	if !projectNameRe.MatchString(project) {
		return fmt.Errorf("invalid project name %q: use letters, digits, '.', '_' or '-'", project)
	}

	configRel, workflowRel := Files(project)
	configPath := filepath.Join(targetDir, configRel)
	workflowPath := filepath.Join(targetDir, workflowRel)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("project %q already exists: %s", project, configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating procedures directory: %w", err)
	}

	if err := createFileAtomic(workflowPath, []byte(fmt.Sprintf(workflowTemplate, project)), 0644); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("procedure file already exists: %s", workflowPath)
		}
		return fmt.Errorf("writing %s: %w", workflowRel, err)
	}
	config := fmt.Sprintf(configTemplate, project, project+" development workflow", filepath.Base(workflowRel))
	if err := createFileAtomic(configPath, []byte(config), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", configRel, err)
	}

	fmt.Fprintf(w, "\n%s%s✓ Initialized project %s%s\n\n", ux.Bold, ux.Green, project, ux.Reset)
	fmt.Fprintf(w, "  Created:\n")
	fmt.Fprintf(w, "    %s%s%s  project configuration\n", ux.Cyan, configRel, ux.Reset)
	fmt.Fprintf(w, "    %s%s%s  workflow procedure\n\n", ux.Cyan, workflowRel, ux.Reset)
	fmt.Fprintf(w, "  Next steps:\n")
	fmt.Fprintf(w, "    1. Edit the variables in %s%s%s\n", ux.Cyan, configRel, ux.Reset)
	fmt.Fprintf(w, "    2. Write your steps as numbered headings in %s%s%s\n", ux.Cyan, workflowRel, ux.Reset)
	fmt.Fprintf(w, "    3. Run %sengmgr steps %s%s to preview\n\n", ux.Cyan, project, ux.Reset)
	return nil
}
