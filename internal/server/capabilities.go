package server

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jorge-barreto/engmgr/internal/workflow"
)

const (
	procedureURIPrefix = "engmanager://procedures/"
	configURIPrefix    = "engmanager://config/"
	templatesURI       = "engmanager://templates"
	projectsURI        = "engmanager://projects"

	markdownMIME = "text/markdown"
)

// ToolCapability binds an MCP tool definition to a workflow operation.
// Action completes "Error <action>" when the operation fails.
type ToolCapability struct {
	Tool   mcp.Tool
	Action string
	Handle func(ctx context.Context, req mcp.CallToolRequest) (string, error)
}

// ResourceCapability binds a resource URI, or a URI template ending in
// {project}, to a workflow operation. Read gets the project name for
// templates and "" for fixed URIs.
type ResourceCapability struct {
	URI         string
	Prefix      string // set for templates
	Name        string
	Description string
	Action      string
	Read        func(ctx context.Context, project string) (string, error)
}

// Template reports whether the capability is a URI template.
func (c ResourceCapability) Template() bool { return c.Prefix != "" }

// Capabilities returns the tools and resources served for svc.
func Capabilities(svc *workflow.Service) ([]ToolCapability, []ResourceCapability) {
	tools := []ToolCapability{
		{
			Tool: mcp.NewTool("get_next_step",
				mcp.WithDescription("Get the next step in the workflow. Returns step 1 when current_step is omitted or 0, otherwise the step right after current_step."),
				mcp.WithString("project", mcp.Description("Project name (uses the default project if not specified)")),
				mcp.WithNumber("current_step", mcp.Description("Current step number; omit or pass 0 to start at step 1")),
			),
			Action: "retrieving next step",
			Handle: func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
				current, err := optionalInt(req.GetArguments(), "current_step")
				if err != nil {
					return "", err
				}
				return svc.NextStep(ctx, req.GetString("project", ""), current)
			},
		},
		{
			Tool: mcp.NewTool("get_workflow_section",
				mcp.WithDescription("Get a named section of the project's workflow procedure, with suggestions when the title does not match exactly."),
				mcp.WithString("section", mcp.Required(), mcp.Description("Section title to retrieve")),
				mcp.WithString("project", mcp.Description("Project name (uses the default project if not specified)")),
			),
			Action: "retrieving section",
			Handle: func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
				section, err := req.RequireString("section")
				if err != nil {
					return "", err
				}
				return svc.Section(ctx, section, req.GetString("project", ""))
			},
		},
		{
			Tool: mcp.NewTool("list_workflow_steps",
				mcp.WithDescription("List every numbered step in the project's workflow."),
				mcp.WithString("project", mcp.Description("Project name (uses the default project if not specified)")),
			),
			Action: "listing steps",
			Handle: func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
				return svc.ListSteps(ctx, req.GetString("project", ""))
			},
		},
		{
			Tool: mcp.NewTool("list_available_projects",
				mcp.WithDescription("List every project that has a configuration file."),
			),
			Action: "listing projects",
			Handle: func(ctx context.Context, _ mcp.CallToolRequest) (string, error) {
				return svc.ListProjects(ctx)
			},
		},
		{
			Tool: mcp.NewTool("get_project_info",
				mcp.WithDescription("Show a project's configuration, template variables and procedure file status."),
				mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
			),
			Action: "getting project info",
			Handle: func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
				project, err := req.RequireString("project")
				if err != nil {
					return "", err
				}
				return svc.ProjectInfo(ctx, project)
			},
		},
	}

	resources := []ResourceCapability{
		{
			URI:         procedureURIPrefix + "{project}",
			Prefix:      procedureURIPrefix,
			Name:        "Project procedure",
			Description: "The full procedure file for a project with template variables substituted",
			Action:      "loading procedure",
			Read:        svc.Procedure,
		},
		{
			URI:         configURIPrefix + "{project}",
			Prefix:      configURIPrefix,
			Name:        "Project configuration",
			Description: "The procedure file and template variables configured for a project",
			Action:      "loading config",
			Read:        svc.ConfigView,
		},
		{
			URI:         templatesURI,
			Name:        "Template variables",
			Description: "Template variable syntax and examples",
			Action:      "loading templates",
			Read: func(ctx context.Context, _ string) (string, error) {
				return svc.Templates(ctx)
			},
		},
		{
			URI:         projectsURI,
			Name:        "Projects",
			Description: "Every configured project and whether its procedure file is ready",
			Action:      "listing projects",
			Read: func(ctx context.Context, _ string) (string, error) {
				return svc.Projects(ctx)
			},
		},
	}
	return tools, resources
}

// optionalInt reads an integer argument that may be absent or null.
// JSON numbers arrive as float64 and must be whole.
func optionalInt(args map[string]any, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return nil, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		n = int(v)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		n = i
	default:
		return nil, fmt.Errorf("%s must be an integer, got %T", key, raw)
	}
	return &n, nil
}
