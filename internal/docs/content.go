package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with engmgr",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Project config files, search paths, and ENGMANAGER_* settings",
		Content: topicConfig,
	},
	{
		Name:    "templates",
		Title:   "Template Variables",
		Summary: "Placeholder syntax and where variable values come from",
		Content: topicTemplates,
	},
	{
		Name:    "procedures",
		Title:   "Procedure Files",
		Summary: "Headings, numbered steps, and front matter",
		Content: topicProcedures,
	},
	{
		Name:    "tools",
		Title:   "MCP Tools and Resources",
		Summary: "What the server exposes to MCP clients",
		Content: topicTools,
	},
}

const topicQuickstart = `Quick Start
===========

1. Scaffold a project:

    cd your-repo
    engmgr init myproject

   This creates procedures/myproject-config.yaml and
   procedures/myproject-workflow.md.

2. Edit the workflow. Every "## N. Title" heading is a step; every other
   heading is a named section you can look up.

3. Check it from the terminal:

    engmgr projects
    engmgr steps myproject
    engmgr next myproject
    engmgr next myproject --current 1

4. Serve it to an MCP client over stdio:

    engmgr serve

   or over streamable HTTP:

    ENGMANAGER_MCP_TRANSPORT=http engmgr serve

Run 'engmgr docs <topic>' for the other topics.
`

const topicConfig = `Configuration Reference
=======================

Project configs
---------------

Each project has a file named <project>-config.json, <project>-config.yaml
or <project>-config.yml. The first file found wins; the search walks the
config paths in order and tries json, yaml, then yml in each directory.

    project_name: myproject        # defaults to the file name prefix
    procedure_file: myproject-workflow.md   # required
    description: Release workflow  # optional
    variables:                     # optional, order is kept
      PROJECT_NAME: myproject
      DEFAULT_BRANCH: main
      ISSUE_NUMBER: 42

Variable names must match [A-Za-z_][A-Za-z0-9_]*. Values must be strings,
numbers or booleans; null becomes the empty string.

procedure_file may be absolute. A relative name is looked up in the
procedures directory first and then in every config path.

Settings
--------

Settings come from the environment, with a .env file in the working
directory loaded first. Variables already set in the environment win.

    ENGMANAGER_MCP_SERVER_NAME      server name      (engmanager-mcp)
    ENGMANAGER_MCP_SERVER_VERSION   server version   (1.0.0)
    ENGMANAGER_MCP_TRANSPORT        stdio | http     (stdio)
    ENGMANAGER_MCP_HTTP_ADDR        listen address   (localhost:8000)
    ENGMANAGER_MCP_LOG_LEVEL        TRACE..FATAL     (INFO)
    ENGMANAGER_MCP_LOG_FORMAT       console | json | pretty (console)
    ENGMANAGER_MCP_LOG_FILE         console log file, rotated at 10 MB
    ENGMANAGER_DEFAULT_PROJECT      project used when none is given
    ENGMANAGER_PROCEDURES_DIR       procedures directory (procedures)
    ENGMANAGER_CONFIG_PATHS         ["a", "b"] or an OS path list
                                    (./procedures, ~/.config/engmanager-mcp,
                                     /etc/engmanager-mcp)

The json and pretty log formats write to stdout and are only accepted with
the http transport. Console logs go to stderr unless a log file is set.

The http transport serves MCP at /mcp and a health check at /healthz.

Global CLI flags (see 'engmgr --help') override the environment for every
setting except the server name and version.
`

const topicTemplates = "# Template Variables\n\n" +
	"Engineering Manager MCP supports template variables in procedure files.\n\n" +
	"## Syntax\n\n" +
	"Use curly braces with UPPERCASE variable names:\n\n" +
	"```markdown\n" +
	"## Branch Creation\n\n" +
	"Create a branch for {PROJECT_NAME}:\n" +
	"```bash\n" +
	"git checkout -b feature/my-feature-{ISSUE_NUMBER}\n" +
	"git push -u origin feature/my-feature-{ISSUE_NUMBER}\n" +
	"```\n" +
	"```\n\n" +
	"## Common Variables\n\n" +
	"- `{PROJECT_NAME}` - Name of the project\n" +
	"- `{REPO_OWNER}` - GitHub repository owner\n" +
	"- `{REPO_NAME}` - GitHub repository name\n" +
	"- `{ISSUE_NUMBER}` - Current issue number\n" +
	"- `{BRANCH_PREFIX}` - Branch prefix (feature/fix/refactor)\n" +
	"- `{DEFAULT_BRANCH}` - Default branch name (usually main)\n\n" +
	"## Custom Variables\n\n" +
	"Define custom variables in your project's config file:\n\n" +
	"```json\n" +
	"{\n" +
	"  \"project_name\": \"myproject\",\n" +
	"  \"procedure_file\": \"myproject-workflow.md\",\n" +
	"  \"variables\": {\n" +
	"    \"PROJECT_NAME\": \"myproject\",\n" +
	"    \"REPO_OWNER\": \"username\",\n" +
	"    \"REPO_NAME\": \"repository\",\n" +
	"    \"DEFAULT_BRANCH\": \"main\",\n" +
	"    \"CUSTOM_VAR\": \"custom_value\"\n" +
	"  }\n" +
	"}\n" +
	"```\n\n" +
	"## Configuration Files\n\n" +
	"Place project configuration files in:\n" +
	"- `./procedures/<project>-config.json`\n" +
	"- `~/.config/engmanager-mcp/<project>-config.json`\n" +
	"- `/etc/engmanager-mcp/<project>-config.json`\n\n" +
	"The first matching file will be used. YAML configs " +
	"(`<project>-config.yaml` or `.yml`) are accepted in the same places.\n"

const topicProcedures = `Procedure Files
===============

A procedure is a markdown file. Headings (# to ######, followed by
whitespace and a title) split it into sections. A section's body is every
line up to the next heading, trimmed. When two headings share a title the
later body wins.

Steps
-----

A section whose title looks like "3. Run tests" is step 3 with title
"Run tests". Steps are ordered by number; gaps are allowed. The next step
after N is exactly N+1, so a gap ends the walk:

    ## 1. Create branch
    ## 2. Implement
    ## 4. Release        <- next after 2 reports the workflow complete

Placeholders
------------

{NAME} with NAME in upper case, digits and underscores is a placeholder.
Substitution is all or nothing: if any placeholder has no value nothing
is replaced and the missing names are reported. Values are inserted in
config order and the output is not rescanned, except that a value which
itself contains {OTHER} is replaced by a later OTHER entry.

Only the full procedure resource is substituted. Steps and sections are
read from the file as written, so a heading such as "## Deploy {SVC}" is
fetched by that exact title.

Front matter
------------

An optional YAML block at the top of the file is stripped before parsing:

    ---
    title: Release workflow
    owner: platform
    version: "2"
    tags: [release]
    ---

The fields show up in 'engmgr info' and the get_project_info tool.
`

const topicTools = `MCP Tools and Resources
=======================

Tools
-----

    get_next_step            project?, current_step?
        Step 1 when current_step is missing or 0, else step current_step+1.
    get_workflow_section     section, project?
        Exact title lookup, with up to five suggestions on a miss.
    list_workflow_steps      project?
        "N. Title" summary of every step.
    list_available_projects
        Project names plus the default project.
    get_project_info         project
        Config, variables, front matter, procedure status.

project falls back to ENGMANAGER_DEFAULT_PROJECT.

Resources
---------

    engmanager://procedures/{project}   full procedure, variables resolved
    engmanager://config/{project}       procedure file and variables as JSON
    engmanager://templates              the 'templates' topic
    engmanager://projects               readiness of every project

Every tool and resource has a CLI twin; see 'engmgr --help'.
`
