package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/engmgr/internal/docs"
	"github.com/jorge-barreto/engmgr/internal/logging"
	"github.com/jorge-barreto/engmgr/internal/scaffold"
	"github.com/jorge-barreto/engmgr/internal/server"
	"github.com/jorge-barreto/engmgr/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "engmgr",
		Usage:       "Serve step-by-step engineering procedures over MCP",
		Description: "Run 'engmgr docs' for documentation on project configs, templates, procedures and tools.",
		Flags:       globalFlags(),
		Commands: []*cli.Command{
			serveCmd(),
			projectsCmd(),
			infoCmd(),
			procedureCmd(),
			configCmd(),
			stepsCmd(),
			nextCmd(),
			sectionCmd(),
			docsCmd(),
			initCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ux.Errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio or streamable HTTP",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			s := rt.settings
			log := rt.logger(logging.RootModule)

			log.Info("engmgr.start", "name", s.ServerName, "version", s.ServerVersion,
				"transport", s.Transport, "log_level", s.LogLevel)
			if s.DefaultProject != "" {
				log.Info("engmgr.default_project", "project", s.DefaultProject)
			}
			if names := rt.registry.ListProjects(); len(names) > 0 {
				log.Info("engmgr.projects", "available", strings.Join(names, ", "))
			} else {
				log.Warn("engmgr.projects.none", "hint", "add project configs to use the server",
					"config_paths", strings.Join(s.ConfigPaths, ", "))
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverLog := rt.logger(logging.ServerModule)
			srv := server.New(s, rt.service, serverLog)
			if err := server.Serve(ctx, s, srv, serverLog); err != nil {
				log.Error("engmgr.serve.failed", "error", err)
				return fmt.Errorf("server: %w", err)
			}
			log.Info("engmgr.stop")
			return nil
		},
	}
}

func projectsCmd() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List configured projects and whether their procedures are ready",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Usage: "Print the markdown served by engmanager://projects"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("markdown") {
				return printText(rt.service.Projects(ctx))
			}
			ux.RenderProjects(os.Stdout, rt.registry.Statuses(), rt.settings.DefaultProject)
			return nil
		},
	}
}

func infoCmd() *cli.Command {
	return projectCmd("info", "Show a project's configuration, variables and procedure status",
		func(ctx context.Context, rt *runtime, name string) (string, error) {
			return rt.service.ProjectInfo(ctx, name)
		})
}

func procedureCmd() *cli.Command {
	return projectCmd("procedure", "Print the full procedure with variables substituted",
		func(ctx context.Context, rt *runtime, name string) (string, error) {
			return rt.service.Procedure(ctx, name)
		})
}

func configCmd() *cli.Command {
	return projectCmd("config", "Print the procedure file and template variables of a project",
		func(ctx context.Context, rt *runtime, name string) (string, error) {
			return rt.service.ConfigView(ctx, name)
		})
}

// projectCmd builds a command taking a project argument that defaults to
// the configured default project.
func projectCmd(name, usage string, run func(context.Context, *runtime, string) (string, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[project]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			project, err := rt.projectArg(cmd)
			if err != nil {
				return err
			}
			return printText(run(ctx, rt, project))
		},
	}
}

func stepsCmd() *cli.Command {
	return &cli.Command{
		Name:      "steps",
		Usage:     "List the numbered steps of a project's workflow",
		ArgsUsage: "[project]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			return printText(rt.service.ListSteps(ctx, cmd.Args().First()))
		},
	}
}

func nextCmd() *cli.Command {
	return &cli.Command{
		Name:      "next",
		Usage:     "Show the step after --current, or step 1",
		ArgsUsage: "[project]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "current", Aliases: []string{"c"}, Usage: "Step just completed (0 starts at step 1)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			var current *int
			if cmd.IsSet("current") {
				n := cmd.Int("current")
				current = &n
			}
			return printText(rt.service.NextStep(ctx, cmd.Args().First(), current))
		},
	}
}

func sectionCmd() *cli.Command {
	return &cli.Command{
		Name:      "section",
		Usage:     "Show a named section of a project's workflow",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Usage: "Project name (defaults to the default project)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			title := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("section title argument is required")
			}
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			return printText(rt.service.Section(ctx, title, cmd.String("project")))
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create an example project config and workflow under ./procedures",
		ArgsUsage: "[project]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			if name == "" {
				ux.Warnf(os.Stderr, "no project name given, using %q", scaffold.DefaultProject)
				name = scaffold.DefaultProject
			}
			return scaffold.Init(dir, name, os.Stdout)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'engmgr docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

func printText(text string, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimRight(text, "\n"))
	return nil
}
