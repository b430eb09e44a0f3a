package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/logging"
	"github.com/jorge-barreto/engmgr/internal/logging/console"
	"github.com/jorge-barreto/engmgr/internal/logging/gologger"
	"github.com/jorge-barreto/engmgr/internal/project"
	"github.com/jorge-barreto/engmgr/internal/workflow"
)

const (
	logFileMaxSizeMB  = 10
	logFileBackups    = 3
	logFileMaxAgeDays = 28
)

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	settings config.Settings
	provider logging.Provider
	registry *project.Registry
	service  *workflow.Service
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "procedures-dir", Usage: "Directory searched first for procedure files"},
		&cli.StringSliceFlag{Name: "config-path", Usage: "Directory searched for <project>-config files (repeatable, in order)"},
		&cli.StringFlag{Name: "default-project", Usage: "Project used when a command or tool names none"},
		&cli.StringFlag{Name: "transport", Usage: "MCP transport: stdio or http"},
		&cli.StringFlag{Name: "http-addr", Usage: "Listen address for the http transport"},
		&cli.StringFlag{Name: "log-level", Usage: "TRACE, DEBUG, INFO, WARN, ERROR or FATAL"},
		&cli.StringFlag{Name: "log-format", Usage: "console, json or pretty (json and pretty need --transport http)"},
		&cli.StringFlag{Name: "log-file", Usage: "Write console logs to this file, rotated at 10 MB, instead of stderr"},
	}
}

// loadSettings layers flags over ENGMANAGER_* variables and .env.
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	s, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	str := func(flag string, dst *string) {
		if cmd.IsSet(flag) {
			*dst = strings.TrimSpace(cmd.String(flag))
		}
	}
	str("procedures-dir", &s.ProceduresDir)
	str("default-project", &s.DefaultProject)
	str("transport", &s.Transport)
	str("http-addr", &s.HTTPAddr)
	str("log-level", &s.LogLevel)
	str("log-format", &s.LogFormat)
	str("log-file", &s.LogFile)
	if cmd.IsSet("config-path") {
		s.ConfigPaths = cmd.StringSlice("config-path")
	}
	s.Transport = strings.ToLower(s.Transport)
	s.LogFormat = strings.ToLower(s.LogFormat)

	if err := s.Validate(); err != nil {
		return config.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// newProvider logs to stderr, or the rotated log file, in console format,
// keeping stdout free for command output and the stdio transport.
func newProvider(s config.Settings) (logging.Provider, error) {
	switch s.LogFormat {
	case config.LogFormatJSON, config.LogFormatPretty:
		p, err := gologger.NewProvider(gologger.Config{Level: s.LogLevel, Format: s.LogFormat})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		level, _ := console.ParseLevel(s.LogLevel)
		var w io.Writer = os.Stderr
		if s.LogFile != "" {
			path, err := config.ExpandPath(s.LogFile)
			if err != nil {
				return nil, fmt.Errorf("log file: %w", err)
			}
			w = &lumberjack.Logger{
				Filename:   path,
				MaxSize:    logFileMaxSizeMB,
				MaxBackups: logFileBackups,
				MaxAge:     logFileMaxAgeDays,
			}
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level}), nil
	}
}

func newRuntime(cmd *cli.Command) (*runtime, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(settings)
	if err != nil {
		return nil, err
	}
	registry := project.NewRegistry(settings, logging.ModuleLogger(provider, logging.ProjectModule))
	return &runtime{
		settings: settings,
		provider: provider,
		registry: registry,
		service:  workflow.NewService(registry, logging.ModuleLogger(provider, logging.WorkflowModule)),
	}, nil
}

func (rt *runtime) logger(module string) logging.Logger {
	return logging.ModuleLogger(rt.provider, module)
}

// projectArg returns the first argument, falling back to the default project.
func (rt *runtime) projectArg(cmd *cli.Command) (string, error) {
	if name := strings.TrimSpace(cmd.Args().First()); name != "" {
		return name, nil
	}
	if rt.settings.DefaultProject != "" {
		return rt.settings.DefaultProject, nil
	}
	return "", fmt.Errorf("project argument is required (or set %sDEFAULT_PROJECT)", config.EnvPrefix)
}
