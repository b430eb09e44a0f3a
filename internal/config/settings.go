package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "ENGMANAGER_"

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
	LogFormatPretty  = "pretty"
)

// Settings holds process-wide configuration. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Settings struct {
	ServerName     string
	ServerVersion  string
	Transport      string
	HTTPAddr       string
	LogLevel       string
	LogFormat      string
	LogFile        string
	DefaultProject string
	ProceduresDir  string
	ConfigPaths    []string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		ServerName:    "engmanager-mcp",
		ServerVersion: "1.0.0",
		Transport:     TransportStdio,
		HTTPAddr:      "localhost:8000",
		LogLevel:      "INFO",
		LogFormat:     LogFormatConsole,
		ProceduresDir: "procedures",
		ConfigPaths: []string{
			"./procedures",
			"~/.config/engmanager-mcp",
			"/etc/engmanager-mcp",
		},
	}
}

// LoadEnv reads .env from the working directory, if present, and then
// builds settings from the process environment. Variables already set in
// the environment win over .env entries.
func LoadEnv() (Settings, error) {
	_ = godotenv.Load()
	return Load(os.LookupEnv)
}

// Load builds settings from defaults overridden by ENGMANAGER_* values
// returned by lookup.
func Load(lookup func(string) (string, bool)) (Settings, error) {
	s := Defaults()
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("MCP_SERVER_NAME", &s.ServerName)
	str("MCP_SERVER_VERSION", &s.ServerVersion)
	str("MCP_TRANSPORT", &s.Transport)
	str("MCP_HTTP_ADDR", &s.HTTPAddr)
	str("MCP_LOG_LEVEL", &s.LogLevel)
	str("MCP_LOG_FORMAT", &s.LogFormat)
	str("MCP_LOG_FILE", &s.LogFile)
	str("DEFAULT_PROJECT", &s.DefaultProject)
	str("PROCEDURES_DIR", &s.ProceduresDir)

	if v, ok := lookup(EnvPrefix + "CONFIG_PATHS"); ok && strings.TrimSpace(v) != "" {
		paths, err := ParsePathList(v)
		if err != nil {
			return Settings{}, err
		}
		s.ConfigPaths = paths
	}

	s.Transport = strings.ToLower(s.Transport)
	s.LogFormat = strings.ToLower(s.LogFormat)
	return s, nil
}

// ParsePathList accepts either a JSON/YAML list (["a", "b"]) or an OS path
// list (a:b on Unix).
func ParsePathList(v string) ([]string, error) {
	v = strings.TrimSpace(v)
	var paths []string
	if strings.HasPrefix(v, "[") {
		if err := yaml.Unmarshal([]byte(v), &paths); err != nil {
			return nil, err
		}
	} else {
		paths = filepath.SplitList(v)
	}
	out := paths[:0]
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// ExpandedConfigPaths returns the config paths with ~ expanded, made
// absolute, keeping only existing directories in their configured order.
func (s Settings) ExpandedConfigPaths() []string {
	var out []string
	for _, p := range s.ConfigPaths {
		abs, err := ExpandPath(p)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			out = append(out, abs)
		}
	}
	return out
}

// ExpandPath expands a leading ~ and returns an absolute, clean path.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
