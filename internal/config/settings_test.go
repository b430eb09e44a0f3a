package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(lookupFrom(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ServerName != "engmanager-mcp" || s.ServerVersion != "1.0.0" {
		t.Fatalf("unexpected server identity: %q %q", s.ServerName, s.ServerVersion)
	}
	if s.Transport != TransportStdio {
		t.Fatalf("Transport = %q", s.Transport)
	}
	if s.ProceduresDir != "procedures" {
		t.Fatalf("ProceduresDir = %q", s.ProceduresDir)
	}
	if len(s.ConfigPaths) != 3 {
		t.Fatalf("ConfigPaths = %v", s.ConfigPaths)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	s, err := Load(lookupFrom(map[string]string{
		"ENGMANAGER_MCP_TRANSPORT": "HTTP",
		"ENGMANAGER_MCP_HTTP_ADDR": ":9000",
		"ENGMANAGER_DEFAULT_PROJECT": "trowel",
		"ENGMANAGER_CONFIG_PATHS": `["/a", "/b"]`,
		"ENGMANAGER_MCP_LOG_FORMAT": "JSON",
		"ENGMANAGER_PROCEDURES_DIR": "  ",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Transport != TransportHTTP || s.HTTPAddr != ":9000" {
		t.Fatalf("transport not overridden: %q %q", s.Transport, s.HTTPAddr)
	}
	if s.DefaultProject != "trowel" {
		t.Fatalf("DefaultProject = %q", s.DefaultProject)
	}
	if strings.Join(s.ConfigPaths, ",") != "/a,/b" {
		t.Fatalf("ConfigPaths = %v", s.ConfigPaths)
	}
	if s.LogFormat != LogFormatJSON {
		t.Fatalf("LogFormat = %q", s.LogFormat)
	}
	if s.ProceduresDir != "procedures" {
		t.Fatalf("blank env value should keep default, got %q", s.ProceduresDir)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParsePathList(t *testing.T) {
	got, err := ParsePathList("/one" + string(os.PathListSeparator) + " /two ")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "/one,/two" {
		t.Fatalf("got %v", got)
	}

	if _, err := ParsePathList("[unclosed"); err == nil {
		t.Fatal("expected error for malformed list")
	}
}

func TestValidate_RejectsUnknownTransport(t *testing.T) {
	s := Defaults()
	s.Transport = "carrier-pigeon"
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "stdio or http") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	s := Defaults()
	s.LogLevel = "loud"
	if err := s.Validate(); err == nil {
		t.Fatal("expected log level error")
	}
	s.LogLevel = "debug"
	if err := s.Validate(); err != nil {
		t.Fatalf("lowercase level should be accepted: %v", err)
	}
}

func TestValidate_StructuredLogsNeedHTTP(t *testing.T) {
	s := Defaults()
	s.LogFormat = LogFormatJSON
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "stdio transport") {
		t.Fatalf("expected stdio log format error, got %v", err)
	}
	s.Transport = TransportHTTP
	if err := s.Validate(); err != nil {
		t.Fatalf("json logs over http should validate: %v", err)
	}
}

func TestValidate_LogFileNeedsConsoleFormat(t *testing.T) {
	s, err := Load(lookupFrom(map[string]string{
		"ENGMANAGER_MCP_LOG_FILE": "/var/log/engmgr.log",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if s.LogFile != "/var/log/engmgr.log" {
		t.Fatalf("LogFile = %q", s.LogFile)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("console log file should validate: %v", err)
	}

	s.Transport = TransportHTTP
	s.LogFormat = LogFormatPretty
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "console log format") {
		t.Fatalf("expected log file error, got %v", err)
	}
}

func TestExpandedConfigPaths_KeepsExistingDirsInOrder(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	for _, d := range []string{a, b} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := Defaults()
	s.ConfigPaths = []string{b, filepath.Join(root, "missing"), file, a}
	got := s.ExpandedConfigPaths()
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Fatalf("got %v, want [%s %s]", got, b, a)
	}
}

func TestExpandPath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/.config/engmanager-mcp")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".config", "engmanager-mcp") {
		t.Fatalf("got %q", got)
	}
}
