// Package server exposes the workflow service over the Model Context
// Protocol, on stdio or streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorge-barreto/engmgr/internal/config"
	"github.com/jorge-barreto/engmgr/internal/logging"
	"github.com/jorge-barreto/engmgr/internal/workflow"
)

const shutdownTimeout = 5 * time.Second

const instructions = `Engineering Manager serves step-by-step development procedures.
Call get_next_step without current_step to start a workflow, then pass the
step you just finished to get the next one. Use get_workflow_section for
reference sections such as quality gates, and list_available_projects to
find project names.`

// New builds the MCP server and registers every capability of svc.
func New(settings config.Settings, svc *workflow.Service, logger logging.Logger) *mcpserver.MCPServer {
	if logger == nil {
		logger = logging.NoOp()
	}
	s := mcpserver.NewMCPServer(
		settings.ServerName,
		settings.ServerVersion,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(instructions),
	)

	tools, resources := Capabilities(svc)
	for _, c := range tools {
		s.AddTool(c.Tool, toolHandler(c, logger))
	}
	logger.Info("server.tools.registered", "count", len(tools))

	for _, c := range resources {
		if c.Template() {
			s.AddResourceTemplate(
				mcp.NewResourceTemplate(c.URI, c.Name,
					mcp.WithTemplateDescription(c.Description),
					mcp.WithTemplateMIMEType(markdownMIME),
				),
				mcpserver.ResourceTemplateHandlerFunc(resourceHandler(c, logger)),
			)
			continue
		}
		s.AddResource(
			mcp.NewResource(c.URI, c.Name,
				mcp.WithResourceDescription(c.Description),
				mcp.WithMIMEType(markdownMIME),
			),
			resourceHandler(c, logger),
		)
	}
	logger.Info("server.resources.registered", "count", len(resources))
	return s
}

func toolHandler(c ToolCapability, logger logging.Logger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = logging.ContextWithFields(ctx, map[string]any{
			"request_id": uuid.NewString(),
			"tool":       c.Tool.Name,
		})
		log := logger.WithContext(ctx)
		start := time.Now()

		text, err := c.Handle(ctx, req)
		if err != nil {
			log.Error("tool.failed", "error", err)
			text = workflow.ErrorText(c.Action, err)
		}
		log.Info("tool.call", "elapsed", time.Since(start))
		return mcp.NewToolResultText(text), nil
	}
}

func resourceHandler(c ResourceCapability, logger logging.Logger) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := req.Params.URI
		ctx = logging.ContextWithFields(ctx, map[string]any{
			"request_id": uuid.NewString(),
			"resource":   uri,
		})
		log := logger.WithContext(ctx)
		start := time.Now()

		var project string
		if c.Template() {
			project = strings.TrimPrefix(uri, c.Prefix)
			if unescaped, err := url.PathUnescape(project); err == nil {
				project = unescaped
			}
		}
		text, err := c.Read(ctx, project)
		if err != nil {
			log.Error("resource.failed", "error", err)
			text = workflow.ErrorText(c.Action, err)
		}
		log.Info("resource.read", "elapsed", time.Since(start))
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: markdownMIME, Text: text},
		}, nil
	}
}

// Serve runs s on the configured transport until ctx is cancelled.
func Serve(ctx context.Context, settings config.Settings, s *mcpserver.MCPServer, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NoOp()
	}
	switch settings.Transport {
	case config.TransportHTTP:
		logger.Info("server.start", "transport", settings.Transport, "addr", settings.HTTPAddr)
		return ServeHTTP(ctx, s, settings.HTTPAddr)
	default:
		logger.Info("server.start", "transport", config.TransportStdio)
		return ServeStdio(ctx, s, os.Stdin, os.Stdout)
	}
}

// ServeStdio reads JSON-RPC messages from in and writes responses to out.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	err := mcpserver.NewStdioServer(s).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

const (
	// EndpointPath is where the streamable HTTP transport is mounted.
	EndpointPath = "/mcp"
	// HealthPath answers GET with "OK" while the server is up.
	HealthPath = "/healthz"
)

// Routes mounts the streamable HTTP transport for s and the health check.
func Routes(s *mcpserver.MCPServer) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "OK")
	}).Methods(http.MethodGet)
	r.Handle(EndpointPath, mcpserver.NewStreamableHTTPServer(s))
	return r
}

// ServeHTTP serves Routes(s) on addr and shuts down when ctx ends.
func ServeHTTP(ctx context.Context, s *mcpserver.MCPServer, addr string) error {
	srv := &http.Server{Addr: addr, Handler: Routes(s), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
