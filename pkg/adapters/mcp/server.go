package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/internal/logging"
	"github.com/aretw0/autoflow/internal/presentation/graph"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const resourcePrefix = "autoflow://workflows/"

// Engine defines the operations the MCP server exposes. *autoflow.Engine satisfies it.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*workflow.Document, error)
	RunStored(ctx context.Context, name string) (*domain.RunReport, error)
}

// NameArgs selects a stored workflow.
type NameArgs struct {
	Name string `json:"name"`
}

// ListResponse is the output of list_workflows.
type ListResponse struct {
	Workflows []string `json:"workflows" jsonschema_description:"Names of stored workflows"`
}

// Server wraps the autoflow Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for tool calls and the SSE listener.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("autoflow-mcp", strings.TrimSpace(autoflow.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List the names of stored workflows."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("run_workflow",
		mcp.WithDescription("Run a stored workflow to completion and return its report. Failed actions are listed in the report; the run does not stop on them."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workflow name")),
		mcp.WithOutputSchema[domain.RunReport](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("inspect_workflow",
		mcp.WithDescription("Show start nodes and loop bodies of a stored workflow without running it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workflow name")),
		mcp.WithOutputSchema[autoflow.Inspection](),
	), mcp.NewStructuredToolHandler(s.handleInspect))

	s.mcpServer.AddTool(mcp.NewTool("get_workflow",
		mcp.WithDescription("Get the JSON document of a stored workflow."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workflow name")),
	), s.handleGet)

	s.mcpServer.AddTool(mcp.NewTool("graph_workflow",
		mcp.WithDescription("Render a stored workflow as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workflow name")),
	), s.handleGraph)
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (ListResponse, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ListResponse{Workflows: names}, nil
}

func (s *Server) handleRun(ctx context.Context, _ mcp.CallToolRequest, args NameArgs) (domain.RunReport, error) {
	report, err := s.engine.RunStored(ctx, args.Name)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("run failed: %w", err)
	}
	s.logger.Info("MCP run finished", "workflow", args.Name, "dispatched", len(report.Dispatched), "failures", len(report.Failures))
	return *report, nil
}

func (s *Server) handleInspect(ctx context.Context, _ mcp.CallToolRequest, args NameArgs) (autoflow.Inspection, error) {
	doc, err := s.engine.Load(ctx, args.Name)
	if err != nil {
		return autoflow.Inspection{}, err
	}
	g, err := doc.Graph()
	if err != nil {
		return autoflow.Inspection{}, err
	}
	return *autoflow.Inspect(g), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.documentJSON(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.engine.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := doc.Graph()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g, nil)), nil
}

func (s *Server) documentJSON(ctx context.Context, name string) ([]byte, error) {
	doc, err := s.engine.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return workflow.Marshal(doc, workflow.FormatJSON)
}

func (s *Server) registerResources() {
	// EXPOSE: autoflow://workflows
	s.mcpServer.AddResource(mcp.NewResource("autoflow://workflows", "Stored workflows",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.engine.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list workflows: %w", err)
		}
		if names == nil {
			names = []string{}
		}
		data, _ := json.Marshal(names)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "autoflow://workflows",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	// EXPOSE: autoflow://workflows/{name}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(resourcePrefix+"{name}", "Workflow document",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readWorkflow)
}

func (s *Server) readWorkflow(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, ok := strings.CutPrefix(request.Params.URI, resourcePrefix)
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid workflow uri %q", request.Params.URI)
	}
	data, err := s.documentJSON(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", name, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
