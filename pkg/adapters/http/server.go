package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/internal/logging"
	"github.com/aretw0/autoflow/internal/presentation/graph"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/workflow"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodyBytes bounds uploaded workflow documents.
const maxBodyBytes = 4 << 20

// Engine defines the operations the HTTP API exposes. *autoflow.Engine satisfies it.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*workflow.Document, error)
	Save(ctx context.Context, name string, doc *workflow.Document) error
	Delete(ctx context.Context, name string) error
	RunStored(ctx context.Context, name string) (*domain.RunReport, error)
	RunDocument(ctx context.Context, doc *workflow.Document) (*domain.RunReport, error)
}

var _ Engine = (*autoflow.Engine)(nil)

// Server serves the workflow API.
type Server struct {
	Engine Engine

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	spec     *openapi3.T
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests matching an
// operation of the embedded OpenAPI document are validated against it.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{Engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	s.spec = spec

	validate, err := newValidator(spec)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/run", s.RunDocument)
	r.Route("/workflows", func(r chi.Router) {
		r.Get("/", s.ListWorkflows)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetWorkflow)
			r.Put("/", s.PutWorkflow)
			r.Delete("/", s.DeleteWorkflow)
			r.Post("/run", s.RunWorkflow)
			r.Get("/graph", s.GetWorkflowGraph)
			r.Get("/inspect", s.InspectWorkflow)
		})
	})
	return r, nil
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return spec, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>autoflow API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "autoflow-http",
		"version":     strings.TrimSpace(autoflow.Version),
		"api_version": apiVersion,
	})
}

// ListWorkflows handles GET /workflows.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, "ListWorkflows", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"workflows": names})
}

// GetWorkflow handles GET /workflows/{name}.
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetWorkflow", err)
		return
	}
	data, err := workflow.Marshal(doc, workflow.FormatJSON)
	if err != nil {
		s.fail(w, "GetWorkflow", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// PutWorkflow handles PUT /workflows/{name}.
func (s *Server) PutWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r)
	if err != nil {
		s.fail(w, "PutWorkflow", err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.Engine.Save(r.Context(), name, doc); err != nil {
		s.fail(w, "PutWorkflow", err)
		return
	}
	s.logger.Info("workflow saved", "workflow", name, "nodes", len(doc.Nodes))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWorkflow handles DELETE /workflows/{name}.
func (s *Server) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "DeleteWorkflow", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunWorkflow handles POST /workflows/{name}/run. It blocks until the run finishes.
func (s *Server) RunWorkflow(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.RunStored(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "RunWorkflow", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// RunDocument handles POST /run with a workflow document in the body.
func (s *Server) RunDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(w, r)
	if err != nil {
		s.fail(w, "RunDocument", err)
		return
	}
	report, err := s.Engine.RunDocument(r.Context(), doc)
	if err != nil {
		s.fail(w, "RunDocument", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetWorkflowGraph handles GET /workflows/{name}/graph.
func (s *Server) GetWorkflowGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetWorkflowGraph", err)
		return
	}
	g, err := doc.Graph()
	if err != nil {
		s.fail(w, "GetWorkflowGraph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(g, nil))
}

// InspectWorkflow handles GET /workflows/{name}/inspect.
func (s *Server) InspectWorkflow(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Engine.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "InspectWorkflow", err)
		return
	}
	g, err := doc.Graph()
	if err != nil {
		s.fail(w, "InspectWorkflow", err)
		return
	}
	writeJSON(w, http.StatusOK, autoflow.Inspect(g))
}

// -- Helpers --

func readDocument(w http.ResponseWriter, r *http.Request) (*workflow.Document, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	return workflow.Unmarshal(data, workflow.FormatJSON)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var unknownType *domain.UnknownNodeTypeError
	switch {
	case errors.Is(err, domain.ErrWorkflowNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedDocument),
		errors.Is(err, domain.ErrNonConformingID),
		errors.As(err, &unknownType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyGraph), errors.Is(err, domain.ErrNoStartNodes):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
