// Package http exposes the femtree Engine over HTTP: project management,
// node snapshots and mutations, documents, validation, meshing, a stream of
// mutation events (SSE) and Prometheus metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/internal/logging"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 8 << 20

// Engine is the subset of femtree.Engine served over HTTP.
type Engine interface {
	Kinds() []femtree.KindInfo
	Projects(ctx context.Context) ([]string, error)
	NewProject(ctx context.Context, name, rootTag string) (*femtree.NodeView, error)
	FromTemplate(ctx context.Context, name, template string, overwrite bool) (*femtree.NodeView, error)
	DeleteProject(ctx context.Context, name string) error
	Document(ctx context.Context, name, path string) (*document.Document, error)
	ImportDocument(ctx context.Context, name string, doc *document.Document, overwrite bool) error
	Snapshot(ctx context.Context, name, path string) (*femtree.NodeView, error)
	Create(ctx context.Context, name, parentPath, typeName, tag string, args map[string]any) (*femtree.NodeView, error)
	Insert(ctx context.Context, name, parentPath string, pos int, typeName, tag string, args map[string]any) (*femtree.NodeView, error)
	Remove(ctx context.Context, name, path string) (*femtree.NodeView, error)
	Rename(ctx context.Context, name, path, tag string) (*femtree.NodeView, error)
	Apply(ctx context.Context, name, path string, values map[string]any) (*femtree.NodeView, error)
	Move(ctx context.Context, name, path string, pos int) (*femtree.NodeView, error)
	Validate(ctx context.Context, name string) ([]femtree.Issue, error)
	Mesh(ctx context.Context, name, path string) (*ports.MeshStats, error)
}

var _ Engine = (*femtree.Engine)(nil)

// Server holds the handlers of the API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	logger  *slog.Logger
	metrics prometheus.Gatherer
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithStreams serves GET /projects/{project}/events from sm. The engine
// must publish into sm through sm.Hooks for events to arrive.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics serves GET /metrics from g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, MaxBodySize)
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/kinds", s.ListKinds)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.ListProjects)
		r.Post("/", s.CreateProject)
		r.Route("/{project}", func(r chi.Router) {
			r.Delete("/", s.DeleteProject)
			r.Get("/document", s.GetDocument)
			r.Put("/document", s.PutDocument)
			r.Get("/validate", s.ValidateProject)
			r.Get("/events", s.SubscribeEvents)

			for _, pattern := range []string{"/nodes", "/nodes/*"} {
				r.Get(pattern, s.GetNode)
				r.Post(pattern, s.CreateNode)
				r.Patch(pattern, s.ApplyNode)
				r.Delete(pattern, s.RemoveNode)
			}
			r.Post("/rename/*", s.RenameNode)
			r.Post("/move/*", s.MoveNode)
			r.Post("/mesh/*", s.MeshNode)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
