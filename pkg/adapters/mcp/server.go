// Package mcp exposes the femtree Engine as Model Context Protocol tools, so
// agents can inspect and edit project trees.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/internal/logging"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// KindsURI is the resource listing the registered entity types.
const KindsURI = "femtree://kinds"

// Engine is the subset of femtree.Engine exposed as tools.
type Engine interface {
	Kinds() []femtree.KindInfo
	Projects(ctx context.Context) ([]string, error)
	NewProject(ctx context.Context, name, rootTag string) (*femtree.NodeView, error)
	FromTemplate(ctx context.Context, name, template string, overwrite bool) (*femtree.NodeView, error)
	Document(ctx context.Context, name, path string) (*document.Document, error)
	Snapshot(ctx context.Context, name, path string) (*femtree.NodeView, error)
	Create(ctx context.Context, name, parentPath, typeName, tag string, args map[string]any) (*femtree.NodeView, error)
	Insert(ctx context.Context, name, parentPath string, pos int, typeName, tag string, args map[string]any) (*femtree.NodeView, error)
	Remove(ctx context.Context, name, path string) (*femtree.NodeView, error)
	Rename(ctx context.Context, name, path, tag string) (*femtree.NodeView, error)
	Apply(ctx context.Context, name, path string, values map[string]any) (*femtree.NodeView, error)
	Move(ctx context.Context, name, path string, pos int) (*femtree.NodeView, error)
	Validate(ctx context.Context, name string) ([]femtree.Issue, error)
}

var _ Engine = (*femtree.Engine)(nil)

// ValidateResponse lists the issues of a project.
type ValidateResponse struct {
	Valid  bool            `json:"valid" jsonschema_description:"True when no issue was found"`
	Issues []femtree.Issue `json:"issues" jsonschema_description:"Cross reference problems, by node path"`
}

// Server wraps the Engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("femtree-mcp", strings.TrimSpace(femtree.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the protocol over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List the entity types that can be created, with their accepted children and attributes."),
	), s.handleListKinds)

	s.mcpServer.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List the stored project names."),
	), s.handleListProjects)

	s.mcpServer.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a project, empty or from a template (poiseuille_plane, poiseuille_axi)."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("template", mcp.Description("Template name (optional)")),
		mcp.WithString("root_tag", mcp.Description("Tag of the model root (optional, defaults to the project name)")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleCreateProject))

	s.mcpServer.AddTool(mcp.NewTool("snapshot_node",
		mcp.WithDescription("Show a node: its kind, attributes and child tags. An empty path is the model root."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Description("Slash separated tag path (optional)")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleSnapshot))

	s.mcpServer.AddTool(mcp.NewTool("create_node",
		mcp.WithDescription("Create a child node under parent. Call list_kinds for the accepted types."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("parent", mcp.Description("Path of the parent node (optional, the root by default)")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Entity type name")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag of the new node")),
		mcp.WithNumber("position", mcp.Description("Child position (optional, appends by default)")),
		mcp.WithString("args", mcp.Description("JSON object of constructor attributes (optional)")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleCreateNode))

	s.mcpServer.AddTool(mcp.NewTool("remove_node",
		mcp.WithDescription("Remove a node and its subtree. Returns the former parent."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the node")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleRemoveNode))

	s.mcpServer.AddTool(mcp.NewTool("rename_node",
		mcp.WithDescription("Change the tag of a node."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the node")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("New tag")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleRenameNode))

	s.mcpServer.AddTool(mcp.NewTool("move_node",
		mcp.WithDescription("Move a node to another position among its siblings."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the node")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("New position")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleMoveNode))

	s.mcpServer.AddTool(mcp.NewTool("apply_attributes",
		mcp.WithDescription("Set attribute values of a node. Quantities take units, e.g. \"20 mm\". All values are applied or none."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Description("Path of the node (optional, the root by default)")),
		mcp.WithString("values", mcp.Required(), mcp.Description("JSON object of attribute values")),
		mcp.WithOutputSchema[femtree.NodeView](),
	), mcp.NewStructuredToolHandler(s.handleApply))

	s.mcpServer.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Export the document of a project or of a subtree."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("path", mcp.Description("Path of the subtree (optional)")),
		mcp.WithString("format", mcp.Description("json (default) or yaml")),
	), s.handleGetDocument)

	s.mcpServer.AddTool(mcp.NewTool("validate_project",
		mcp.WithDescription("Check the references between nodes of a project."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project name")),
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleListKinds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.engine.Kinds())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode kinds: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.engine.Projects(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list projects failed: %v", err)), nil
	}
	if names == nil {
		names = []string{}
	}
	data, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleCreateProject(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	project := stringArg(args, "project")
	if template := stringArg(args, "template"); template != "" {
		return s.view(s.engine.FromTemplate(ctx, project, template, false))
	}
	return s.view(s.engine.NewProject(ctx, project, stringArg(args, "root_tag")))
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	return s.view(s.engine.Snapshot(ctx, stringArg(args, "project"), stringArg(args, "path")))
}

func (s *Server) handleCreateNode(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	attrs, err := objectArg(args, "args")
	if err != nil {
		return femtree.NodeView{}, err
	}
	project, parent := stringArg(args, "project"), stringArg(args, "parent")
	typeName, tag := stringArg(args, "type"), stringArg(args, "tag")
	if pos, ok := intArg(args, "position"); ok {
		return s.view(s.engine.Insert(ctx, project, parent, pos, typeName, tag, attrs))
	}
	return s.view(s.engine.Create(ctx, project, parent, typeName, tag, attrs))
}

func (s *Server) handleRemoveNode(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	return s.view(s.engine.Remove(ctx, stringArg(args, "project"), stringArg(args, "path")))
}

func (s *Server) handleRenameNode(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	return s.view(s.engine.Rename(ctx, stringArg(args, "project"), stringArg(args, "path"), stringArg(args, "tag")))
}

func (s *Server) handleMoveNode(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	pos, ok := intArg(args, "position")
	if !ok {
		return femtree.NodeView{}, fmt.Errorf("position is required")
	}
	return s.view(s.engine.Move(ctx, stringArg(args, "project"), stringArg(args, "path"), pos))
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (femtree.NodeView, error) {
	values, err := objectArg(args, "values")
	if err != nil {
		return femtree.NodeView{}, err
	}
	return s.view(s.engine.Apply(ctx, stringArg(args, "project"), stringArg(args, "path"), values))
}

func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	format := document.FormatJSON
	if v := stringArg(args, "format"); v != "" {
		f, err := document.ParseFormat(v)
		if err != nil || f == document.FormatArchive {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q", v)), nil
		}
		format = f
	}

	doc, err := s.engine.Document(ctx, stringArg(args, "project"), stringArg(args, "path"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get document failed: %v", err)), nil
	}
	var buf bytes.Buffer
	if err := document.Encode(&buf, doc, format); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode document: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidateResponse, error) {
	issues, err := s.engine.Validate(ctx, stringArg(args, "project"))
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("validate failed: %w", err)
	}
	if issues == nil {
		issues = []femtree.Issue{}
	}
	return ValidateResponse{Valid: len(issues) == 0, Issues: issues}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KindsURI, "Entity Types",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Kinds())
		if err != nil {
			return nil, fmt.Errorf("encode kinds: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      KindsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) view(v *femtree.NodeView, err error) (femtree.NodeView, error) {
	if err != nil {
		s.logger.Debug("MCP tool failed", "err", err)
		return femtree.NodeView{}, err
	}
	return *v, nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

// objectArg reads a JSON object passed either as a string or inline.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, fmt.Errorf("%s: invalid JSON object: %w", key, err)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%s: expected a JSON object, got %T", key, v)
	}
}
