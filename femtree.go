package femtree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/femtree/internal/logging"
	"github.com/aretw0/femtree/internal/validator"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/aretw0/femtree/pkg/workspace"
)

// Issue is a problem reported by Validate.
type Issue = validator.Issue

// Engine is the high-level entry point of the library. It resolves node
// paths inside stored projects and runs every change through a
// workspace.Manager, so concurrent callers never lose updates.
type Engine struct {
	ws     *workspace.Manager
	reg    *registry.Registry
	mesher ports.MeshEngine
	solver ports.Solver
	hooks  domain.LifecycleHooks
	locker ports.DistributedLocker
	logger *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry replaces the default fem registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.reg = reg
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLocker enables distributed locking of projects.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithMeshEngine sets the engine used by Mesh.
func WithMeshEngine(m ports.MeshEngine) Option {
	return func(e *Engine) {
		e.mesher = m
	}
}

// WithSolver sets the solver used by Solve.
func WithSolver(s ports.Solver) Option {
	return func(e *Engine) {
		e.solver = s
	}
}

// New initializes an Engine over store.
func New(store ports.ProjectStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("a project store is required")
	}
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.reg == nil {
		eng.reg = fem.Registry()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	wsOpts := []workspace.Option{
		workspace.WithLogger(eng.logger),
		workspace.WithHooks(eng.hooks),
	}
	if eng.locker != nil {
		wsOpts = append(wsOpts, workspace.WithLocker(eng.locker))
	}
	eng.ws = workspace.NewManager(store, eng.reg, wsOpts...)
	return eng, nil
}

// Registry returns the registry nodes are created from.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Workspace returns the underlying workspace manager.
func (e *Engine) Workspace() *workspace.Manager {
	return e.ws
}

// NewProject stores an empty model tagged rootTag (the project name when empty).
func (e *Engine) NewProject(ctx context.Context, name, rootTag string) (*NodeView, error) {
	model, err := e.ws.Create(ctx, name, rootTag)
	if err != nil {
		return nil, err
	}
	e.logger.Info("project created", "project", name)
	return View(model.Node), nil
}

// FromTemplate stores the template called template as project name, with
// the model tagged after the project.
func (e *Engine) FromTemplate(ctx context.Context, name, template string, overwrite bool) (*NodeView, error) {
	build, ok := fem.Templates[template]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, template)
	}
	opts := fem.DefaultChannel()
	opts.Tag = name
	model, err := build(e.reg, opts)
	if err != nil {
		return nil, err
	}
	if err := e.ws.Import(ctx, name, document.Write(model.Node), overwrite); err != nil {
		return nil, err
	}
	e.logger.Info("project created", "project", name, "template", template)
	return View(model.Node), nil
}

// Projects lists the stored project names.
func (e *Engine) Projects(ctx context.Context) ([]string, error) {
	return e.ws.List(ctx)
}

// DeleteProject removes a project.
func (e *Engine) DeleteProject(ctx context.Context, name string) error {
	return e.ws.Delete(ctx, name)
}

// Document returns the document of project name, or of the subtree at path.
func (e *Engine) Document(ctx context.Context, name, path string) (*document.Document, error) {
	var doc *document.Document
	err := e.ws.View(ctx, name, func(m *tree.ModelTree) error {
		n, err := m.FindPath(path)
		if err != nil {
			return err
		}
		doc = document.Write(n)
		return nil
	})
	return doc, err
}

// ImportDocument stores doc as project name. The document must rebuild into
// a model tree; an existing project is replaced only when overwrite is set.
func (e *Engine) ImportDocument(ctx context.Context, name string, doc *document.Document, overwrite bool) error {
	return e.ws.Import(ctx, name, doc, overwrite)
}

// View runs fn on the tree of project name. Changes are discarded.
func (e *Engine) View(ctx context.Context, name string, fn func(*tree.ModelTree) error) error {
	return e.ws.View(ctx, name, fn)
}

// Snapshot returns the view of the node at path.
func (e *Engine) Snapshot(ctx context.Context, name, path string) (*NodeView, error) {
	var view *NodeView
	err := e.ws.View(ctx, name, func(m *tree.ModelTree) error {
		n, err := m.FindPath(path)
		if err != nil {
			return err
		}
		view = View(n)
		return nil
	})
	return view, err
}

// Create appends a child of type typeName under the node at parentPath.
func (e *Engine) Create(ctx context.Context, name, parentPath, typeName, tag string, args map[string]any) (*NodeView, error) {
	return e.mutate(ctx, name, "create", join(parentPath, tag), func(m *tree.ModelTree) (*tree.Node, error) {
		parent, err := m.FindPath(parentPath)
		if err != nil {
			return nil, err
		}
		return parent.Create(typeName, tag, args)
	})
}

// Insert is like Create but places the child at pos.
func (e *Engine) Insert(ctx context.Context, name, parentPath string, pos int, typeName, tag string, args map[string]any) (*NodeView, error) {
	return e.mutate(ctx, name, "insert", join(parentPath, tag), func(m *tree.ModelTree) (*tree.Node, error) {
		parent, err := m.FindPath(parentPath)
		if err != nil {
			return nil, err
		}
		return parent.CreateAt(pos, typeName, tag, args)
	})
}

// Remove deletes the node at path with its subtree and returns the view of
// its former parent.
func (e *Engine) Remove(ctx context.Context, name, path string) (*NodeView, error) {
	return e.mutate(ctx, name, "remove", path, func(m *tree.ModelTree) (*tree.Node, error) {
		n, row, err := child(m, path)
		if err != nil {
			return nil, err
		}
		parent := n.Parent()
		if _, err := parent.RemoveChild(row); err != nil {
			return nil, err
		}
		return parent, nil
	})
}

// Rename changes the tag of the node at path. The root keeps the tag it
// was created with.
func (e *Engine) Rename(ctx context.Context, name, path, tag string) (*NodeView, error) {
	return e.mutate(ctx, name, "rename", path, func(m *tree.ModelTree) (*tree.Node, error) {
		n, _, err := child(m, path)
		if err != nil {
			return nil, err
		}
		return n, n.SetTag(tag)
	})
}

// Apply writes attribute values to the node at path. Either every value is
// applied or none is.
func (e *Engine) Apply(ctx context.Context, name, path string, values map[string]any) (*NodeView, error) {
	return e.mutate(ctx, name, "apply", path, func(m *tree.ModelTree) (*tree.Node, error) {
		n, err := m.FindPath(path)
		if err != nil {
			return nil, err
		}
		return n, n.Apply(values)
	})
}

// Move places the node at path at position pos among its siblings.
func (e *Engine) Move(ctx context.Context, name, path string, pos int) (*NodeView, error) {
	return e.mutate(ctx, name, "move", path, func(m *tree.ModelTree) (*tree.Node, error) {
		n, row, err := child(m, path)
		if err != nil {
			return nil, err
		}
		parent := n.Parent()
		if pos < 0 || pos >= parent.NumChildren() {
			return nil, fmt.Errorf("%w: move to %d, %d children", domain.ErrIndexOutOfRange, pos, parent.NumChildren())
		}
		if _, err := parent.RemoveChild(row); err != nil {
			return nil, err
		}
		return n, parent.InsertChild(pos, n)
	})
}

// Validate reports cross reference problems of project name.
func (e *Engine) Validate(ctx context.Context, name string) ([]Issue, error) {
	var issues []Issue
	err := e.ws.View(ctx, name, func(m *tree.ModelTree) error {
		issues = validator.Validate(m)
		return nil
	})
	return issues, err
}

// Mesh runs the mesh engine on the geometry named by the mesh node at path.
func (e *Engine) Mesh(ctx context.Context, name, path string) (*ports.MeshStats, error) {
	if e.mesher == nil {
		return nil, ErrNoMeshEngine
	}
	var stats *ports.MeshStats
	err := e.ws.View(ctx, name, func(m *tree.ModelTree) error {
		n, err := m.FindPath(path)
		if err != nil {
			return err
		}
		mesh, ok := tree.EntityAs[*fem.Mesh](n)
		if !ok {
			return fmt.Errorf("%w: %s is not a mesh", domain.ErrInvalidChildKind, n)
		}
		if n.Parent() == nil {
			return fmt.Errorf("%w: mesh %s is detached", domain.ErrMalformedDocument, n)
		}
		geometry, err := n.Parent().ChildByTag(mesh.GeomTag)
		if err != nil {
			return fmt.Errorf("geom_tag: %w", err)
		}
		stats, err = e.mesher.Mesh(ctx, geometry, mesh.Resolution)
		return err
	})
	if err == nil {
		e.logger.Info("mesh generated", "project", name, "path", path, "triangles", stats.Triangles)
	}
	return stats, err
}

// Solve hands the study at path and the whole model to the solver.
func (e *Engine) Solve(ctx context.Context, name, path string) error {
	if e.solver == nil {
		return ErrNoSolver
	}
	var model, study *document.Document
	err := e.ws.View(ctx, name, func(m *tree.ModelTree) error {
		n, err := m.FindPath(path)
		if err != nil {
			return err
		}
		if n.Kind() != domain.KindStudy {
			return fmt.Errorf("%w: %s is not a study", domain.ErrInvalidChildKind, n)
		}
		model, study = document.Write(m.Node), document.Write(n)
		return nil
	})
	if err != nil {
		return err
	}
	return e.solver.Solve(ctx, model, study)
}

// Kinds describes every registered entity type, sorted by name.
func (e *Engine) Kinds() []KindInfo {
	descs := e.reg.Descriptors()
	out := make([]KindInfo, 0, len(descs))
	for _, d := range descs {
		out = append(out, kindInfo(d))
	}
	return out
}

// mutate runs fn inside a workspace update and returns the view of the node
// fn reports.
func (e *Engine) mutate(ctx context.Context, name, op, path string, fn func(*tree.ModelTree) (*tree.Node, error)) (*NodeView, error) {
	var view *NodeView
	err := e.ws.Update(ctx, name, workspace.Op{Name: op, Path: path}, func(m *tree.ModelTree) error {
		n, err := fn(m)
		if err != nil {
			return err
		}
		view = View(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// child resolves a non-root path and returns the node with its row.
func child(m *tree.ModelTree, path string) (*tree.Node, int, error) {
	n, err := m.FindPath(path)
	if err != nil {
		return nil, 0, err
	}
	row, ok := n.Row()
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrRootNode, path)
	}
	return n, row, nil
}

func join(parent, tag string) string {
	parent = strings.Trim(parent, tree.PathSeparator)
	if parent == "" {
		return tag
	}
	return parent + tree.PathSeparator + tag
}
