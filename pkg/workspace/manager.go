package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/femtree/internal/logging"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.RWMutex
	refs int
}

// Op names a mutation in hooks and logs.
type Op struct {
	Name string
	Path string
}

// Manager serializes access to the projects of a store.
type Manager struct {
	store ports.ProjectStore
	reg   *registry.Registry

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store that rebuilds trees with reg.
func NewManager(store ports.ProjectStore, reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		reg:     reg,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying project store.
func (m *Manager) Store() ports.ProjectStore {
	return m.store
}

// Registry returns the registry trees are rebuilt with.
func (m *Manager) Registry() *registry.Registry {
	return m.reg
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu and call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[name]
	if !ok {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[name]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// WithLock runs fn while holding the lock of project name.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := domain.ValidateProjectName(name); err != nil {
		return err
	}

	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"project", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Create stores a new project holding an empty model tagged rootTag.
// An empty rootTag uses the project name.
func (m *Manager) Create(ctx context.Context, name, rootTag string) (*tree.ModelTree, error) {
	if rootTag == "" {
		rootTag = name
	}
	model, err := tree.NewModelTree(m.reg, rootTag)
	if err != nil {
		return nil, err
	}
	if err := m.Import(ctx, name, document.Write(model.Node), false); err != nil {
		return nil, err
	}
	return model, nil
}

// Import stores doc as project name after checking that it rebuilds into a
// model tree. An existing project is replaced only when overwrite is set.
func (m *Manager) Import(ctx context.Context, name string, doc *document.Document, overwrite bool) error {
	model, err := document.ReadModel(m.reg, doc)
	if err != nil {
		return err
	}
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		if !overwrite {
			_, err := m.store.Load(ctx, name)
			switch {
			case err == nil:
				return fmt.Errorf("%w: %s", domain.ErrProjectExists, name)
			case !errors.Is(err, domain.ErrProjectNotFound):
				return err
			}
		}
		return m.save(ctx, name, model)
	})
}

// View loads project name and passes its tree to fn. Views of the same
// project run concurrently with each other but never with a mutation.
// Changes fn makes to the tree are discarded.
func (m *Manager) View(ctx context.Context, name string, fn func(*tree.ModelTree) error) error {
	if err := domain.ValidateProjectName(name); err != nil {
		return err
	}

	entry := m.acquire(name)
	entry.mu.RLock()
	defer func() {
		entry.mu.RUnlock()
		m.release(name)
	}()

	model, err := m.load(ctx, name)
	if err != nil {
		return err
	}
	return fn(model)
}

// Update loads project name, lets fn change its tree and saves the result.
// Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, name string, op Op, fn func(*tree.ModelTree) error) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		start := time.Now()
		err := m.update(ctx, name, fn)
		m.emitMutation(ctx, name, op, time.Since(start), err)
		return err
	})
}

func (m *Manager) update(ctx context.Context, name string, fn func(*tree.ModelTree) error) error {
	model, err := m.load(ctx, name)
	if err != nil {
		return err
	}
	if err := fn(model); err != nil {
		return err
	}
	return m.save(ctx, name, model)
}

// Delete removes project name from the store.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Delete(ctx, name)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

func (m *Manager) load(ctx context.Context, name string) (*tree.ModelTree, error) {
	start := time.Now()
	doc, err := m.store.Load(ctx, name)
	var model *tree.ModelTree
	if err == nil {
		model, err = document.ReadModel(m.reg, doc)
	}

	nodes := 0
	if model != nil {
		nodes = model.Size()
	}
	m.emitProject(ctx, domain.EventProjectLoad, name, nodes, time.Since(start), err)
	return model, err
}

func (m *Manager) save(ctx context.Context, name string, model *tree.ModelTree) error {
	start := time.Now()
	err := m.store.Save(ctx, name, document.Write(model.Node))
	m.emitProject(ctx, domain.EventProjectSave, name, model.Size(), time.Since(start), err)
	return err
}

func (m *Manager) emitProject(ctx context.Context, typ domain.EventType, name string, nodes int, d time.Duration, err error) {
	if err != nil {
		m.logger.Debug("project io failed", "type", typ, "project", name, "err", err)
	}
	hook := m.hooks.OnLoad
	if typ == domain.EventProjectSave {
		hook = m.hooks.OnSave
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.ProjectEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, Project: name},
		Nodes:     nodes,
		Duration:  d,
		Err:       err,
	})
}

func (m *Manager) emitMutation(ctx context.Context, name string, op Op, d time.Duration, err error) {
	if err != nil {
		m.logger.Debug("mutation rejected", "project", name, "op", op.Name, "path", op.Path, "err", err)
	} else {
		m.logger.Debug("mutation applied", "project", name, "op", op.Name, "path", op.Path)
	}
	if m.hooks.OnMutation == nil {
		return
	}
	m.hooks.OnMutation(ctx, &domain.MutationEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMutation, Project: name},
		Op:        op.Name,
		Path:      op.Path,
		Duration:  d,
		Err:       err,
	})
}
