package workspace_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/femtree/pkg/adapters/memory"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/aretw0/femtree/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, name string) (*document.Document, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, name)
}

func TestManager_SerializesUpdates(t *testing.T) {
	mgr := workspace.NewManager(slowStore{memory.NewStore()}, fem.Registry())
	ctx := context.Background()

	_, err := mgr.Create(ctx, "race", "m")
	require.NoError(t, err)

	var wg sync.WaitGroup
	writers := 20
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := mgr.Update(ctx, "race", workspace.Op{Name: "create"}, func(m *tree.ModelTree) error {
				_, err := m.Create(fem.TypeStudy, fmt.Sprintf("std%d", i), nil)
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.NoError(t, mgr.View(ctx, "race", func(m *tree.ModelTree) error {
		assert.Equal(t, writers, m.NumChildren(), "no update may be lost")
		return nil
	}))
}

func TestManager_FailedUpdateSavesNothing(t *testing.T) {
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)

	err = mgr.Update(ctx, "p", workspace.Op{Name: "create"}, func(m *tree.ModelTree) error {
		if _, err := m.Create(fem.TypeStudy, "std", nil); err != nil {
			return err
		}
		_, err := m.Create(fem.TypeGeometry, "geom", nil)
		return err
	})
	require.ErrorIs(t, err, domain.ErrInvalidChildKind)

	require.NoError(t, mgr.View(ctx, "p", func(m *tree.ModelTree) error {
		assert.Zero(t, m.NumChildren())
		return nil
	}))
}

func TestManager_ViewDiscardsChanges(t *testing.T) {
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)

	require.NoError(t, mgr.View(ctx, "p", func(m *tree.ModelTree) error {
		_, err := m.Create(fem.TypeStudy, "std", nil)
		return err
	}))
	require.NoError(t, mgr.View(ctx, "p", func(m *tree.ModelTree) error {
		assert.Zero(t, m.NumChildren())
		return nil
	}))
}

func TestManager_CreateAndImport(t *testing.T) {
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry())
	ctx := context.Background()

	model, err := mgr.Create(ctx, "channel", "")
	require.NoError(t, err)
	assert.Equal(t, "channel", model.Tag())

	_, err = mgr.Create(ctx, "channel", "")
	assert.ErrorIs(t, err, domain.ErrProjectExists)

	_, err = mgr.Create(ctx, "../x", "")
	assert.ErrorIs(t, err, domain.ErrInvalidProjectName)

	plane, err := fem.PoiseuillePlane(fem.Registry(), fem.DefaultChannel())
	require.NoError(t, err)
	doc := document.Write(plane.Node)

	assert.ErrorIs(t, mgr.Import(ctx, "channel", doc, false), domain.ErrProjectExists)
	require.NoError(t, mgr.Import(ctx, "channel", doc, true))

	require.NoError(t, mgr.View(ctx, "channel", func(m *tree.ModelTree) error {
		assert.Equal(t, doc, document.Write(m.Node))
		return nil
	}))

	bad := &document.Document{Attributes: map[string]any{domain.KeyTag: "s", domain.KeyTypeInfo: "study"}}
	assert.ErrorIs(t, mgr.Import(ctx, "bad", bad, false), domain.ErrMalformedDocument)

	names, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"channel"}, names)

	require.NoError(t, mgr.Delete(ctx, "channel"))
	err = mgr.View(ctx, "channel", func(*tree.ModelTree) error { return nil })
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestManager_Hooks(t *testing.T) {
	var (
		mu        sync.Mutex
		loads     []*domain.ProjectEvent
		saves     []*domain.ProjectEvent
		mutations []*domain.MutationEvent
	)
	hooks := domain.LifecycleHooks{
		OnLoad: func(_ context.Context, e *domain.ProjectEvent) {
			mu.Lock()
			defer mu.Unlock()
			loads = append(loads, e)
		},
		OnSave: func(_ context.Context, e *domain.ProjectEvent) {
			mu.Lock()
			defer mu.Unlock()
			saves = append(saves, e)
		},
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			mu.Lock()
			defer mu.Unlock()
			mutations = append(mutations, e)
		},
	}
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry(), workspace.WithHooks(hooks))
	ctx := context.Background()

	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, domain.EventProjectSave, saves[0].Type)
	assert.Equal(t, 1, saves[0].Nodes)

	op := workspace.Op{Name: "create", Path: "std"}
	require.NoError(t, mgr.Update(ctx, "p", op, func(m *tree.ModelTree) error {
		_, err := m.Create(fem.TypeStudy, "std", nil)
		return err
	}))
	boom := errors.New("boom")
	assert.ErrorIs(t, mgr.Update(ctx, "p", workspace.Op{Name: "noop"}, func(*tree.ModelTree) error { return boom }), boom)

	require.Len(t, loads, 2)
	assert.Equal(t, "p", loads[0].Project)
	assert.Equal(t, 1, loads[0].Nodes)
	assert.Equal(t, 2, loads[1].Nodes)

	require.Len(t, saves, 2, "failed mutation must not save")
	assert.Equal(t, 2, saves[1].Nodes)

	require.Len(t, mutations, 2)
	assert.Equal(t, "create", mutations[0].Op)
	assert.Equal(t, "std", mutations[0].Path)
	assert.NoError(t, mutations[0].Err)
	assert.Equal(t, "noop", mutations[1].Op)
	assert.ErrorIs(t, mutations[1].Err, boom)
}

type recordingLocker struct {
	mu     sync.Mutex
	locked []string
	held   int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	l.held++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held--
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry(), workspace.WithLocker(locker))
	ctx := context.Background()

	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)
	require.NoError(t, mgr.View(ctx, "p", func(*tree.ModelTree) error { return nil }))
	require.NoError(t, mgr.Update(ctx, "p", workspace.Op{Name: "noop"}, func(*tree.ModelTree) error { return nil }))

	assert.Equal(t, []string{"p", "p"}, locker.locked, "views do not take the distributed lock")
	assert.Zero(t, locker.held)
}

func TestManager_ViewsShareTheLock(t *testing.T) {
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)

	// Each view waits inside its callback until the other has entered, which
	// only completes when both hold the project lock at the same time.
	var inside sync.WaitGroup
	inside.Add(2)
	done := make(chan struct{})
	go func() {
		inside.Wait()
		close(done)
	}()

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- mgr.View(ctx, "p", func(*tree.ModelTree) error {
				inside.Done()
				select {
				case <-done:
					return nil
				case <-time.After(2 * time.Second):
					return errors.New("views were serialized")
				}
			})
		}()
	}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
}

func TestManager_ViewWaitsForUpdate(t *testing.T) {
	mgr := workspace.NewManager(memory.NewStore(), fem.Registry())
	ctx := context.Background()
	_, err := mgr.Create(ctx, "p", "m")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	updated := make(chan error, 1)
	go func() {
		updated <- mgr.Update(ctx, "p", workspace.Op{Name: "create", Path: "std"}, func(m *tree.ModelTree) error {
			close(entered)
			<-release
			_, err := m.Node.Create(fem.TypeStudy, "std", nil)
			return err
		})
	}()
	<-entered

	viewed := make(chan []string, 1)
	go func() {
		_ = mgr.View(ctx, "p", func(m *tree.ModelTree) error {
			var tags []string
			for _, c := range m.Node.Children() {
				tags = append(tags, c.Tag())
			}
			viewed <- tags
			return nil
		})
	}()

	select {
	case <-viewed:
		t.Fatal("view ran while an update held the lock")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-updated)
	assert.Equal(t, []string{"std"}, <-viewed)
}
