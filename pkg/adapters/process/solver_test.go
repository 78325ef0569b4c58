package process_test

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/pkg/adapters/memory"
	"github.com/aretw0/femtree/pkg/adapters/process"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("solver scripts use sh")
	}
}

func newEngine(t *testing.T, solver *process.Solver) *femtree.Engine {
	t.Helper()
	eng, err := femtree.New(memory.NewStore(), femtree.WithSolver(solver))
	require.NoError(t, err)
	_, err = eng.FromTemplate(context.Background(), "pp", "poiseuille_plane", false)
	require.NoError(t, err)
	return eng
}

func TestSolver_RunsRegisteredCommand(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	solver := process.New(
		process.WithStdout(&out),
		process.WithBaseDir(t.TempDir()),
		process.WithRegistry([]process.SolverConfig{{
			Type:        "ipcs",
			Command:     "sh",
			Args:        []string{"-c", `test -s "$FEMTREE_MODEL" && test -s "$FEMTREE_STUDY" && echo "$FEMTREE_SOLVER_TYPE $FEMTREE_STUDY_TAG $FEMTREE_ARG_NUM_STEPS $CASE"`},
			Environment: map[string]string{"CASE": "plane"},
		}}),
	)
	assert.Equal(t, []string{"ipcs"}, solver.Types())

	eng := newEngine(t, solver)
	ctx := context.Background()
	_, err := eng.Apply(ctx, "pp", "std/ipcs1", map[string]any{"num_steps": 7})
	require.NoError(t, err)

	require.NoError(t, eng.Solve(ctx, "pp", "std"))
	assert.Equal(t, "ipcs std 7 plane\n", out.String())
}

func TestSolver_ScratchDir(t *testing.T) {
	requireShell(t)
	base := t.TempDir()
	solver := process.New(process.WithBaseDir(base))
	solver.Register("ipcs", "true")

	eng := newEngine(t, solver)
	require.NoError(t, eng.Solve(context.Background(), "pp", "std"))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)

	keep := process.New(process.WithBaseDir(base), process.WithKeepDir(true))
	keep.Register("ipcs", "true")
	eng = newEngine(t, keep)
	require.NoError(t, eng.Solve(context.Background(), "pp", "std"))

	entries, err = os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.FileExists(t, base+"/"+entries[0].Name()+"/model.json")
	assert.FileExists(t, base+"/"+entries[0].Name()+"/study.json")
}

func TestSolver_Errors(t *testing.T) {
	requireShell(t)
	ctx := context.Background()

	err := process.New().Solve(ctx, &document.Document{}, &document.Document{Attributes: map[string]any{"tag": "std"}})
	assert.ErrorIs(t, err, process.ErrNoSolverFeature)

	eng := newEngine(t, process.New())
	err = eng.Solve(ctx, "pp", "std")
	assert.ErrorIs(t, err, process.ErrSolverNotRegistered)

	failing := process.New(process.WithBaseDir(t.TempDir()))
	failing.Register("ipcs", "sh", "-c", "echo diverged >&2; exit 3")
	eng = newEngine(t, failing)
	err = eng.Solve(ctx, "pp", "std")
	assert.ErrorIs(t, err, process.ErrSolverFailed)
	assert.ErrorContains(t, err, "diverged")
}
