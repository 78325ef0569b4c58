package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/femtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// femtreeCLI runs the root command against a file store in dir.
func femtreeCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "femtree.yaml"),
		"--store-dir", filepath.Join(dir, "projects"),
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_EditSession(t *testing.T) {
	dir := t.TempDir()

	out, err := femtreeCLI(t, dir, "template", "poiseuille_plane", "pp")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created project pp from poiseuille_plane")
	assert.FileExists(t, filepath.Join(dir, "projects", "pp.proj"))

	out, err = femtreeCLI(t, dir, "add", "pp", "comp/geom", "rectangle", "r2", "a=10 mm", "b=5 mm")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created comp/geom/r2 (rectangle) at row 1")

	out, err = femtreeCLI(t, dir, "set", "pp", "comp/geom/r2", "a=20 mm")
	require.NoError(t, err, out)

	out, err = femtreeCLI(t, dir, "rename", "pp", "comp/geom/r2", "inlet")
	require.NoError(t, err, out)
	assert.Contains(t, out, "renamed comp/geom/r2 to comp/geom/inlet")

	out, err = femtreeCLI(t, dir, "mv", "pp", "comp/geom/inlet", "0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "moved comp/geom/inlet to row 0")

	out, err = femtreeCLI(t, dir, "show", "pp", "--attrs")
	require.NoError(t, err, out)
	assert.Contains(t, out, "    - **inlet** _rectangle_: a=`0.02 m`")

	out, err = femtreeCLI(t, dir, "graph", "pp", "--overlay")
	require.NoError(t, err, out)
	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, "geom_tag")

	out, err = femtreeCLI(t, dir, "validate", "pp")
	require.NoError(t, err, out)
	assert.Contains(t, out, "project pp is valid")

	out, err = femtreeCLI(t, dir, "mesh", "pp", "comp/mesh")
	require.NoError(t, err, out)
	assert.Contains(t, out, "triangles")

	out, err = femtreeCLI(t, dir, "rm", "pp", "std/ipcs1")
	require.NoError(t, err, out)
	out, err = femtreeCLI(t, dir, "validate", "pp")
	assert.Error(t, err)
	assert.Contains(t, out, "std: study has no solver")

	out, err = femtreeCLI(t, dir, "add", "pp", "comp", "study", "s", "--at", "0")
	assert.Error(t, err)
	assert.Contains(t, out, "invalid child kind")

	out, err = femtreeCLI(t, dir, "show", "pp", "comp/geom/inlet", "--json")
	require.NoError(t, err, out)
	var view femtree.NodeView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "0.02 m", view.Attributes["a"])
}

func TestCLI_ExportImport(t *testing.T) {
	dir := t.TempDir()

	out, err := femtreeCLI(t, dir, "init", "blank", "--root-tag", "m")
	require.NoError(t, err, out)
	out, err = femtreeCLI(t, dir, "add", "blank", "/", "component", "comp", "dim=3")
	require.NoError(t, err, out)

	exported := filepath.Join(dir, "blank.yaml")
	out, err = femtreeCLI(t, dir, "export", "blank", exported)
	require.NoError(t, err, out)
	assert.Contains(t, out, "exported 2 nodes")
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dim: 3")

	out, err = femtreeCLI(t, dir, "import", "copy", exported)
	require.NoError(t, err, out)
	assert.Contains(t, out, "imported 2 nodes into copy")

	out, err = femtreeCLI(t, dir, "import", "copy", exported)
	assert.Error(t, err)
	assert.Contains(t, out, "already exists")

	out, err = femtreeCLI(t, dir, "ls")
	require.NoError(t, err, out)
	assert.Equal(t, "blank\ncopy\n", out)

	out, err = femtreeCLI(t, dir, "export", "copy", "-", "--format", "json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"tag": "m"`)

	out, err = femtreeCLI(t, dir, "delete", "copy")
	require.NoError(t, err, out)
	out, err = femtreeCLI(t, dir, "version")
	require.NoError(t, err, out)
	assert.Contains(t, out, "femtree version")
}

func TestRelative(t *testing.T) {
	tests := []struct {
		base, path, want string
		ok               bool
	}{
		{"", "comp/geom", "comp/geom", true},
		{"comp", "comp/geom", "geom", true},
		{"comp", "comp", "", true},
		{"/comp/", "comp/geom/r1", "geom/r1", true},
		{"comp", "std", "", false},
		{"comp", "compx/geom", "", false},
	}
	for _, tt := range tests {
		got, ok := relative(tt.base, tt.path)
		assert.Equal(t, tt.ok, ok, "%q in %q", tt.path, tt.base)
		assert.Equal(t, tt.want, got, "%q in %q", tt.path, tt.base)
	}
}
