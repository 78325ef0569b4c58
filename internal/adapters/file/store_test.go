package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/femtree/internal/adapters/file"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir(), "")
	ports.RunProjectStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir, "zip")
	ctx := context.Background()
	doc := &document.Document{
		Attributes: map[string]any{domain.KeyTag: "m", domain.KeyTypeInfo: "model"},
		Children:   []*document.Document{},
	}

	require.NoError(t, store.Save(ctx, "channel", doc))
	assert.FileExists(t, filepath.Join(dir, "channel.zip"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-channel.zip-123"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.zip"), 0o755))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"channel"}, names)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"), "")
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	store := file.New(t.TempDir(), "")
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "a/b"} {
		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrInvalidProjectName, name)
		assert.ErrorIs(t, store.Delete(ctx, name), domain.ErrInvalidProjectName, name)
	}
}

func TestFileStore_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.proj"), []byte("garbage"), 0o644))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.NotErrorIs(t, err, domain.ErrProjectNotFound)
}
