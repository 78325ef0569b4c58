package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProjectStoreContract runs a suite of tests to verify that a ProjectStore
// implementation adheres to the defined interface contract.
func RunProjectStoreContract(t *testing.T, store ProjectStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func(tag string) *document.Document {
		return &document.Document{
			Attributes: map[string]any{
				domain.KeyTag:      tag,
				domain.KeyTypeInfo: "model",
			},
			Children: []*document.Document{{
				Attributes: map[string]any{
					domain.KeyTag:      "std",
					domain.KeyTypeInfo: "study",
					"physics_tag":      nil,
				},
				Children: []*document.Document{},
			}},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample("m")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "m", loaded.Tag())
		require.Len(t, loaded.Children, 1)
		assert.Equal(t, "std", loaded.Children[0].Tag())
		assert.Contains(t, loaded.Children[0].Attributes, "physics_tag")
		assert.Nil(t, loaded.Children[0].Attributes["physics_tag"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample("first")))
		require.NoError(t, store.Save(ctx, name, sample("second")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Tag())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample("m")))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound, "Load after Delete should return ErrProjectNotFound")
		assert.NoError(t, store.Delete(ctx, name), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-a"
		id2 := name + "-b"
		require.NoError(t, store.Save(ctx, id2, sample("m")))
		require.NoError(t, store.Save(ctx, id1, sample("m")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsIncreasing(t, names)
	})
}
