package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/femtree/internal/config"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{
		"dim=2",
		"a=20 mm",
		"is_axi=true",
		"geom_tag=null",
		`x0=["1 mm", 0, 0]`,
		`label="2"`,
		"expr=x[0] <= 0.5",
		"empty=",
	})
	require.NoError(t, err)

	assert.Equal(t, json.Number("2"), args["dim"])
	assert.Equal(t, "20 mm", args["a"])
	assert.Equal(t, true, args["is_axi"])
	assert.Nil(t, args["geom_tag"])
	assert.Contains(t, args, "geom_tag")
	assert.Equal(t, []any{"1 mm", json.Number("0"), json.Number("0")}, args["x0"])
	assert.Equal(t, "2", args["label"])
	assert.Equal(t, "x[0] <= 0.5", args["expr"])
	assert.Equal(t, "", args["empty"])

	none, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseArgs([]string{"novalue"})
	assert.ErrorContains(t, err, "expected key=value")
	_, err = ParseArgs([]string{"=1"})
	assert.Error(t, err)
	_, err = ParseArgs([]string{"a=1", "a=2"})
	assert.ErrorContains(t, err, "given twice")
}

func newConfig(backend string) config.Config {
	cfg := config.Default()
	cfg.Store.Backend = backend
	return cfg
}

func buildChannel(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()
	_, err := app.Engine.FromTemplate(ctx, "pp", "poiseuille_plane", false)
	require.NoError(t, err)
	view, err := app.Engine.Create(ctx, "pp", "comp/geom", fem.TypeRectangle, "r2", map[string]any{"a": "1 mm"})
	require.NoError(t, err)
	assert.Equal(t, "comp/geom/r2", view.Path)
	names, err := app.Engine.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pp"}, names)
}

func TestNewApp_Backends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		app, err := NewApp(newConfig(config.BackendMemory), Options{LogOutput: &bytes.Buffer{}})
		require.NoError(t, err)
		defer app.Close()
		buildChannel(t, app)
	})

	t.Run("file", func(t *testing.T) {
		cfg := newConfig(config.BackendFile)
		cfg.Store.Dir = t.TempDir()
		app, err := NewApp(cfg, Options{LogOutput: &bytes.Buffer{}})
		require.NoError(t, err)
		defer app.Close()
		buildChannel(t, app)
		assert.FileExists(t, cfg.Store.Dir+"/pp.proj")
	})

	t.Run("encrypted file", func(t *testing.T) {
		cfg := newConfig(config.BackendFile)
		cfg.Store.Dir = t.TempDir()
		cfg.Store.EncryptionKey = strings.Repeat("5a", 32)
		app, err := NewApp(cfg, Options{LogOutput: &bytes.Buffer{}})
		require.NoError(t, err)
		defer app.Close()
		buildChannel(t, app)

		raw, err := document.LoadFile(cfg.Store.Dir + "/pp.proj")
		require.NoError(t, err)
		assert.Equal(t, middleware.EnvelopeType, raw.TypeInfo())
		assert.Empty(t, raw.Children)
	})

	t.Run("redis with lock", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := newConfig(config.BackendRedis)
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.TTL = time.Hour
		cfg.Redis.Lock = true
		app, err := NewApp(cfg, Options{LogOutput: &bytes.Buffer{}})
		require.NoError(t, err)
		buildChannel(t, app)
		assert.True(t, mr.Exists(cfg.Redis.Prefix+"pp"))
		assert.NoError(t, app.Close())
	})

	t.Run("file with redis lock", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := newConfig(config.BackendFile)
		cfg.Store.Dir = t.TempDir()
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.Lock = true
		app, err := NewApp(cfg, Options{LogOutput: &bytes.Buffer{}})
		require.NoError(t, err)
		buildChannel(t, app)
		assert.Len(t, app.closers, 1)
		assert.NoError(t, app.Close())
	})
}

func TestNewApp_Errors(t *testing.T) {
	_, err := NewApp(newConfig("s3"), Options{})
	assert.ErrorContains(t, err, "unknown store backend")

	cfg := newConfig(config.BackendMemory)
	cfg.Log.Level = "loud"
	_, err = NewApp(cfg, Options{})
	assert.ErrorContains(t, err, "unknown log level")

	cfg = newConfig(config.BackendMemory)
	cfg.Store.EncryptionKey = "abcd"
	_, err = NewApp(cfg, Options{})
	assert.ErrorContains(t, err, "store.encryption_key")
}

func TestNewApp_LogsAndMetrics(t *testing.T) {
	var logs bytes.Buffer
	cfg := newConfig(config.BackendMemory)
	cfg.Log.Format = "json"
	app, err := NewApp(cfg, Options{Debug: true, LogOutput: &logs})
	require.NoError(t, err)
	buildChannel(t, app)

	assert.Contains(t, logs.String(), `"level":"DEBUG"`)
	assert.Contains(t, logs.String(), `"project":"pp"`)

	families, err := app.Metrics.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "femtree_mutations_total")
}

func TestWithInterrupt_Cancel(t *testing.T) {
	ctx, stop := WithInterrupt(context.Background())
	stop()
	<-ctx.Done()
	assert.Nil(t, Interrupted(ctx))
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
}

func TestInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(&InterruptError{Signal: os.Interrupt})
	assert.Equal(t, os.Interrupt, Interrupted(ctx))
	assert.EqualError(t, context.Cause(ctx), "interrupted by interrupt")
}
