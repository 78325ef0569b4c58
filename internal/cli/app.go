// Package cli wires configuration, stores and adapters into a ready
// femtree Engine for the command line and the servers.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/internal/adapters/file"
	"github.com/aretw0/femtree/internal/config"
	"github.com/aretw0/femtree/internal/logging"
	femhttp "github.com/aretw0/femtree/pkg/adapters/http"
	"github.com/aretw0/femtree/pkg/adapters/memory"
	"github.com/aretw0/femtree/pkg/adapters/process"
	"github.com/aretw0/femtree/pkg/adapters/redis"
	"github.com/aretw0/femtree/pkg/adapters/sdfx"
	"github.com/aretw0/femtree/pkg/observability"
	"github.com/aretw0/femtree/pkg/persistence/middleware"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds an Engine and the collaborators built for it.
type App struct {
	Config  config.Config
	Engine  *femtree.Engine
	Logger  *slog.Logger
	Streams *femhttp.StreamManager
	Metrics *prometheus.Registry

	closers []io.Closer
}

// Options tune NewApp beyond the configuration file.
type Options struct {
	// Debug forces debug logging.
	Debug bool
	// LogOutput receives the log records. Defaults to stderr.
	LogOutput io.Writer
	// SolverOutput receives the output of solver programs. Defaults to stderr.
	SolverOutput io.Writer
}

// NewApp builds the store, logger, metrics and adapters described by cfg.
func NewApp(cfg config.Config, opts Options) (*App, error) {
	logger, err := NewLogger(cfg.Log, opts.Debug, opts.LogOutput)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Streams: femhttp.NewStreamManager(),
		Metrics: prometheus.NewRegistry(),
	}

	store, err := app.createStore()
	if err != nil {
		return nil, err
	}
	backend := store
	enc, err := cfg.Store.Encryption()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if enc != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(*enc))
	}

	metrics, err := observability.NewMetrics(app.Metrics)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	solverOut := opts.SolverOutput
	if solverOut == nil {
		solverOut = os.Stderr
	}

	engineOpts := []femtree.Option{
		femtree.WithLogger(logger),
		femtree.WithHooks(observability.Hooks(
			observability.LogHooks(logger),
			metrics.Hooks(),
			app.Streams.Hooks(),
		)),
		femtree.WithMeshEngine(sdfx.New()),
		femtree.WithSolver(process.New(
			process.WithRegistry(cfg.Solvers),
			process.WithStdout(solverOut),
			process.WithLogger(logger),
		)),
	}
	if locker := app.createLocker(backend); locker != nil {
		engineOpts = append(engineOpts, femtree.WithLocker(locker))
	}

	engine, err := femtree.New(store, engineOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine
	return app, nil
}

func (a *App) createStore() (ports.ProjectStore, error) {
	switch a.Config.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile, "":
		return file.New(a.Config.Store.Dir, a.Config.Store.Extension), nil
	case config.BackendRedis:
		store := a.redisStore()
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.Config.Store.Backend)
	}
}

func (a *App) redisStore() *redis.Store {
	rc := a.Config.Redis
	opts := []redis.Option{redis.WithPrefix(rc.Prefix)}
	if rc.TTL > 0 {
		opts = append(opts, redis.WithTTL(rc.TTL))
	}
	return redis.New(rc.Addr, rc.Password, rc.DB, opts...)
}

// createLocker returns the distributed lock when redis.lock is set. The
// redis store's client is shared; other backends get their own connection.
func (a *App) createLocker(store ports.ProjectStore) ports.DistributedLocker {
	if !a.Config.Redis.Lock {
		return nil
	}
	rs, ok := store.(*redis.Store)
	if !ok {
		rs = a.redisStore()
		a.closers = append(a.closers, rs)
	}
	return redis.NewLocker(rs.Client(), a.Config.Redis.Prefix)
}

// Close releases the connections opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewLogger creates the application logger from the log section. Debug
// overrides the configured level.
func NewLogger(cfg config.LogConfig, debug bool, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	return logging.NewWriter(w, level, format), nil
}
