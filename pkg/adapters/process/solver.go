// Package process runs studies through external solver programs.
//
// Only solver types registered up front can run. The model and study
// documents are written as JSON files into a scratch directory and the
// program learns where they are through environment variables; the
// attributes of the solver feature are passed the same way, never as
// command line flags.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/femtree/internal/logging"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/ports"
)

var (
	// ErrNoSolverFeature is returned when the study has no solver feature.
	ErrNoSolverFeature = errors.New("study has no solver feature")
	// ErrSolverNotRegistered is returned for solver types without a command.
	ErrSolverNotRegistered = errors.New("solver not registered")
	// ErrSolverFailed is returned when the solver program exits with an error.
	ErrSolverFailed = errors.New("solver failed")
)

// Environment variables handed to solver programs.
const (
	EnvModel      = "FEMTREE_MODEL"
	EnvStudy      = "FEMTREE_STUDY"
	EnvStudyTag   = "FEMTREE_STUDY_TAG"
	EnvSolverType = "FEMTREE_SOLVER_TYPE"
	EnvArgPrefix  = "FEMTREE_ARG_"
)

// Solver implements ports.Solver with local processes.
type Solver struct {
	registry map[string]SolverConfig
	baseDir  string
	keepDir  bool
	stdout   io.Writer
	logger   *slog.Logger
}

var _ ports.Solver = (*Solver)(nil)

// Option configures the solver.
type Option func(*Solver)

// WithRegistry adds the solver commands of cfgs.
func WithRegistry(cfgs []SolverConfig) Option {
	return func(s *Solver) {
		for _, c := range cfgs {
			if c.Type != "" && c.Command != "" {
				s.registry[c.Type] = c
			}
		}
	}
}

// WithBaseDir sets where scratch directories are created.
func WithBaseDir(dir string) Option {
	return func(s *Solver) {
		s.baseDir = dir
	}
}

// WithKeepDir leaves scratch directories behind after the run.
func WithKeepDir(keep bool) Option {
	return func(s *Solver) {
		s.keepDir = keep
	}
}

// WithStdout forwards the program output to w.
func WithStdout(w io.Writer) Option {
	return func(s *Solver) {
		s.stdout = w
	}
}

// WithLogger sets the solver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// New creates a process solver.
func New(opts ...Option) *Solver {
	s := &Solver{
		registry: make(map[string]SolverConfig),
		stdout:   io.Discard,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a trusted command for solverType.
func (s *Solver) Register(solverType, command string, args ...string) {
	s.registry[solverType] = SolverConfig{Type: solverType, Command: command, Args: args}
}

// Types lists the registered solver types.
func (s *Solver) Types() []string {
	types := make([]string, 0, len(s.registry))
	for t := range s.registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Solve runs the program registered for the first solver feature of study.
func (s *Solver) Solve(ctx context.Context, model, study *document.Document) error {
	if len(study.Children) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSolverFeature, study.Tag())
	}
	feature := study.Children[0]
	solverType, _ := feature.Attributes[fem.KeySolverType].(string)
	cfg, ok := s.registry[solverType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSolverNotRegistered, solverType)
	}

	dir, err := os.MkdirTemp(s.baseDir, "femtree-solve-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	if !s.keepDir {
		defer os.RemoveAll(dir)
	}

	modelPath := filepath.Join(dir, "model.json")
	studyPath := filepath.Join(dir, "study.json")
	if err := writeDocument(modelPath, model); err != nil {
		return err
	}
	if err := writeDocument(studyPath, study); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = dir

	env := []string{
		EnvModel + "=" + modelPath,
		EnvStudy + "=" + studyPath,
		EnvStudyTag + "=" + study.Tag(),
		EnvSolverType + "=" + solverType,
	}
	for k, v := range cfg.Environment {
		env = append(env, k+"="+v)
	}
	for k, v := range feature.Attributes {
		env = append(env, EnvArgPrefix+strings.ToUpper(k)+"="+envValue(v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stderr bytes.Buffer
	cmd.Stdout = s.stdout
	cmd.Stderr = &stderr

	s.logger.Info("solver started", "solver_type", solverType, "study", study.Tag(), "dir", dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrSolverFailed, solverType, err, strings.TrimSpace(stderr.String()))
	}
	s.logger.Info("solver finished", "solver_type", solverType, "study", study.Tag())
	return nil
}

func writeDocument(path string, doc *document.Document) error {
	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// envValue renders primitives as text and everything else as JSON.
func envValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprint(v)
	}
}
