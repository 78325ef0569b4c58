// Package file stores projects as archives in a local directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
)

// DefaultDir is used when New is given an empty directory.
var DefaultDir = filepath.Join(".femtree", "projects")

// Store implements ports.ProjectStore using the local filesystem.
// Each project is one archive named after the project plus Extension.
type Store struct {
	BasePath  string
	Extension string
}

// New creates a new Store rooted at basePath. An empty extension means
// domain.DefaultExtension.
func New(basePath, extension string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	if extension == "" {
		extension = domain.DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Store{BasePath: basePath, Extension: extension}
}

// Path returns the archive path of a project.
func (s *Store) Path(name string) string {
	return filepath.Join(s.BasePath, name+s.Extension)
}

func (s *Store) path(name string) (string, error) {
	if err := domain.ValidateProjectName(name); err != nil {
		return "", err
	}
	return s.Path(name), nil
}

// Save writes the project archive atomically.
func (s *Store) Save(ctx context.Context, name string, doc *document.Document) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return document.SaveFile(path, doc)
}

// Load reads the project archive.
func (s *Store) Load(ctx context.Context, name string) (*document.Document, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	doc, err := document.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, name)
	}
	return doc, err
}

// Delete removes the project archive.
func (s *Store) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete project file: %w", domain.ErrIO, err)
	}
	return nil
}

// List returns the names of the archives in the base directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: list projects: %w", domain.ErrIO, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.Extension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), s.Extension)
		if domain.ValidateProjectName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
