package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/femtree/pkg/domain"
)

// SaveFile writes doc to path as an archive. It writes a temporary file in
// the same directory, syncs it and renames it over path, so a failure never
// leaves a truncated archive behind.
func SaveFile(path string, doc *Document) error {
	data, err := EncodeArchive(doc)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic replaces path with data using a temp file and rename.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: ensure directory: %w", domain.ErrIO, err)
	}

	// Same directory as the destination, rename must not cross filesystems.
	tmpFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrIO, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("%w: write temp file: %w", domain.ErrIO, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: fsync temp file: %w", domain.ErrIO, err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", domain.ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename into place: %w", domain.ErrIO, err)
	}
	return nil
}

// LoadFile reads the archive at path. A missing file wraps os.ErrNotExist.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return ReadArchive(f, info.Size())
}
