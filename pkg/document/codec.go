package document

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/femtree/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects an encoding for Encode and Decode.
type Format string

const (
	FormatArchive Format = "archive"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// FormatFromPath guesses the format from a file extension. Anything that is
// not JSON or YAML is treated as an archive.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatArchive
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatArchive, FormatJSON, FormatYAML:
		return f, nil
	case "zip", "proj":
		return FormatArchive, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatArchive:
		return WriteArchive(w, doc)
	case FormatJSON:
		data, err := Marshal(doc)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("%w: encode yaml: %w", domain.ErrIO, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: encode yaml: %w", domain.ErrIO, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Decode reads a document in the given format from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", domain.ErrMalformedDocument, MaxEntrySize)
	}

	switch format {
	case FormatArchive:
		return ReadArchive(bytes.NewReader(data), int64(len(data)))
	case FormatJSON:
		return Unmarshal(data)
	case FormatYAML:
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
		}
		if doc.Attributes == nil {
			return nil, fmt.Errorf("%w: missing %q", domain.ErrMalformedDocument, domain.KeyAttributes)
		}
		return &doc, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
