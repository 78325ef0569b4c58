package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/klauspost/compress/zip"
)

// MaxEntrySize bounds the uncompressed size of the JSON entry read from an archive.
const MaxEntrySize = 64 << 20

// Marshal renders doc as indented JSON with sorted keys.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %w", domain.ErrIO, err)
	}
	return data, nil
}

// Unmarshal parses the JSON form of a document.
func Unmarshal(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
	}
	if doc.Attributes == nil {
		return nil, fmt.Errorf("%w: missing %q", domain.ErrMalformedDocument, domain.KeyAttributes)
	}
	return &doc, nil
}

// WriteArchive writes doc to w as a zip archive holding a single deflated
// domain.ArchiveEntry.
func WriteArchive(w io.Writer, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:   domain.ArchiveEntry,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("%w: create archive entry: %w", domain.ErrIO, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("%w: write archive entry: %w", domain.ErrIO, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %w", domain.ErrIO, err)
	}
	return nil
}

// ReadArchive reads the document stored in a zip archive. Entries other
// than domain.ArchiveEntry are ignored.
func ReadArchive(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive: %w", domain.ErrIO, err)
	}

	for _, f := range zr.File {
		if f.Name != domain.ArchiveEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", domain.ErrIO, f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrIO, f.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("%w: close %s: %w", domain.ErrIO, f.Name, closeErr)
		}
		if len(data) > MaxEntrySize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrMalformedDocument, f.Name, MaxEntrySize)
		}
		return Unmarshal(data)
	}
	return nil, fmt.Errorf("%w: archive has no %s entry", domain.ErrMalformedDocument, domain.ArchiveEntry)
}

// EncodeArchive returns the archive bytes of doc.
func EncodeArchive(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteArchive(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeArchive reads a document from archive bytes.
func DecodeArchive(data []byte) (*Document, error) {
	return ReadArchive(bytes.NewReader(data), int64(len(data)))
}
