package ports

import (
	"context"

	"github.com/aretw0/femtree/pkg/document"
)

// ProjectStore persists project documents.
type ProjectStore interface {
	// Save persists doc under name, replacing any previous version.
	Save(ctx context.Context, name string, doc *document.Document) error

	// Load retrieves the document stored under name.
	// Returns domain.ErrProjectNotFound if the project does not exist.
	Load(ctx context.Context, name string) (*document.Document, error)

	// Delete removes the project. Deleting a missing project is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored projects in ascending order.
	List(ctx context.Context) ([]string, error)
}
