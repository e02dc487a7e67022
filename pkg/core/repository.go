package core

import "context"

// Store defines the contract for reading and writing source documents.
// Adhering to this interface keeps the builder independent of where the
// documents live.
type Store interface {
	// List returns every document in discovery order.
	List(ctx context.Context) ([]Document, error)

	// Get retrieves a document by its path.
	Get(ctx context.Context, path string) (Document, error)

	// Save persists a document at doc.Path, creating or overwriting it.
	Save(ctx context.Context, doc Document) error

	// Delete removes a document and its rendered output.
	Delete(ctx context.Context, path string) error
}

// Renderer converts a markup body into HTML.
type Renderer interface {
	Render(body string) string
}
