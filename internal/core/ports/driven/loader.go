package driven

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// FileLoader reads local files into raw documents.
type FileLoader interface {
	// Load reads the file at path. MIMEType is detected from the extension.
	Load(ctx context.Context, path string) (*domain.RawDocument, error)
}

// FileWatcher reports changes to a fixed set of files.
type FileWatcher interface {
	// Watch starts watching paths. The channel is closed when ctx is done.
	Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}
