package chunker

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// DefaultSeparator separates rendered lines.
const DefaultSeparator = "\n"

// Processor splits document content into paragraph chunks.
// It implements the PostProcessor interface.
type Processor struct {
	separator string
}

// Option configures the paragraph processor.
type Option func(*Processor)

// WithSeparator sets the separator placed between rendered lines.
// Only "\n" and "\n\n" are accepted; anything else is ignored.
func WithSeparator(sep string) Option {
	return func(p *Processor) {
		if sep == "\n" || sep == "\n\n" {
			p.separator = sep
		}
	}
}

// New creates a new paragraph processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		separator: DefaultSeparator,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "paragraph"
}

// Separator returns the configured line separator.
func (p *Processor) Separator() string {
	return p.separator
}

// Process splits the document content into paragraph chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return Chunks(doc), nil
}
