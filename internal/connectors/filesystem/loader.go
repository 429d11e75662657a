// Package filesystem reads documents from the local disk and reports changes
// to them.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.FileLoader = (*Loader)(nil)

// DefaultMaxFileSize bounds how much of a file is read into memory.
const DefaultMaxFileSize int64 = 32 << 20

const octetStream = "application/octet-stream"

// customMIMETypes covers extensions the platform MIME tables often miss.
var customMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".rtf":      "text/rtf",
	".csv":      "text/csv",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".json":     "application/json",
	".xml":      "application/xml",
	".htm":      "text/html",
	".html":     "text/html",
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Loader reads local files into raw documents.
type Loader struct {
	maxSize int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxFileSize rejects files larger than n bytes.
func WithMaxFileSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewLoader creates a file loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path, which may be a file:// URI.
//
// The MIME type comes from the extension. Files with an unknown extension
// are sniffed from their content.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = ResolvePath(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, abs)
		}
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, abs)
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, abs, l.maxSize)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	mimeType := detectMIMEType(abs)
	if mimeType == octetStream {
		mimeType = sniffMIMEType(content)
	}

	return &domain.RawDocument{
		URI:      abs,
		MIMEType: mimeType,
		Content:  content,
		Metadata: fileMetadata(abs, info),
	}, nil
}

func fileMetadata(path string, info fs.FileInfo) map[string]any {
	return map[string]any{
		"filename":  filepath.Base(path),
		"extension": strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		"size":      info.Size(),
		"modified":  info.ModTime(),
	}
}

// detectMIMEType maps a file name to a MIME type without parameters.
// Files without an extension are treated as plain text.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if mimeType, ok := customMIMETypes[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return stripParams(mimeType)
	}
	return octetStream
}

// sniffMIMEType detects the type of content whose extension is unknown.
func sniffMIMEType(content []byte) string {
	return stripParams(mimetype.Detect(content).String())
}

func stripParams(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	return strings.TrimSpace(mimeType)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
