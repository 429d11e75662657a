// Package file provides a ReportWriter that saves exported reports to a
// local directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure ReportWriter implements the interface.
var _ driven.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes reports into a single directory.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a writer for dir. An empty dir means the OS
// temporary directory.
func NewReportWriter(dir string) *ReportWriter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ReportWriter{dir: dir}
}

// Dir returns the directory reports are written to.
func (w *ReportWriter) Dir() string {
	return w.dir
}

// Write stores data as dir/name, replacing any previous file.
// The data is written to a temporary file first and renamed into place.
func (w *ReportWriter) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: report name %q", domain.ErrInvalidInput, name)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod report: %w", err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("move report into place: %w", err)
	}
	return path, nil
}
