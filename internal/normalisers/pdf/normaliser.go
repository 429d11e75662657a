// Package pdf provides a Normaliser for PDF documents.
// Text extraction is delegated to the pdftotext tool from Poppler.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pdfToText is the extraction binary looked up on PATH.
const pdfToText = "pdftotext"

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner CommandRunner
	// checkTool is skipped when a runner is injected.
	checkTool bool
}

// New creates a PDF normaliser that runs pdftotext from PATH.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}, checkTool: true}
}

// NewWithRunner creates a PDF normaliser that runs commands through runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdfToText); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext on common platforms.
func InstallInstructions() string {
	return "PDF import needs pdftotext from Poppler.\n" +
		"  macOS:          brew install poppler\n" +
		"  Debian/Ubuntu:  sudo apt install poppler-utils\n" +
		"  Fedora:         sudo dnf install poppler-utils"
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts the text of every page.
// Each page's text is followed by a single "\n", so a page never shares a
// line with the next one.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if n.checkTool {
		if err := CheckAvailable(); err != nil {
			return nil, err
		}
	}

	tmp, err := os.CreateTemp("", "contextguard-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, pdfToText, "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	content, pages := joinPages(string(out))

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(raw),
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "pdf"
	doc.Metadata["pages"] = pages
	if heading := firstLine(content); heading != "" {
		doc.Metadata["heading"] = heading
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// joinPages splits pdftotext output on form feeds and returns the pages
// each followed by "\n", plus the page count.
func joinPages(out string) (string, int) {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	parts := strings.Split(out, pageBreak)

	// pdftotext ends the last page with a form feed too.
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	var b strings.Builder
	for _, page := range parts {
		b.WriteString(strings.TrimRight(page, "\n"))
		b.WriteString("\n")
	}
	return b.String(), len(parts)
}

// firstLine returns the first non-empty line shorter than 200 bytes.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) < 200 {
			return line
		}
	}
	return ""
}

// extractTitle prefers Metadata["title"] and falls back to the file name with extension.
func extractTitle(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return filepath.Base(raw.URI)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
