// Package docx provides a Normaliser for Word (.docx) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Archive members read by the normaliser.
const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts a DOCX document to plain text with one line per Word paragraph.
// Paragraphs inside tables are included in document order.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	content, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}

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
	doc.Metadata["format"] = "docx"
	if heading := extractCoreTitle(reader); heading != "" {
		doc.Metadata["heading"] = heading
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extractTitle prefers Metadata["title"] and falls back to the file name with extension.
func extractTitle(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return filepath.Base(raw.URI)
}

// readPart returns the bytes of an archive member, or nil if it is absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

// extractDocumentText extracts text from word/document.xml.
// An archive without the part yields empty text.
func extractDocumentText(reader *zip.Reader) (string, error) {
	data, err := readPart(reader, documentPart)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, documentPart, err)
	}
	if data == nil {
		return "", nil
	}
	text, err := parseDocumentXML(data)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, documentPart, err)
	}
	return text, nil
}

// parseDocumentXML walks the WordprocessingML token stream.
// Each <w:p> becomes one line; <w:tab/> becomes a tab and <w:br/> a line break.
func parseDocumentXML(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		paragraphs []string
		current    strings.Builder
		inPara     int
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				if inPara == 0 {
					current.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				inPara--
				if inPara == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractCoreTitle returns the document title property, or "".
func extractCoreTitle(reader *zip.Reader) string {
	data, err := readPart(reader, corePart)
	if err != nil || data == nil {
		return ""
	}
	var core coreXML
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
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
