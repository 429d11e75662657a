package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// AddDocumentInput is the input schema for the add_document tool.
// Either Paths or Content must be set.
type AddDocumentInput struct {
	Paths   []string `json:"paths,omitempty" jsonschema:"local files to load (txt, md, html, docx, pdf)"`
	Title   string   `json:"title,omitempty" jsonschema:"title of an inline document, usually a file name"`
	Content string   `json:"content,omitempty" jsonschema:"text of an inline document"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	Added          []string          `json:"added"`
	Skipped        map[string]string `json:"skipped,omitempty"`
	RemainingSlots int               `json:"remaining_slots"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents      []DocumentOutput `json:"documents"`
	Count          int              `json:"count"`
	RemainingSlots int              `json:"remaining_slots"`
}

// DocumentOutput describes one loaded document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URI        string `json:"uri,omitempty"`
	Characters int    `json:"characters"`
}

// RemoveDocumentInput is the input schema for the remove_document tool.
type RemoveDocumentInput struct {
	ID string `json:"id" jsonschema:"ID of the document to remove"`
}

// RemoveDocumentOutput is the output schema for the remove_document tool.
type RemoveDocumentOutput struct {
	Removed        bool `json:"removed"`
	RemainingSlots int  `json:"remaining_slots"`
}

// ClearDocumentsInput is the input schema for the clear_documents tool.
type ClearDocumentsInput struct{}

// ClearDocumentsOutput is the output schema for the clear_documents tool.
type ClearDocumentsOutput struct {
	RemainingSlots int `json:"remaining_slots"`
}

// CheckInput is the input schema for the check tool.
type CheckInput struct{}

// CheckOutput is the output schema for the check tool.
type CheckOutput struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Issues  []domain.Issue `json:"issues"`
	Count   int            `json:"count"`
}

// LocateInput is the input schema for the locate_paragraph tool.
type LocateInput struct {
	Quote string `json:"quote" jsonschema:"text quoted from the document"`
	Title string `json:"title" jsonschema:"title of the document the quote comes from"`
}

// LocateOutput is the output schema for the locate_paragraph tool.
type LocateOutput struct {
	Paragraph int  `json:"paragraph"`
	Found     bool `json:"found"`
}

// ExportInput is the input schema for the export_report tool.
type ExportInput struct {
	Format string `json:"format,omitempty" jsonschema:"text, markdown or json (default text)"`
}

// ExportOutput is the output schema for the export_report tool.
type ExportOutput struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Load documents into the check session from local files or inline text",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents loaded in the check session",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document from the check session by ID",
	}, s.handleRemoveDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_documents",
		Description: "Remove every document and the last check result",
	}, s.handleClearDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check",
		Description: "Find contradictions within and between the loaded documents",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "locate_paragraph",
		Description: "Find the paragraph number of a quote in a loaded document",
	}, s.handleLocate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_report",
		Description: "Write the report of the last check to a file and return its path",
	}, s.handleExport)
}

// handleAddDocument loads files or an inline document into the session.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	output := AddDocumentOutput{Added: []string{}}

	switch {
	case len(input.Paths) > 0:
		if s.ports.Import == nil {
			return nil, AddDocumentOutput{}, ErrImportUnavailable
		}
		result, err := s.ports.Import.ImportFiles(ctx, input.Paths)
		if err != nil {
			return nil, AddDocumentOutput{}, fmt.Errorf("importing files: %w", err)
		}
		output.Added = append(output.Added, result.Added...)
		if len(result.Skipped) > 0 {
			output.Skipped = make(map[string]string, len(result.Skipped))
			for path, reason := range result.Skipped {
				output.Skipped[path] = reason.Error()
			}
		}

	case strings.TrimSpace(input.Content) != "":
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return nil, AddDocumentOutput{}, fmt.Errorf("%w: title is required for inline content", domain.ErrInvalidInput)
		}
		doc := domain.Document{
			ID:        uuid.New().String(),
			Title:     title,
			Content:   input.Content,
			Metadata:  map[string]any{"format": "text"},
			CreatedAt: time.Now(),
		}
		if !s.ports.Check.AddDocument(doc) {
			output.Skipped = map[string]string{title: domain.ErrCapacityReached.Error()}
		} else {
			output.Added = append(output.Added, title)
		}

	default:
		return nil, AddDocumentOutput{}, fmt.Errorf("%w: give paths or content", domain.ErrInvalidInput)
	}

	output.RemainingSlots = s.ports.Check.RemainingSlots()
	return nil, output, nil
}

// handleListDocuments returns the loaded documents in load order.
func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ports.Check.Documents()
	output := ListDocumentsOutput{
		Documents:      documentOutputs(docs),
		Count:          len(docs),
		RemainingSlots: s.ports.Check.RemainingSlots(),
	}
	return nil, output, nil
}

// handleRemoveDocument removes one document by ID.
func (s *Server) handleRemoveDocument(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	if input.ID == "" {
		return nil, RemoveDocumentOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}

	found := false
	for _, doc := range s.ports.Check.Documents() {
		if doc.ID == input.ID {
			found = true
			break
		}
	}
	if found {
		s.ports.Check.RemoveDocument(input.ID)
	}

	return nil, RemoveDocumentOutput{
		Removed:        found,
		RemainingSlots: s.ports.Check.RemainingSlots(),
	}, nil
}

// handleClearDocuments resets the session.
func (s *Server) handleClearDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ClearDocumentsInput,
) (*mcp.CallToolResult, ClearDocumentsOutput, error) {
	s.ports.Check.Clear()
	return nil, ClearDocumentsOutput{RemainingSlots: s.ports.Check.RemainingSlots()}, nil
}

// handleCheck runs the analysis and returns the resulting state and issues.
// A failed analysis is reported in the output, not as a tool error.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	if len(s.ports.Check.Documents()) == 0 {
		return nil, CheckOutput{}, domain.ErrNoDocuments
	}
	if err := s.ports.Check.Run(ctx); err != nil {
		return nil, CheckOutput{}, fmt.Errorf("running check: %w", err)
	}

	state := s.ports.Check.State()
	issues := s.ports.Check.Issues()
	if issues == nil {
		issues = []domain.Issue{}
	}
	return nil, CheckOutput{
		Status:  state.Status.String(),
		Message: state.Message,
		Issues:  issues,
		Count:   len(issues),
	}, nil
}

// handleLocate finds the paragraph of a quote.
func (s *Server) handleLocate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LocateInput,
) (*mcp.CallToolResult, LocateOutput, error) {
	if input.Quote == "" || input.Title == "" {
		return nil, LocateOutput{}, fmt.Errorf("%w: quote and title are required", domain.ErrInvalidInput)
	}
	n := s.ports.Check.Locate(input.Quote, input.Title)
	return nil, LocateOutput{Paragraph: n, Found: n > 0}, nil
}

// handleExport writes the report of the last check.
func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	if s.ports.Report == nil {
		return nil, ExportOutput{}, ErrReportUnavailable
	}

	format := domain.ExportFormat(strings.ToLower(strings.TrimSpace(input.Format)))
	if format == "" {
		format = domain.ExportFormatText
	}
	if !format.IsValid() {
		return nil, ExportOutput{}, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, input.Format)
	}

	path, err := s.ports.Report.Export(ctx, format)
	if err != nil {
		return nil, ExportOutput{}, fmt.Errorf("exporting report: %w", err)
	}
	return nil, ExportOutput{Path: path, Format: string(format)}, nil
}

func documentOutputs(docs []domain.Document) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = DocumentOutput{
			ID:         docs[i].ID,
			Title:      docs[i].Title,
			URI:        docs[i].URI,
			Characters: utf8.RuneCountInString(docs[i].Content),
		}
	}
	return out
}
