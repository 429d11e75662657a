// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDocuments lists the documents loaded in the session.
	ViewDocuments
	// ViewIssues lists the issues of the last check.
	ViewIssues
	// ViewDocContent shows a document with numbered paragraphs.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDocuments:
		return "documents"
	case ViewIssues:
		return "issues"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsImported carries the result of loading files into the session.
type DocumentsImported struct {
	Result *driving.ImportResult
	Err    error
}

// DocumentRemoved signals a document was removed from the session.
type DocumentRemoved struct {
	ID string
}

// DocumentsCleared signals the session was reset.
type DocumentsCleared struct{}

// DocumentSelected opens a document, scrolled to Paragraph when it is positive.
type DocumentSelected struct {
	Document  domain.Document
	Paragraph int
}

// CheckRequested asks the app to run the analysis.
type CheckRequested struct{}

// CheckCompleted carries the outcome of an analysis run.
// Err is only set when the run itself could not start or was cancelled;
// analysis failures arrive in State.
type CheckCompleted struct {
	State  domain.CheckState
	Issues []domain.Issue
	Err    error
}

// ExportRequested asks the app to write the report.
type ExportRequested struct {
	Format domain.ExportFormat
}

// ReportExported carries the path of a written report.
type ReportExported struct {
	Path string
	Err  error
}
