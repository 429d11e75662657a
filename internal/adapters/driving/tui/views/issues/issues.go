// Package issues provides the contradiction results view for the TUI.
package issues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// errReportUnavailable is reported when export is requested without a report service.
var errReportUnavailable = errors.New("report service not available")

// View shows the state and issues of the last check with a detail pane for
// the selected issue.
type View struct {
	styles        *styles.Styles
	checkService  driving.CheckService
	reportService driving.ReportService

	list         *list.IssueList
	state        domain.CheckState
	exportFormat domain.ExportFormat
	exported     string
	err          error
	width        int
	height       int
	ready        bool
}

// NewView creates a new issues view.
func NewView(s *styles.Styles, checkService driving.CheckService, reportService driving.ReportService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		checkService:  checkService,
		reportService: reportService,
		list:          list.NewIssueList(s),
		state:         domain.IdleState(),
		exportFormat:  domain.ExportFormatText,
		width:         80,
		height:        24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetExportFormat sets the format used by the export key.
func (v *View) SetExportFormat(format domain.ExportFormat) {
	if format.IsValid() {
		v.exportFormat = format
	}
}

// Refresh reloads state and issues from the check service.
func (v *View) Refresh() {
	if v.checkService == nil {
		return
	}
	v.state = v.checkService.State()
	v.list.SetIssues(v.checkService.Issues())
}

// Update handles messages for the issues view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CheckRequested:
		v.state = domain.AnalyzingState()
		v.exported = ""
		v.err = nil
		return v, nil

	case messages.CheckCompleted:
		v.err = msg.Err
		v.state = msg.State
		v.list.SetIssues(msg.Issues)
		return v, nil

	case messages.ReportExported:
		if msg.Err != nil {
			v.err = msg.Err
			v.exported = ""
		} else {
			v.err = nil
			v.exported = msg.Path
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if issue := v.list.SelectedIssue(); issue != nil {
			return v, v.openDocument(issue.SourceDocument, issue.SourceText, issue.SourceParagraph)
		}
	case "t":
		if issue := v.list.SelectedIssue(); issue != nil {
			return v, v.openDocument(issue.TargetDocument, issue.TargetText, issue.TargetParagraph)
		}
	case "e":
		if v.state.Status != domain.CheckAnalyzing {
			return v, v.exportReport(v.exportFormat)
		}
	case "r":
		if v.state.Status != domain.CheckAnalyzing {
			return v, func() tea.Msg { return messages.CheckRequested{} }
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	default:
		v.list, _ = v.list.Update(msg)
	}

	return v, nil
}

// openDocument returns a command that selects the document titled title,
// scrolled to paragraph. An unknown paragraph is located from the quote.
func (v *View) openDocument(title, quote string, paragraph int) tea.Cmd {
	if v.checkService == nil {
		return nil
	}
	for _, doc := range v.checkService.Documents() {
		if doc.Title != title {
			continue
		}
		if paragraph == 0 {
			paragraph = v.checkService.Locate(quote, title)
		}
		selected := doc
		return func() tea.Msg {
			return messages.DocumentSelected{Document: selected, Paragraph: paragraph}
		}
	}
	missing := fmt.Errorf("document %q: %w", title, domain.ErrNotFound)
	return func() tea.Msg {
		return messages.ErrorOccurred{Err: missing}
	}
}

// exportReport returns a command that writes the report.
func (v *View) exportReport(format domain.ExportFormat) tea.Cmd {
	return func() tea.Msg {
		if v.reportService == nil {
			return messages.ReportExported{Err: errReportUnavailable}
		}
		path, err := v.reportService.Export(context.Background(), format)
		return messages.ReportExported{Path: path, Err: err}
	}
}

// View renders the issues view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Issues"))
	b.WriteString("\n\n")

	switch v.state.Status {
	case domain.CheckIdle:
		b.WriteString(v.styles.Muted.Render("No check has run yet. Press r to check the loaded documents."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case domain.CheckAnalyzing:
		b.WriteString(v.styles.Warning.Render("Analyzing documents..."))
		b.WriteString("\n\n")
		return b.String()
	case domain.CheckFailed:
		b.WriteString(v.styles.Error.Render(v.state.Message))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case domain.CheckCompleted:
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.exported != "" {
		b.WriteString(v.styles.Success.Render("Report saved to " + v.exported))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	if issue := v.list.SelectedIssue(); issue != nil {
		b.WriteString("\n\n")
		b.WriteString(v.renderDetail(issue))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderDetail renders the quotes and suggested fix of an issue.
func (v *View) renderDetail(issue *domain.Issue) string {
	var b strings.Builder
	width := max(v.width-8, 20)

	b.WriteString(v.styles.Severity(issue.Severity).Render(issue.Severity.String()))
	b.WriteString(" ")
	b.WriteString(v.styles.Normal.Render(issue.Rationale))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render(location("Source", issue.SourceDocument, issue.SourceParagraph)))
	b.WriteString("\n")
	b.WriteString(v.styles.Quote.Render(list.Truncate(issue.SourceText, width)))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(location("Target", issue.TargetDocument, issue.TargetParagraph)))
	b.WriteString("\n")
	b.WriteString(v.styles.Quote.Render(list.Truncate(issue.TargetText, width)))

	if issue.SuggestedFix != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render("Fix: "))
		b.WriteString(v.styles.Normal.Render(issue.SuggestedFix))
	}
	return b.String()
}

// location formats "Source (Trip.txt §2)".
func location(label, title string, paragraph int) string {
	if paragraph > 0 {
		return fmt.Sprintf("%s (%s §%d)", label, title, paragraph)
	}
	return fmt.Sprintf("%s (%s)", label, title)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [s] source  [t] target  [e] export  [r] check  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	// Leave room for the detail pane.
	v.list.SetDimensions(width, max(height-16, 4))
}

// State returns the check state shown.
func (v *View) State() domain.CheckState {
	return v.state
}

// Issues returns the issues shown.
func (v *View) Issues() []domain.Issue {
	return v.list.Issues()
}

// SelectedIssue returns the selected issue, or nil.
func (v *View) SelectedIssue() *domain.Issue {
	return v.list.SelectedIssue()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
