package issues

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// mockCheckService implements driving.CheckService for testing.
type mockCheckService struct {
	docs    []domain.Document
	issues  []domain.Issue
	state   domain.CheckState
	located int
	quote   string
}

func (m *mockCheckService) AddDocument(_ domain.Document) bool { return true }
func (m *mockCheckService) RemoveDocument(_ string)            {}
func (m *mockCheckService) Documents() []domain.Document       { return m.docs }
func (m *mockCheckService) RemainingSlots() int                { return 3 - len(m.docs) }
func (m *mockCheckService) Run(_ context.Context) error        { return nil }
func (m *mockCheckService) Issues() []domain.Issue             { return m.issues }
func (m *mockCheckService) State() domain.CheckState           { return m.state }
func (m *mockCheckService) Chunks() string                     { return "" }
func (m *mockCheckService) Clear()                             {}

func (m *mockCheckService) Locate(quote, _ string) int {
	m.quote = quote
	return m.located
}

// mockReportService implements driving.ReportService for testing.
type mockReportService struct {
	format domain.ExportFormat
	path   string
	err    error
}

func (m *mockReportService) Format(format domain.ExportFormat) (string, error) {
	m.format = format
	return "", m.err
}

func (m *mockReportService) Export(_ context.Context, format domain.ExportFormat) (string, error) {
	m.format = format
	return m.path, m.err
}

func testIssues() []domain.Issue {
	return []domain.Issue{
		{
			Severity:        domain.SeverityHigh,
			Rationale:       "Departure times differ",
			SourceText:      "We leave at 9:00 AM.",
			SourceDocument:  "Trip.txt",
			TargetText:      "We leave at 10:00 AM.",
			TargetDocument:  "Update.txt",
			SuggestedFix:    "Use one departure time.",
			SourceParagraph: 2,
		},
		{
			Severity:       domain.SeverityLow,
			Rationale:      "Lunch is both provided and not",
			SourceText:     "Lunch provided.",
			SourceDocument: "Trip.txt",
			TargetText:     "Bring lunch.",
			TargetDocument: "Trip.txt",
		},
	}
}

func newCheck() *mockCheckService {
	return &mockCheckService{
		docs: []domain.Document{
			{ID: "doc-1", Title: "Trip.txt", Content: "Field trip\nWe leave at 9:00 AM."},
			{ID: "doc-2", Title: "Update.txt", Content: "Update\nWe leave at 10:00 AM."},
		},
		issues: testIssues(),
		state:  domain.CompletedState(),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, newCheck(), nil)

	require.NotNil(t, view)
	assert.Equal(t, domain.CheckIdle, view.State().Status)
	assert.Empty(t, view.Issues())
	assert.Nil(t, view.Init())
}

func TestView_Refresh(t *testing.T) {
	view := NewView(nil, newCheck(), nil)

	view.Refresh()

	assert.Equal(t, domain.CheckCompleted, view.State().Status)
	assert.Len(t, view.Issues(), 2)
}

func TestView_View_States(t *testing.T) {
	tests := []struct {
		name     string
		state    domain.CheckState
		contains string
	}{
		{"idle", domain.IdleState(), "No check has run yet"},
		{"analyzing", domain.AnalyzingState(), "Analyzing documents"},
		{"failed", domain.FailedState(domain.MsgContextWindowExceeded), domain.MsgContextWindowExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := newCheck()
			check.state = tt.state
			view := NewView(nil, check, nil)
			view.Refresh()

			assert.Contains(t, view.View(), tt.contains)
		})
	}
}

func TestView_View_Completed(t *testing.T) {
	view := NewView(nil, newCheck(), nil)
	view.SetDimensions(120, 40)
	view.Refresh()

	output := view.View()

	assert.Contains(t, output, "Issues (2)")
	assert.Contains(t, output, "Departure times differ")
	assert.Contains(t, output, "Source (Trip.txt §2)")
	assert.Contains(t, output, "Target (Update.txt)")
	assert.Contains(t, output, "Use one departure time.")
}

func TestView_View_NoIssues(t *testing.T) {
	check := newCheck()
	check.issues = nil
	view := NewView(nil, check, nil)
	view.Refresh()

	assert.Contains(t, view.View(), "No contradictions found")
}

func TestView_CheckLifecycle(t *testing.T) {
	view := NewView(nil, newCheck(), nil)

	view.Update(messages.CheckRequested{})
	assert.Equal(t, domain.CheckAnalyzing, view.State().Status)

	view.Update(messages.CheckCompleted{State: domain.CompletedState(), Issues: testIssues()})
	assert.Equal(t, domain.CheckCompleted, view.State().Status)
	assert.Len(t, view.Issues(), 2)
}

func TestView_RerunKey(t *testing.T) {
	view := NewView(nil, newCheck(), nil)
	view.Refresh()

	_, cmd := view.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.CheckRequested{}, cmd())

	view.Update(messages.CheckRequested{})
	_, cmd = view.Update(keyRunes("r"))
	assert.Nil(t, cmd)
}

func TestView_OpenSource(t *testing.T) {
	view := NewView(nil, newCheck(), nil)
	view.Refresh()

	_, cmd := view.Update(keyRunes("s"))

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.DocumentSelected)
	require.True(t, ok)
	assert.Equal(t, "doc-1", selected.Document.ID)
	assert.Equal(t, 2, selected.Paragraph)
}

func TestView_OpenTarget_LocatesUnknownParagraph(t *testing.T) {
	check := newCheck()
	check.located = 2
	view := NewView(nil, check, nil)
	view.Refresh()

	_, cmd := view.Update(keyRunes("t"))

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.DocumentSelected)
	require.True(t, ok)
	assert.Equal(t, "doc-2", selected.Document.ID)
	assert.Equal(t, 2, selected.Paragraph)
	assert.Equal(t, "We leave at 10:00 AM.", check.quote)
}

func TestView_OpenDocument_Missing(t *testing.T) {
	check := newCheck()
	check.docs = check.docs[:1]
	view := NewView(nil, check, nil)
	view.Refresh()

	_, cmd := view.Update(keyRunes("t"))

	require.NotNil(t, cmd)
	failed, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, domain.ErrNotFound)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil, newCheck(), nil)
	view.Refresh()

	view.Update(keyRunes("j"))

	require.NotNil(t, view.SelectedIssue())
	assert.Equal(t, domain.SeverityLow, view.SelectedIssue().Severity)
}

func TestView_Export(t *testing.T) {
	rep := &mockReportService{path: "/tmp/ContextGuard_Report.md"}
	view := NewView(nil, newCheck(), rep)
	view.SetExportFormat(domain.ExportFormatMarkdown)
	view.Refresh()

	_, cmd := view.Update(keyRunes("e"))

	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, domain.ExportFormatMarkdown, rep.format)
	view.Update(msg)
	assert.Contains(t, view.View(), "Report saved to /tmp/ContextGuard_Report.md")
}

func TestView_Export_Errors(t *testing.T) {
	t.Run("no report service", func(t *testing.T) {
		view := NewView(nil, newCheck(), nil)
		view.Refresh()

		_, cmd := view.Update(keyRunes("e"))
		view.Update(cmd())

		assert.ErrorIs(t, view.Err(), errReportUnavailable)
	})

	t.Run("export failure", func(t *testing.T) {
		view := NewView(nil, newCheck(), &mockReportService{err: errors.New("disk full")})
		view.Refresh()

		_, cmd := view.Update(keyRunes("e"))
		view.Update(cmd())

		assert.Contains(t, view.View(), "disk full")
	})
}

func TestView_SetExportFormat_IgnoresInvalid(t *testing.T) {
	view := NewView(nil, newCheck(), nil)

	view.SetExportFormat("pdf")

	assert.Equal(t, domain.ExportFormatText, view.exportFormat)
}

func TestView_Esc(t *testing.T) {
	view := NewView(nil, newCheck(), nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
