package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

func newTestCheck() *MockCheckService {
	return &MockCheckService{
		Capacity: 3,
		Current:  domain.IdleState(),
		Docs: []domain.Document{
			{ID: "doc-1", Title: "Trip.txt", Content: "Field trip\nWe leave at 9:00 AM."},
			{ID: "doc-2", Title: "Update.txt", Content: "Update\nWe leave at 10:00 AM."},
		},
	}
}

func newTestApp(t *testing.T, check *MockCheckService) *App {
	t.Helper()
	app, err := NewApp(NewPorts(check, &MockImportService{}, &MockReportService{Path: "/tmp/report.txt"}))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Check: newTestCheck()})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingCheckService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WithExportFormat(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	assert.Equal(t, app, app.WithExportFormat(domain.ExportFormatJSON))
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	assert.NotNil(t, app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{Check: newTestCheck()})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Check: newTestCheck()})
	require.NoError(t, err)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "ContextGuard")
	assert.Contains(t, app.View(), "2 of 3 documents loaded")
}

func TestApp_Update_CtrlC(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
}

func TestApp_ViewChanged(t *testing.T) {
	tests := []struct {
		view     messages.ViewType
		contains string
		state    status.State
	}{
		{messages.ViewDocuments, "Documents (2/3)", status.StateDocuments},
		{messages.ViewIssues, "No check has run yet", status.StateIssues},
		{messages.ViewHelp, "run check", status.StateHelp},
		{messages.ViewMenu, "Run check", status.StateReady},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app := newTestApp(t, newTestCheck())

			app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Equal(t, tt.state, app.statusBar.State())
			assert.Contains(t, app.View(), tt.contains)
		})
	}
}

func TestApp_HelpKey(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	app.Update(keyRunes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_HelpKey_IgnoredWhileTypingPath(t *testing.T) {
	app := newTestApp(t, newTestCheck())
	app.Update(messages.ViewChanged{View: messages.ViewDocuments})
	app.Update(keyRunes("a"))

	app.Update(keyRunes("?"))

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}

func TestApp_MenuNavigation(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}

func TestApp_CheckRequested(t *testing.T) {
	check := newTestCheck()
	check.RunFunc = func(_ context.Context) error {
		check.Current = domain.CompletedState()
		check.IssueSet = []domain.Issue{{
			Severity:       domain.SeverityHigh,
			Rationale:      "Departure times differ",
			SourceDocument: "Trip.txt",
			TargetDocument: "Update.txt",
		}}
		return nil
	}
	app := newTestApp(t, check)

	_, cmd := app.Update(messages.CheckRequested{})

	require.NotNil(t, cmd)
	assert.True(t, app.Running())
	assert.Equal(t, messages.ViewIssues, app.CurrentView())
	assert.Equal(t, status.StateAnalyzing, app.statusBar.State())

	// A second request while running is ignored.
	_, again := app.Update(messages.CheckRequested{})
	assert.Nil(t, again)

	completed := cmd()
	assert.Equal(t, 1, check.Runs)
	app.Update(completed)

	assert.False(t, app.Running())
	assert.Equal(t, status.StateIssues, app.statusBar.State())
	assert.Equal(t, 1, app.statusBar.IssueCount())
	assert.Contains(t, app.View(), "Departure times differ")
}

func TestApp_CheckRequested_NoDocuments(t *testing.T) {
	check := &MockCheckService{Capacity: 3}
	app := newTestApp(t, check)

	_, cmd := app.Update(messages.CheckRequested{})

	assert.Nil(t, cmd)
	assert.False(t, app.Running())
	assert.ErrorIs(t, app.Err(), domain.ErrNoDocuments)
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_CheckCompleted_Failed(t *testing.T) {
	check := newTestCheck()
	check.RunFunc = func(_ context.Context) error {
		check.Current = domain.FailedState(domain.MsgContextWindowExceeded)
		return nil
	}
	app := newTestApp(t, check)

	_, cmd := app.Update(messages.CheckRequested{})
	app.Update(cmd())

	assert.Equal(t, status.StateError, app.statusBar.State())
	assert.Contains(t, app.View(), domain.MsgContextWindowExceeded)
}

func TestApp_CheckCompleted_Error(t *testing.T) {
	check := newTestCheck()
	check.RunFunc = func(_ context.Context) error { return context.Canceled }
	app := newTestApp(t, check)

	_, cmd := app.Update(messages.CheckRequested{})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), context.Canceled)
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_DocumentSelected(t *testing.T) {
	app := newTestApp(t, newTestCheck())
	app.Update(messages.ViewChanged{View: messages.ViewIssues})

	app.Update(messages.DocumentSelected{Document: newTestCheck().Docs[0], Paragraph: 2})

	assert.Equal(t, messages.ViewDocContent, app.CurrentView())
	assert.Contains(t, app.View(), "Trip.txt")
	assert.Equal(t, 2, app.docContentView.Highlighted())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewIssues, app.CurrentView())
}

func TestApp_DocumentsImported(t *testing.T) {
	check := newTestCheck()
	imp := &MockImportService{
		ImportFilesFunc: func(_ context.Context, paths []string) (*driving.ImportResult, error) {
			check.AddDocument(domain.Document{ID: "doc-3", Title: "Notes.txt", Content: "Notes"})
			return &driving.ImportResult{Added: []string{"Notes.txt"}}, nil
		},
	}
	app, err := NewApp(NewPorts(check, imp, nil))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	app.Update(messages.ViewChanged{View: messages.ViewDocuments})

	app.Update(keyRunes("a"))
	for _, r := range "notes.txt" {
		app.Update(keyRunes(string(r)))
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	output := app.View()
	assert.Contains(t, output, "Documents (3/3)")
	assert.Contains(t, output, "Notes.txt")
	assert.Contains(t, output, "3/3 documents")
}

func TestApp_DocumentsImported_Error(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	app.Update(messages.DocumentsImported{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

func TestApp_DocumentsCleared(t *testing.T) {
	check := newTestCheck()
	app := newTestApp(t, check)
	app.Update(messages.ViewChanged{View: messages.ViewDocuments})

	_, cmd := app.Update(keyRunes("C"))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.True(t, check.Cleared)
	assert.Contains(t, app.View(), "No documents loaded")
}

func TestApp_ReportExported(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := newTestApp(t, newTestCheck())

		app.Update(messages.ReportExported{Path: "/tmp/report.txt"})

		assert.Equal(t, "Report saved to /tmp/report.txt", app.statusBar.Message())
	})

	t.Run("failure", func(t *testing.T) {
		app := newTestApp(t, newTestCheck())

		app.Update(messages.ReportExported{Err: errors.New("disk full")})

		assert.Equal(t, status.StateError, app.statusBar.State())
		assert.Equal(t, "disk full", app.statusBar.Message())
	})
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestCheck())

	app.Update(messages.ErrorOccurred{Err: errors.New("test error")})

	assert.EqualError(t, app.Err(), "test error")
	assert.Contains(t, app.View(), "test error")
}
