package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/views/issues"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// statusBar is rendered below every view.
	statusBar *status.Bar

	menuView       *menu.View
	documentsView  *documents.View
	issuesView     *issues.View
	docContentView *doccontent.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// running is set while a check is in flight.
	running bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		statusBar:      status.NewBar(s, km),
		menuView:       menu.NewView(s),
		documentsView:  documents.NewView(s, ports.Check, ports.Import),
		issuesView:     issues.NewView(s, ports.Check, ports.Report),
		docContentView: doccontent.NewView(s),
		currentView:    messages.ViewMenu, // Start with menu
	}
	app.refreshCounts()
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithExportFormat sets the report format used by the export key.
func (a *App) WithExportFormat(format domain.ExportFormat) *App {
	a.issuesView.SetExportFormat(format)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("contextguard"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if keymap.Matches(msg.String(), a.keymap.Help) && !a.documentsView.IsAdding() &&
			a.currentView != messages.ViewHelp {
			return a, a.switchView(messages.ViewHelp)
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.CheckRequested:
		return a, a.startCheck()

	case messages.CheckCompleted:
		a.running = false
		a.issuesView, cmd = a.issuesView.Update(msg)
		a.err = msg.Err
		switch {
		case msg.Err != nil:
			a.setError(msg.Err.Error())
		case msg.State.IsFailed():
			a.setError(msg.State.Message)
		default:
			a.statusBar.SetMessage("")
			a.setStatus()
		}
		return a, cmd

	case messages.DocumentSelected:
		doc := msg.Document
		a.docContentView.SetDocument(&doc, msg.Paragraph)
		a.docContentView.SetReturnView(a.currentView)
		a.currentView = messages.ViewDocContent
		a.setStatus()
		return a, nil

	case messages.DocumentsImported:
		a.documentsView, cmd = a.documentsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.refreshCounts()
		return a, cmd

	case messages.DocumentRemoved, messages.DocumentsCleared:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.issuesView.Refresh()
		a.refreshCounts()
		return a, cmd

	case messages.ReportExported:
		a.issuesView, cmd = a.issuesView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err.Error())
		} else {
			a.statusBar.SetMessage("Report saved to " + msg.Path)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewIssues:
			a.issuesView, cmd = a.issuesView.Update(msg)
		case messages.ViewMenu, messages.ViewDocContent, messages.ViewHelp:
			a.setError(msg.Err.Error())
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// forwardKey sends a key press to the active view.
func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewIssues:
		a.issuesView, cmd = a.issuesView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewHelp:
		// Esc or q from help goes to menu
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			return a.switchView(messages.ViewMenu)
		}
	}
	return cmd
}

// switchView activates view and refreshes what it shows.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewDocuments:
		a.documentsView.Refresh()
	case messages.ViewIssues:
		if !a.running {
			a.issuesView.Refresh()
		}
	case messages.ViewMenu:
		a.refreshCounts()
	case messages.ViewDocContent, messages.ViewHelp:
	}
	a.setStatus()
	return nil
}

// startCheck runs the analysis in the background. Requests made while a
// check is running, or with no documents loaded, are ignored.
func (a *App) startCheck() tea.Cmd {
	if a.running {
		return nil
	}
	if len(a.ports.Check.Documents()) == 0 {
		a.err = domain.ErrNoDocuments
		a.setError(domain.ErrNoDocuments.Error())
		return nil
	}

	a.running = true
	a.err = nil
	a.issuesView, _ = a.issuesView.Update(messages.CheckRequested{})
	a.currentView = messages.ViewIssues
	a.statusBar.SetMessage("")
	a.statusBar.SetState(status.StateAnalyzing)

	check := a.ports.Check
	ctx := a.ctx
	return func() tea.Msg {
		err := check.Run(ctx)
		return messages.CheckCompleted{
			State:  check.State(),
			Issues: check.Issues(),
			Err:    err,
		}
	}
}

// refreshCounts updates the document counts shown by the menu and status bar.
func (a *App) refreshCounts() {
	count := len(a.ports.Check.Documents())
	capacity := count + a.ports.Check.RemainingSlots()
	a.menuView.SetDocumentCount(count, capacity)
	a.statusBar.SetDocuments(count, capacity)
}

// setStatus puts the status bar into the state matching the active view.
func (a *App) setStatus() {
	if a.running {
		a.statusBar.SetState(status.StateAnalyzing)
		return
	}
	switch a.currentView {
	case messages.ViewDocuments:
		a.statusBar.SetState(status.StateDocuments)
	case messages.ViewIssues:
		a.statusBar.SetIssueCount(len(a.issuesView.Issues()))
		a.statusBar.SetState(status.StateIssues)
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewMenu, messages.ViewDocContent:
		a.statusBar.SetState(status.StateReady)
	}
}

// setError shows message in the status bar.
func (a *App) setError(message string) {
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(message)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewIssues:
		body = a.issuesView.View()
	case messages.ViewDocContent:
		body = a.docContentView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Load up to the document limit, run a check, then open the\n" +
		"source or target of an issue to see the quoted paragraph."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Running reports whether a check is in flight.
func (a *App) Running() bool {
	return a.running
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// One line for the status bar plus a blank separator.
	viewHeight := max(height-2, 1)
	a.menuView.SetDimensions(width, viewHeight)
	a.documentsView.SetDimensions(width, viewHeight)
	a.issuesView.SetDimensions(width, viewHeight)
	a.docContentView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
