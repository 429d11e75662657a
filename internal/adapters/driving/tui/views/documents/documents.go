// Package documents provides the session documents view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// errImportUnavailable is reported when files are added without an import service.
var errImportUnavailable = errors.New("import service not available")

// View lists the documents loaded in the check session.
type View struct {
	styles        *styles.Styles
	checkService  driving.CheckService
	importService driving.ImportService

	documents    []domain.Document
	selected     int
	scrollOffset int
	adding       bool
	pathInput    *input.PathInput
	notice       string
	skipped      []string
	err          error
	loading      bool
	width        int
	height       int
	ready        bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, checkService driving.CheckService, importService driving.ImportService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		checkService:  checkService,
		importService: importService,
		pathInput:     input.NewPathInput(s),
		documents:     []domain.Document{},
		width:         80,
		height:        24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Refresh reloads the document list from the session.
func (v *View) Refresh() {
	v.documents = []domain.Document{}
	if v.checkService != nil {
		v.documents = v.checkService.Documents()
	}
	if v.selected >= len(v.documents) {
		v.selected = max(len(v.documents)-1, 0)
	}
	v.adjustScroll()
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.handleInputKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsImported:
		v.loading = false
		v.handleImported(msg)
		v.Refresh()
		return v, nil

	case messages.DocumentRemoved, messages.DocumentsCleared:
		v.Refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if doc := v.SelectedDocument(); doc != nil {
			selected := *doc
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: selected}
			}
		}
	case "a":
		v.adding = true
		v.err = nil
		v.pathInput.Reset()
		return v, v.pathInput.Focus()
	case "x", "delete":
		if doc := v.SelectedDocument(); doc != nil {
			return v, v.removeDocument(doc.ID)
		}
	case "C":
		return v, v.clearDocuments()
	case "r":
		return v, func() tea.Msg { return messages.CheckRequested{} }
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleInputKeyMsg handles key presses while a path is being typed.
func (v *View) handleInputKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.pathInput.Blur()
		return v, nil
	case "enter":
		paths := v.pathInput.Paths()
		v.adding = false
		v.pathInput.Blur()
		if len(paths) == 0 {
			return v, nil
		}
		v.loading = true
		return v, v.importFiles(paths)
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// handleImported records the outcome of an import.
func (v *View) handleImported(msg messages.DocumentsImported) {
	v.skipped = nil
	if msg.Err != nil {
		v.err = msg.Err
		v.notice = ""
		return
	}
	v.err = nil
	if msg.Result == nil {
		return
	}

	v.notice = fmt.Sprintf("Added %d document(s)", len(msg.Result.Added))
	paths := make([]string, 0, len(msg.Result.Skipped))
	for path := range msg.Result.Skipped {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		v.skipped = append(v.skipped, fmt.Sprintf("%s: %v", path, msg.Result.Skipped[path]))
	}
}

// importFiles returns a command that imports paths into the session.
func (v *View) importFiles(paths []string) tea.Cmd {
	return func() tea.Msg {
		if v.importService == nil {
			return messages.DocumentsImported{Err: errImportUnavailable}
		}
		result, err := v.importService.ImportFiles(context.Background(), paths)
		return messages.DocumentsImported{Result: result, Err: err}
	}
}

// removeDocument returns a command that removes a document from the session.
func (v *View) removeDocument(id string) tea.Cmd {
	return func() tea.Msg {
		v.checkService.RemoveDocument(id)
		return messages.DocumentRemoved{ID: id}
	}
}

// clearDocuments returns a command that empties the session.
func (v *View) clearDocuments() tea.Cmd {
	return func() tea.Msg {
		v.checkService.Clear()
		return messages.DocumentsCleared{}
	}
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, input, notices and help
	available := v.height - 10
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	capacity := len(v.documents)
	if v.checkService != nil {
		capacity += v.checkService.RemainingSlots()
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d/%d)", len(v.documents), capacity)))
	b.WriteString("\n\n")

	if v.adding {
		b.WriteString(v.pathInput.View())
		b.WriteString("\n\n")
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Importing..."))
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
		for _, s := range v.skipped {
			b.WriteString(v.styles.Warning.Render("  skipped " + s))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(v.documents) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents loaded. Press a to add files."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		b.WriteString("\n")
	}

	if len(v.documents) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.documents)),
			len(v.documents))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	maxTitleLen := max(v.width/2-4, 10)
	title = list.Truncate(title, maxTitleLen)
	size := fmt.Sprintf("%d chars", utf8.RuneCountInString(doc.Content))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, size))
	}

	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxTitleLen, title)) +
		v.styles.Muted.Render(size)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.adding {
		return v.styles.Help.Render("[enter] add  [esc] cancel  separate paths with commas")
	}
	return v.styles.Help.Render("[a] add  [x] remove  [C] clear  [enter] view  [r] check  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.pathInput.SetWidth(width - 4)
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsAdding reports whether the path input is open.
func (v *View) IsAdding() bool {
	return v.adding
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
