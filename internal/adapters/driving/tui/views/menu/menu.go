// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	View   messages.ViewType
	Action tea.Msg // If set, selecting this item emits the message instead of changing view
	Quit   bool    // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles    *styles.Styles
	items     []Item
	selected  int
	width     int
	height    int
	ready     bool
	documents int
	capacity  int
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Documents", View: messages.ViewDocuments},
			{Label: "Run check", Action: messages.CheckRequested{}},
			{Label: "Issues", View: messages.ViewIssues},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			if item.Action != nil {
				action := item.Action
				return v, func() tea.Msg { return action }
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("ContextGuard"))
	b.WriteString("\n\n")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("Find contradictions in your documents")
	b.WriteString(subtitle)
	b.WriteString("\n")
	if v.capacity > 0 {
		b.WriteString(v.styles.Muted.Render(
			fmt.Sprintf("%d of %d documents loaded", v.documents, v.capacity)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		b.WriteString(cursor + style.Render(item.Label))
		b.WriteString("\n")
	}

	// Footer with keybindings
	b.WriteString("\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[j/k] Navigate  [Enter] Select  [q] Quit")
	b.WriteString(footer)

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SetDocumentCount sets the loaded document count shown under the title.
func (v *View) SetDocumentCount(count, capacity int) {
	v.documents = count
	v.capacity = capacity
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
