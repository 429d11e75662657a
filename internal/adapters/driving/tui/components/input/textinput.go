// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
)

// PathInput wraps a bubbles textinput for entering file paths.
type PathInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewPathInput creates a new path input component.
func NewPathInput(s *styles.Styles) *PathInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "path/to/file.docx, another.pdf"
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 50

	return &PathInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the path input.
func (p *PathInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PathInput) Update(msg tea.Msg) (*PathInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the path input.
func (p *PathInput) View() string {
	label := p.styles.Title.Render("Add: ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (p *PathInput) Value() string {
	return p.textinput.Value()
}

// Paths splits the value on commas and drops empty entries.
func (p *PathInput) Paths() []string {
	var paths []string
	for _, part := range strings.Split(p.textinput.Value(), ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		if part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}

// SetValue sets the input value.
func (p *PathInput) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (p *PathInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PathInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PathInput) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the input.
func (p *PathInput) SetWidth(width int) {
	p.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Width returns the current width.
func (p *PathInput) Width() int {
	return p.width
}

// Reset clears the input.
func (p *PathInput) Reset() {
	p.textinput.Reset()
}
