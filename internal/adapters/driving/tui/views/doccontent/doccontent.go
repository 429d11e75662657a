// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
)

// line is one wrapped display line and the 1-based paragraph it belongs to.
type line struct {
	text      string
	paragraph int
	first     bool
}

// View shows a document split into numbered paragraphs, with one paragraph
// optionally highlighted.
type View struct {
	styles *styles.Styles

	document     *domain.Document
	paragraphs   []string
	highlight    int
	lines        []line
	scrollOffset int
	back         messages.ViewType
	width        int
	height       int
	ready        bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		back:   messages.ViewDocuments,
		width:  80,
		height: 24,
	}
}

// SetDocument shows doc and scrolls to paragraph. A paragraph of 0 shows the
// document from the top without a highlight.
func (v *View) SetDocument(doc *domain.Document, paragraph int) {
	v.document = doc
	v.paragraphs = nil
	if doc != nil {
		v.paragraphs = chunker.SplitParagraphs(doc.Content)
	}
	v.highlight = 0
	if paragraph > 0 && paragraph <= len(v.paragraphs) {
		v.highlight = paragraph
	}
	v.wrapContent()
	v.scrollToHighlight()
}

// SetReturnView sets the view esc returns to.
func (v *View) SetReturnView(view messages.ViewType) {
	v.back = view
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// wrapContent wraps each paragraph to the view width behind its number.
func (v *View) wrapContent() {
	v.lines = nil
	if len(v.paragraphs) == 0 {
		return
	}

	gutter := len(fmt.Sprintf("%d", len(v.paragraphs))) + 3
	contentWidth := v.width - 4 - gutter
	if contentWidth < 20 {
		contentWidth = 20
	}
	wrap := lipgloss.NewStyle().Width(contentWidth)

	for i, p := range v.paragraphs {
		for j, l := range strings.Split(wrap.Render(p), "\n") {
			v.lines = append(v.lines, line{
				text:      strings.TrimRight(l, " "),
				paragraph: i + 1,
				first:     j == 0,
			})
		}
	}
}

// scrollToHighlight puts the highlighted paragraph near the top.
func (v *View) scrollToHighlight() {
	v.scrollOffset = 0
	if v.highlight == 0 {
		return
	}
	for i, l := range v.lines {
		if l.paragraph == v.highlight {
			v.scrollOffset = i
			break
		}
	}
	if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document"
	if v.document != nil {
		title = v.document.Title
		if title == "" {
			title = v.document.ID
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.highlight > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  §%d", v.highlight)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	gutter := len(fmt.Sprintf("%d", len(v.paragraphs)))
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		l := v.lines[i]
		number := strings.Repeat(" ", gutter+1)
		if l.first {
			number = fmt.Sprintf("%*d.", gutter, l.paragraph)
		}
		text := v.styles.Normal.Render(l.text)
		if l.paragraph == v.highlight {
			text = v.styles.Highlight.Render(l.text)
		}
		b.WriteString(v.styles.Muted.Render(number) + "  " + text)
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
	if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Highlighted returns the highlighted paragraph, or 0.
func (v *View) Highlighted() int {
	return v.highlight
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
