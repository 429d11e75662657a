// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// IssueList displays contradiction issues in a navigable list.
type IssueList struct {
	issues   []domain.Issue
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewIssueList creates a new issue list component.
func NewIssueList(s *styles.Styles) *IssueList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &IssueList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the issue list.
func (l *IssueList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *IssueList) Update(msg tea.Msg) (*IssueList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.issues) > 0 {
				l.selected = len(l.issues) - 1
			}
		}
	}
	return l, nil
}

// View renders the issue list.
func (l *IssueList) View() string {
	if len(l.issues) == 0 {
		return l.styles.Success.Render("No contradictions found")
	}

	lines := make([]string, 0, len(l.issues)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Issues (%d)", len(l.issues))), "")

	// Each issue takes two lines.
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.issues) {
		end = len(l.issues)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderIssue(i, &l.issues[i]))
	}

	return strings.Join(lines, "\n")
}

// renderIssue formats a single issue as a headline plus its rationale.
func (l *IssueList) renderIssue(index int, issue *domain.Issue) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	badge := l.styles.Severity(issue.Severity).Render(fmt.Sprintf("%-6s", issue.Severity.String()))
	where := issue.SourceDocument
	if !issue.IsInternal() {
		where += " ↔ " + issue.TargetDocument
	}
	where = Truncate(where, l.width-12)

	var head string
	if index == l.selected {
		head = l.styles.Selected.Render(indicator+where) + " " + badge
	} else {
		head = l.styles.Normal.Render(indicator+where) + " " + badge
	}

	rationale := Truncate(issue.Rationale, l.width-6)
	return head + "\n" + l.styles.Muted.Render("    "+rationale)
}

// Truncate shortens s to at most n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetIssues replaces the list and selects the first issue.
func (l *IssueList) SetIssues(issues []domain.Issue) {
	l.issues = issues
	l.selected = 0
}

// Issues returns the current issues.
func (l *IssueList) Issues() []domain.Issue {
	return l.issues
}

// Selected returns the index of the selected issue.
func (l *IssueList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *IssueList) SetSelected(index int) {
	if index >= 0 && index < len(l.issues) {
		l.selected = index
	}
}

// SelectedIssue returns the currently selected issue, or nil if none.
func (l *IssueList) SelectedIssue() *domain.Issue {
	if len(l.issues) == 0 || l.selected < 0 || l.selected >= len(l.issues) {
		return nil
	}
	return &l.issues[l.selected]
}

// MoveUp moves selection up.
func (l *IssueList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *IssueList) MoveDown() {
	if l.selected < len(l.issues)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *IssueList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of issues.
func (l *IssueList) Count() int {
	return len(l.issues)
}

// IsEmpty returns whether the list is empty.
func (l *IssueList) IsEmpty() bool {
	return len(l.issues) == 0
}
