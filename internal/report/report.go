// Package report renders contradiction issues as human-readable or
// machine-readable reports.
//
// Rendering is pure: issues appear in the order given, with no sorting,
// deduplication or timestamps.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// Title is the first line of every text report.
const Title = "Context Guard — Consistency Report"

var (
	headerRule = strings.Repeat("=", 40)
	issueRule  = strings.Repeat("-", 40)
)

// FormatText renders the plain-text report.
func FormatText(docCount int, issues []domain.Issue) string {
	var b strings.Builder

	b.WriteString(Title + "\n")
	fmt.Fprintf(&b, "Checked %d document(s)\n", docCount)
	fmt.Fprintf(&b, "Found %d issue(s)\n", len(issues))
	b.WriteString(headerRule + "\n\n")

	for i, issue := range issues {
		fmt.Fprintf(&b, "Issue #%d [%s]\n", i+1, issue.Severity.String())
		b.WriteString(issue.Rationale + "\n\n")

		b.WriteString("  " + location(issue.SourceDocument, issue.SourceParagraph) + ":\n")
		b.WriteString("  \"" + issue.SourceText + "\"\n\n")

		b.WriteString("  " + location(issue.TargetDocument, issue.TargetParagraph) + ":\n")
		b.WriteString("  \"" + issue.TargetText + "\"\n\n")

		b.WriteString("  Suggested Fix: " + issue.SuggestedFix + "\n")
		b.WriteString(issueRule + "\n\n")
	}

	return b.String()
}

// FormatMarkdown renders the report as Markdown.
func FormatMarkdown(docCount int, issues []domain.Issue) string {
	var b strings.Builder

	b.WriteString("# " + Title + "\n\n")
	fmt.Fprintf(&b, "- Checked %d document(s)\n", docCount)
	fmt.Fprintf(&b, "- Found %d issue(s)\n", len(issues))

	for i, issue := range issues {
		fmt.Fprintf(&b, "\n## Issue %d `%s`\n\n", i+1, issue.Severity.String())
		b.WriteString(issue.Rationale + "\n\n")
		b.WriteString("**" + location(issue.SourceDocument, issue.SourceParagraph) + "**\n\n")
		b.WriteString(quote(issue.SourceText) + "\n\n")
		b.WriteString("**" + location(issue.TargetDocument, issue.TargetParagraph) + "**\n\n")
		b.WriteString(quote(issue.TargetText) + "\n\n")
		b.WriteString("**Suggested fix:** " + issue.SuggestedFix + "\n")
	}

	return b.String()
}

// Document is the JSON shape of a report.
type Document struct {
	Title         string         `json:"title"`
	DocumentCount int            `json:"documentCount"`
	IssueCount    int            `json:"issueCount"`
	Issues        []domain.Issue `json:"issues"`
}

// FormatJSON renders the report as indented JSON. Issues is never null.
func FormatJSON(docCount int, issues []domain.Issue) (string, error) {
	if issues == nil {
		issues = []domain.Issue{}
	}

	data, err := json.MarshalIndent(Document{
		Title:         Title,
		DocumentCount: docCount,
		IssueCount:    len(issues),
		Issues:        issues,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

// Format renders the report in the requested format.
func Format(format domain.ExportFormat, docCount int, issues []domain.Issue) (string, error) {
	switch format {
	case domain.ExportFormatText, "":
		return FormatText(docCount, issues), nil
	case domain.ExportFormatMarkdown:
		return FormatMarkdown(docCount, issues), nil
	case domain.ExportFormatJSON:
		return FormatJSON(docCount, issues)
	default:
		return "", fmt.Errorf("%w: report format %q", domain.ErrUnsupportedType, format)
	}
}

// location renders "<title>" or "<title> (Paragraph n)".
func location(title string, paragraph int) string {
	if paragraph > 0 {
		return fmt.Sprintf("%s (Paragraph %d)", title, paragraph)
	}
	return title
}

func quote(s string) string {
	return "> " + strings.ReplaceAll(s, "\n", "\n> ")
}
