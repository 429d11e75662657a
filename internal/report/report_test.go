package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

func sampleIssue() domain.Issue {
	return domain.Issue{
		Severity:        domain.SeverityHigh,
		Rationale:       "R",
		SourceText:      "s",
		SourceDocument:  "A",
		TargetText:      "t",
		TargetDocument:  "B",
		SuggestedFix:    "F",
		SourceParagraph: 2,
		TargetParagraph: 0,
	}
}

func TestFormatText_Empty(t *testing.T) {
	expected := "Context Guard — Consistency Report\n" +
		"Checked 0 document(s)\n" +
		"Found 0 issue(s)\n" +
		strings.Repeat("=", 40) + "\n\n"

	assert.Equal(t, expected, FormatText(0, nil))
}

func TestFormatText_SingleIssue(t *testing.T) {
	expected := "Context Guard — Consistency Report\n" +
		"Checked 1 document(s)\n" +
		"Found 1 issue(s)\n" +
		strings.Repeat("=", 40) + "\n\n" +
		"Issue #1 [HIGH]\n" +
		"R\n\n" +
		"  A (Paragraph 2):\n" +
		"  \"s\"\n\n" +
		"  B:\n" +
		"  \"t\"\n\n" +
		"  Suggested Fix: F\n" +
		strings.Repeat("-", 40) + "\n\n"

	assert.Equal(t, expected, FormatText(1, []domain.Issue{sampleIssue()}))
}

func TestFormatText_NumbersIssuesInOrder(t *testing.T) {
	first := sampleIssue()
	second := sampleIssue()
	second.Severity = domain.SeverityLow
	second.Rationale = "second"

	out := FormatText(2, []domain.Issue{first, second})

	assert.Contains(t, out, "Found 2 issue(s)")
	assert.Less(t, strings.Index(out, "Issue #1 [HIGH]"), strings.Index(out, "Issue #2 [LOW]"))
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("-", 40)))
}

func TestFormatText_UnknownSeverity(t *testing.T) {
	issue := sampleIssue()
	issue.Severity = ""

	assert.Contains(t, FormatText(1, []domain.Issue{issue}), "Issue #1 [UNKNOWN]")
}

func TestFormatText_DocCountIndependentOfIssues(t *testing.T) {
	assert.Contains(t, FormatText(3, nil), "Checked 3 document(s)\nFound 0 issue(s)\n")
}

func TestFormatText_Deterministic(t *testing.T) {
	issues := []domain.Issue{sampleIssue(), {Severity: domain.SeverityLow, Rationale: "other"}}

	first := FormatText(2, issues)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FormatText(2, issues))
	}
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(1, []domain.Issue{sampleIssue()})

	assert.True(t, strings.HasPrefix(out, "# Context Guard — Consistency Report\n"))
	assert.Contains(t, out, "## Issue 1 `HIGH`")
	assert.Contains(t, out, "**A (Paragraph 2)**")
	assert.Contains(t, out, "**B**")
	assert.Contains(t, out, "> s")
	assert.Contains(t, out, "**Suggested fix:** F")
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(2, []domain.Issue{sampleIssue()})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, Title, doc.Title)
	assert.Equal(t, 2, doc.DocumentCount)
	assert.Equal(t, 1, doc.IssueCount)
	require.Len(t, doc.Issues, 1)
	assert.Equal(t, sampleIssue(), doc.Issues[0])
}

func TestFormatJSON_NilIssues(t *testing.T) {
	out, err := FormatJSON(0, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"issues": []`)
}

func TestFormat(t *testing.T) {
	issues := []domain.Issue{sampleIssue()}

	text, err := Format(domain.ExportFormatText, 1, issues)
	require.NoError(t, err)
	assert.Equal(t, FormatText(1, issues), text)

	md, err := Format(domain.ExportFormatMarkdown, 1, issues)
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown(1, issues), md)

	_, err = Format(domain.ExportFormat("pdf"), 1, issues)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
