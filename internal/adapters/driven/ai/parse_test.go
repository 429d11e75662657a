package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

const oneIssue = `{"severity":"high","rationale":"Dates differ.","sourceText":"Monday, June 1st",` +
	`"sourceDocument":"A.txt","targetText":"Wednesday, June 3rd","targetDocument":"B.txt",` +
	`"suggestedFix":"Pick one date.","sourceParagraph":2,"targetParagraph":"§3"}`

func TestParseIssues_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"bare array", "[" + oneIssue + "]", 1},
		{"issues object", `{"issues":[` + oneIssue + `]}`, 1},
		{"single key object", `{"contradictions":[` + oneIssue + `,` + oneIssue + `]}`, 2},
		{"single issue object", oneIssue, 1},
		{"code fence", "```json\n{\"issues\":[" + oneIssue + "]}\n```", 1},
		{"surrounding chatter", "Here you go:\n[" + oneIssue + "]\nHope that helps.", 1},
		{"empty array", "[]", 0},
		{"empty issues", `{"issues": []}`, 0},
		{"null issues", `{"issues": null}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := ParseIssues(tt.reply)
			require.NoError(t, err)
			assert.NotNil(t, issues)
			assert.Len(t, issues, tt.want)
		})
	}
}

func TestParseIssues_Fields(t *testing.T) {
	issues, err := ParseIssues("[" + oneIssue + "]")
	require.NoError(t, err)
	require.Len(t, issues, 1)

	got := issues[0]
	assert.Equal(t, domain.SeverityHigh, got.Severity)
	assert.Equal(t, "Dates differ.", got.Rationale)
	assert.Equal(t, "Monday, June 1st", got.SourceText)
	assert.Equal(t, "A.txt", got.SourceDocument)
	assert.Equal(t, "Wednesday, June 3rd", got.TargetText)
	assert.Equal(t, "B.txt", got.TargetDocument)
	assert.Equal(t, "Pick one date.", got.SuggestedFix)
	assert.Equal(t, 2, got.SourceParagraph)
	assert.Equal(t, 3, got.TargetParagraph)
}

func TestParseIssues_LenientValues(t *testing.T) {
	reply := `[{"severity":" Critical ","rationale":"x","sourceText":"a","targetText":"b",` +
		`"sourceParagraph":-1,"targetParagraph":"n/a"},` +
		`{"severity":"Low","rationale":"y","sourceParagraph":4.0,"targetParagraph":null}]`

	issues, err := ParseIssues(reply)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, domain.SeverityUnknown, issues[0].Severity)
	assert.Zero(t, issues[0].SourceParagraph)
	assert.Zero(t, issues[0].TargetParagraph)
	assert.Equal(t, domain.SeverityLow, issues[1].Severity)
	assert.Equal(t, 4, issues[1].SourceParagraph)
	assert.Zero(t, issues[1].TargetParagraph)
}

func TestParagraphNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`3.0`, 3},
		{`"7"`, 7},
		{`"§ 2"`, 2},
		{`3.7`, 0},
		{`0`, 0},
		{`1e30`, 0},
		{`2147483648`, 0},
		{`"abc"`, 0},
		{`null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var p paragraphNumber
			require.NoError(t, p.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.want, int(p))
		})
	}
}

func TestParseIssues_SkipsBlankEntries(t *testing.T) {
	issues, err := ParseIssues(`[{}, ` + oneIssue + `, {"severity":"HIGH"}]`)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestParseIssues_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"empty", ""},
		{"prose only", "I could not find anything."},
		{"broken json", `{"issues": [`},
		{"object without issues", `{"status":"ok","count":2}`},
		{"wrong type", `{"issues": "none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIssues(tt.reply)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrGenerationFailed)
		})
	}
}
