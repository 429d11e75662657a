package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// issueJSON is the issue shape requested from the model.
// Paragraph numbers are lenient because models often quote them as strings.
type issueJSON struct {
	Severity        string          `json:"severity"`
	Rationale       string          `json:"rationale"`
	SourceText      string          `json:"sourceText"`
	SourceDocument  string          `json:"sourceDocument"`
	TargetText      string          `json:"targetText"`
	TargetDocument  string          `json:"targetDocument"`
	SuggestedFix    string          `json:"suggestedFix"`
	SourceParagraph paragraphNumber `json:"sourceParagraph"`
	TargetParagraph paragraphNumber `json:"targetParagraph"`
}

// paragraphNumber accepts 3, 3.0, "3" and "§3". Fractions, values below 1
// and values above math.MaxInt32 decode as 0.
type paragraphNumber int

// UnmarshalJSON implements json.Unmarshaler.
func (p *paragraphNumber) UnmarshalJSON(data []byte) error {
	*p = 0
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "§"))

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 1 || f > math.MaxInt32 || f != math.Trunc(f) {
		return nil
	}
	*p = paragraphNumber(int(f))
	return nil
}

// ParseIssues decodes a model reply into issues.
//
// The reply may be a bare array, an object holding the array under "issues"
// (or under its only key), or a single issue object. Markdown code fences and
// text around the JSON value are ignored. Severities are normalised with
// domain.ParseSeverity. Errors wrap domain.ErrGenerationFailed.
func ParseIssues(reply string) ([]domain.Issue, error) {
	body := extractJSON(reply)
	if body == "" {
		return nil, fmt.Errorf("%w: reply contains no JSON", domain.ErrGenerationFailed)
	}

	raw, err := decodeIssueList([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	issues := make([]domain.Issue, 0, len(raw))
	for _, r := range raw {
		issue := domain.Issue{
			Severity:        domain.ParseSeverity(r.Severity),
			Rationale:       strings.TrimSpace(r.Rationale),
			SourceText:      strings.TrimSpace(r.SourceText),
			SourceDocument:  strings.TrimSpace(r.SourceDocument),
			TargetText:      strings.TrimSpace(r.TargetText),
			TargetDocument:  strings.TrimSpace(r.TargetDocument),
			SuggestedFix:    strings.TrimSpace(r.SuggestedFix),
			SourceParagraph: int(r.SourceParagraph),
			TargetParagraph: int(r.TargetParagraph),
		}
		if issue.Rationale == "" && issue.SourceText == "" && issue.TargetText == "" {
			continue
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func decodeIssueList(data []byte) ([]issueJSON, error) {
	if data[0] == '[' {
		var list []issueJSON
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode issue array: %w", err)
		}
		return list, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode issue object: %w", err)
	}

	if inner, ok := fields["issues"]; ok {
		return decodeWrapped(inner)
	}
	if len(fields) == 1 {
		for _, inner := range fields {
			if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '[' {
				return decodeWrapped(trimmed)
			}
		}
	}
	if _, ok := fields["rationale"]; ok {
		var single issueJSON
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("decode issue: %w", err)
		}
		return []issueJSON{single}, nil
	}
	return nil, fmt.Errorf("object has no issues array")
}

func decodeWrapped(inner json.RawMessage) ([]issueJSON, error) {
	trimmed := bytes.TrimSpace(inner)
	if string(trimmed) == "null" {
		return nil, nil
	}
	var list []issueJSON
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return list, nil
}

// extractJSON returns the outermost JSON array or object in s.
func extractJSON(s string) string {
	s = stripCodeFence(strings.TrimSpace(s))

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	closer := "]"
	if s[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return ""
	}
	return s[start : end+1]
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
