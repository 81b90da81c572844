// Package segment finds table-shaped runs of lines in document text and
// defines the cell grammar shared with the classifier.
package segment

import (
	"regexp"
	"strings"
)

var (
	wideSpaceRe = regexp.MustCompile(`\s{2,}`)
	ruleLineRe  = regexp.MustCompile(`^[\s|:+=-]+$`)
)

// Segment is a run of table lines. StartLine and EndLine are 0-based and
// inclusive.
type Segment struct {
	Text      string `json:"text"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// SplitCells splits a table line on '|' when present, otherwise on runs of
// two or more whitespace characters. Cells are trimmed. On pipe lines only
// the empty border tokens before the first and after the last '|' are
// dropped, so an empty inner cell keeps its column; a line with no content
// yields nil.
func SplitCells(line string) []string {
	if !strings.Contains(line, "|") {
		var cells []string
		for _, p := range wideSpaceRe.Split(line, -1) {
			if p = strings.TrimSpace(p); p != "" {
				cells = append(cells, p)
			}
		}
		return cells
	}

	parts := strings.Split(line, "|")
	if strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if n := len(parts); n > 0 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}
	cells := make([]string, 0, len(parts))
	blank := true
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			blank = false
		}
		cells = append(cells, p)
	}
	if blank {
		return nil
	}
	return cells
}

// IsRule reports separator rows such as |---|:--:| or ------  ------.
func IsRule(line string) bool {
	return strings.ContainsAny(line, "-=") && ruleLineRe.MatchString(line)
}

func isTabular(line string) bool {
	return IsRule(line) || len(SplitCells(line)) >= 2
}

// Find returns every run of at least two consecutive table lines. Runs
// that are only whitespace-aligned must contain a digit somewhere, which
// keeps double-spaced prose out.
func Find(text string) []Segment {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var out []Segment
	start := -1
	emit := func(end int) {
		if start < 0 {
			return
		}
		if end-start+1 >= 2 && plausible(lines[start:end+1]) {
			out = append(out, Segment{
				Text:      strings.Join(lines[start:end+1], "\n"),
				StartLine: start,
				EndLine:   end,
			})
		}
		start = -1
	}

	for i, line := range lines {
		if strings.TrimSpace(line) != "" && isTabular(line) {
			if start < 0 {
				start = i
			}
			continue
		}
		emit(i - 1)
	}
	emit(len(lines) - 1)
	return out
}

func plausible(run []string) bool {
	digits := false
	for _, l := range run {
		if strings.Contains(l, "|") {
			return true
		}
		if strings.ContainsAny(l, "0123456789") {
			digits = true
		}
	}
	return digits
}
