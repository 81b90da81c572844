package classifier

import (
	"regexp"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

var (
	// A capitalized phrase closing the text before the table.
	titleRe = regexp.MustCompile(`([A-Z][^\n.!?]*)\n\z`)

	// A line right after the table that does not open with a capital.
	footnoteRe = regexp.MustCompile(`\A\s*([^A-Z\s][^\n]*)`)
)

// extractContext returns up to c.context lines on either side of the
// table's [startLine, endLine] span, plus the title and footnotes found
// there.
func (c *Classifier) extractContext(documentText string, startLine, endLine int) document.TableContext {
	if documentText == "" {
		return document.TableContext{}
	}
	lines := strings.Split(documentText, "\n")
	n := len(lines)

	start := clamp(startLine, 0, n)
	end := clamp(endLine+1, start, n)

	before := strings.Join(lines[max(0, start-c.context):start], "\n")
	after := strings.Join(lines[end:min(n, end+c.context)], "\n")

	ctx := document.TableContext{TextBefore: before, TextAfter: after}
	if m := titleRe.FindStringSubmatch(strings.TrimSpace(before) + "\n"); m != nil {
		ctx.Title = strings.TrimSpace(m[1])
	}
	if m := footnoteRe.FindStringSubmatch(after); m != nil {
		ctx.Footnotes = strings.TrimSpace(m[1])
	}
	return ctx
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
