package responder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

var (
	tableNumberRe  = regexp.MustCompile(`\btable\s+(\d+)`)
	tableOrdinalRe = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\s+table`)
	tableCountRe   = regexp.MustCompile(`\b(how many|number of|count(?: of)?(?: the)?)\s+tables?\b`)
)

func (r *Responder) answerTable(q string, doc *document.Bundle) (string, bool) {
	if !containsAny(q, "table", "rows", "columns") {
		return "", false
	}
	if len(doc.Tables) == 0 {
		return "I couldn't find any tables in this document.", true
	}
	if tableCountRe.MatchString(q) {
		return fmt.Sprintf("This document contains %s.", plural(len(doc.Tables), "table", "tables")), true
	}

	if i, ok := requestedTable(q, doc.Tables); ok {
		return r.formatTable(i, doc.Tables[i]), true
	}

	out := r.formatTable(0, doc.Tables[0])
	if len(doc.Tables) > 1 {
		out += fmt.Sprintf("\n\nThis document contains %d tables. Ask for a specific one by number (for example \"table 2\") or by its title.", len(doc.Tables))
	}
	return out, true
}

// requestedTable finds the table named in q by 1-based number or by title.
func requestedTable(q string, tables []document.Table) (int, bool) {
	n := 0
	if m := tableNumberRe.FindStringSubmatch(q); m != nil {
		n, _ = strconv.Atoi(m[1])
	} else if m := tableOrdinalRe.FindStringSubmatch(q); m != nil {
		n, _ = strconv.Atoi(m[1])
	}
	for i, t := range tables {
		if n == i+1 {
			return i, true
		}
		if title := strings.ToLower(strings.TrimSpace(t.Title)); title != "" && strings.Contains(q, title) {
			return i, true
		}
	}
	return 0, false
}

// formatTable renders a table as Markdown, capped at TablePreviewRows rows.
func (r *Responder) formatTable(i int, t document.Table) string {
	var sb strings.Builder
	sb.WriteString(tableLabel(i, t))
	if kind := typeLabel(t.Type); kind != "" {
		fmt.Fprintf(&sb, " (%s)", kind)
	}
	sb.WriteString("\n\n")

	headers := t.DisplayHeaders()
	if len(headers) > 0 {
		writeRow(&sb, headers)
		sep := make([]string, len(headers))
		for j := range sep {
			sep[j] = "---"
		}
		writeRow(&sb, sep)
	}

	limit := r.limits.TablePreviewRows
	for j, row := range t.Rows {
		if j == limit {
			break
		}
		writeRow(&sb, row)
	}
	if len(t.Rows) > limit {
		fmt.Fprintf(&sb, "\n(Showing %d rows out of %d total rows)", limit, len(t.Rows))
	}
	if len(t.Rows) == 0 {
		sb.WriteString("\n(This table has no data rows)")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(c, "|", `\|`))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

// tableLabel names the i-th table as "Table N" plus its title. Titles that
// already start with "table" are used as they are.
func tableLabel(i int, t document.Table) string {
	if strings.HasPrefix(strings.ToLower(t.Title), "table") {
		return t.Title
	}
	if t.Title != "" {
		return fmt.Sprintf("Table %d: %s", i+1, t.Title)
	}
	return fmt.Sprintf("Table %d", i+1)
}

// typeLabel turns "securities_table" into "securities table".
func typeLabel(t document.TableType) string {
	if t == "" || t == document.TableUnknown {
		return ""
	}
	return strings.ReplaceAll(string(t), "_", " ")
}
