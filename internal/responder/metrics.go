package responder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

var metricTriggers = []string{
	"total assets",
	"total liabilities",
	"net worth",
	"portfolio value",
	"market value",
	"financial metrics",
	"key metrics",
}

// metricTerms are searched in the document text, in this order.
var metricTerms = []string{
	"total assets",
	"total liabilities",
	"net worth",
	"portfolio value",
	"market value",
	"total value",
}

var metricPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(metricTerms))
	for _, term := range metricTerms {
		m[term] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term) + `[:\s]*[$€£]?\d[\d,.]*`)
	}
	return m
}()

func (r *Responder) answerMetric(q string, doc *document.Bundle) (string, bool) {
	if !containsAny(q, metricTriggers...) {
		return "", false
	}
	generic := containsAny(q, "financial metrics", "key metrics")

	if out, ok := metricFromEntities(q, doc.Entities); ok {
		return out, true
	}
	if out, ok := metricFromText(q, doc.Text, generic); ok {
		return out, true
	}
	if out, ok := metricFromTables(q, doc.Tables); ok {
		return out, true
	}
	return "I'm sorry, I couldn't find that financial metric in this document.", true
}

func metricFromEntities(q string, entities []document.Entity) (string, bool) {
	for _, e := range entities {
		if e.Type != document.EntityFinancialMetric || e.Name == "" {
			continue
		}
		name := strings.ToLower(e.Name)
		if !strings.Contains(q, name) && !termIn(name, q) {
			continue
		}
		if v := entityValue(e); v != "" {
			return fmt.Sprintf("The %s is %s.", e.Name, v), true
		}
		return fmt.Sprintf("The document mentions %s, but I couldn't find its value.", e.Name), true
	}
	return "", false
}

// termIn reports whether a metric term asked about in q also appears in s.
func termIn(s, q string) bool {
	for _, term := range metricTerms {
		if strings.Contains(q, term) && strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func metricFromText(q, text string, generic bool) (string, bool) {
	var found []string
	for _, term := range metricTerms {
		if !generic && !strings.Contains(q, term) {
			continue
		}
		m := metricPatterns[term].FindString(text)
		if m == "" {
			continue
		}
		m = strings.TrimRight(strings.TrimSpace(m), ".,")
		if !generic {
			return fmt.Sprintf("According to the document: %s", m), true
		}
		found = append(found, m)
	}
	if len(found) == 0 {
		return "", false
	}
	return "Here are the key financial metrics I found:\n- " + strings.Join(found, "\n- "), true
}

// metricFromTables looks for a table with a metric column and a separate
// value column and returns the first row whose metric is asked about.
func metricFromTables(q string, tables []document.Table) (string, bool) {
	for i, t := range tables {
		metricCol, valueCol := metricColumns(t.DisplayHeaders())
		if metricCol < 0 || valueCol < 0 {
			continue
		}
		for _, row := range t.Rows {
			if metricCol >= len(row) || valueCol >= len(row) {
				continue
			}
			metric := strings.ToLower(strings.TrimSpace(row[metricCol]))
			if metric == "" {
				continue
			}
			if strings.Contains(q, metric) || termIn(metric, q) {
				return fmt.Sprintf("%s lists %s: %s", tableLabel(i, t), row[metricCol], row[valueCol]), true
			}
		}
	}
	return "", false
}

func metricColumns(headers []string) (int, int) {
	metricCol, valueCol := -1, -1
	for i, h := range headers {
		lower := strings.ToLower(h)
		switch {
		case metricCol < 0 && containsAny(lower, "metric", "measure", "item"):
			metricCol = i
		case valueCol < 0 && containsAny(lower, "value", "amount", "total"):
			valueCol = i
		}
	}
	return metricCol, valueCol
}
