package responder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
)

var dateTriggers = []string{"when", "date", "time period", "year", "month"}

const dateValue = `(\d{4}-\d{2}-\d{2}` +
	`|\d{1,2}[./-]\d{1,2}[./-]\d{2,4}` +
	`|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}` +
	`|\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4})`

// labeledDates are tried in order; the first match wins.
var labeledDates = []struct {
	re     *regexp.Regexp
	format string
}{
	{labeledDate("report date"), "The report date is %s."},
	{labeledDate("as of"), "The document is as of %s."},
	{labeledDate("date"), "The document is dated %s."},
	{labeledDate("period ending"), "The period ends on %s."},
	{labeledDate("statement date"), "The statement date is %s."},
}

func labeledDate(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `[:\s]+` + dateValue)
}

var (
	yearRe    = regexp.MustCompile(`\b20\d{2}\b`)
	quarterRe = regexp.MustCompile(`(?i)\b(?:q[1-4](?:\s+\d{4})?|(?:first|second|third|fourth)\s+quarter(?:\s+(?:of\s+)?\d{4})?)\b`)
)

func (r *Responder) answerDate(q string, doc *document.Bundle) (string, bool) {
	if !containsAny(q, dateTriggers...) {
		return "", false
	}
	md := doc.Metadata
	if md.CreationDate != "" && containsAny(q, "created", "creation") {
		return fmt.Sprintf("This document was created on %s.", md.CreationDate), true
	}
	if md.ModificationDate != "" && containsAny(q, "modified", "updated", "modification") {
		return fmt.Sprintf("This document was last modified on %s.", md.ModificationDate), true
	}

	for _, ld := range labeledDates {
		if m := ld.re.FindStringSubmatch(doc.Text); m != nil {
			return fmt.Sprintf(ld.format, m[1]), true
		}
	}
	if strings.Contains(q, "year") {
		if y := yearRe.FindString(doc.Text); y != "" {
			return fmt.Sprintf("The document refers to the year %s.", y), true
		}
	}
	if containsAny(q, "quarter", "q1", "q2", "q3", "q4") {
		if m := quarterRe.FindString(doc.Text); m != "" {
			return fmt.Sprintf("The document covers %s.", m), true
		}
	}
	return "I couldn't find a specific date or time period in this document.", true
}
