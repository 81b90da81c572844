package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/findoc/internal/document"
	"github.com/dgallion1/findoc/internal/segment"
)

var isinRe = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{9}[0-9]\b`)

// ScanSecurities finds every ISIN with a valid check digit in the tables
// and text of a document. Table rows also supply the security's name and,
// where the columns say so, its quantity, price and market value.
func ScanSecurities(text string, tables []document.Table) []document.Entity {
	var out []document.Entity
	seen := make(map[string]bool)

	for _, t := range tables {
		headers := t.DisplayHeaders()
		for _, row := range t.Rows {
			for ci, cell := range row {
				isin := isinRe.FindString(cell)
				if isin == "" || seen[isin] || !document.ValidISIN(isin) {
					continue
				}
				seen[isin] = true
				out = append(out, securityFromRow(isin, ci, row, headers))
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for _, isin := range isinRe.FindAllString(line, -1) {
			if seen[isin] || !document.ValidISIN(isin) {
				continue
			}
			seen[isin] = true
			out = append(out, document.Entity{
				Type: document.EntitySecurity,
				ISIN: isin,
				Name: nameFromLine(line, isin),
			})
		}
	}
	return out
}

func securityFromRow(isin string, isinCol int, row, headers []string) document.Entity {
	e := document.Entity{Type: document.EntitySecurity, ISIN: isin}
	for i, cell := range row {
		if i == isinCol || cell == "" {
			continue
		}
		var header string
		if i < len(headers) {
			header = strings.ToLower(headers[i])
		}
		switch {
		case containsAny(header, "quantity", "qty", "units", "shares", "nominal"):
			setOnce(&e.Quantity, cell)
		case containsAny(header, "price", "rate"):
			setOnce(&e.Price, cell)
		case containsAny(header, "market value", "value", "amount"):
			setOnce(&e.MarketValue, cell)
		case containsAny(header, "ticker", "symbol"):
			setOnce(&e.Ticker, strings.ToUpper(cell))
		case isNameLike(cell):
			setOnce(&e.Name, cell)
		}
	}
	return e
}

// nameFromLine picks the first word-like cell of line other than the ISIN.
func nameFromLine(line, isin string) string {
	for _, cell := range segment.SplitCells(strings.Replace(line, isin, "  ", 1)) {
		if isNameLike(cell) {
			return cell
		}
	}
	return ""
}

// isNameLike reports cells that read as a name rather than a number or code.
func isNameLike(s string) bool {
	letters, digits := 0, 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters >= 2 && letters > digits && !isinRe.MatchString(s)
}

func setOnce(field *string, v string) {
	if *field == "" {
		*field = strings.TrimSpace(v)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
