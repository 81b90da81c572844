package classifier

import (
	"regexp"
	"strconv"

	"github.com/dgallion1/findoc/internal/document"
)

var (
	nonNumericRe = regexp.MustCompile(`[^\d.-]`)
	leadingNumRe = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// parseRecord converts the first min(len(columns), len(cells)) cells by
// column type. Numeric cells that hold no number are left out.
func parseRecord(columns []document.Column, cells []string) document.Record {
	n := min(len(columns), len(cells))
	rec := make(document.Record, n)
	for i := 0; i < n; i++ {
		col := columns[i]
		cell := cells[i]
		switch col.Type {
		case document.ColumnNumber, document.ColumnCurrency:
			if v, ok := parseNumber(cell); ok {
				rec[col.Name] = document.NumberValue(col.Type, v)
			}
		case document.ColumnPercentage:
			if v, ok := parseNumber(cell); ok {
				rec[col.Name] = document.NumberValue(col.Type, v/100)
			}
		default:
			rec[col.Name] = document.TextValue(col.Type, cell)
		}
	}
	return rec
}

// parseNumber keeps only digits, '.' and '-' and reads the longest leading
// decimal, so "$1,234.50" is 1234.5 and "12-5" is 12.
func parseNumber(cell string) (float64, bool) {
	digits := leadingNumRe.FindString(nonNumericRe.ReplaceAllString(cell, ""))
	if digits == "" || digits == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
