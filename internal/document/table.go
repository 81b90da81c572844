package document

import (
	"strconv"
	"strings"
)

// TableType is the classification of an extracted financial table.
type TableType string

const (
	TableSecurities   TableType = "securities_table"
	TableTransactions TableType = "transactions_table"
	TablePerformance  TableType = "performance_table"
	TableAllocation   TableType = "allocation_table"
	TableSummary      TableType = "summary_table"
	TableUnknown      TableType = "unknown"
)

// TableTypes returns the classifiable types in evaluation order.
// Ties during keyword scoring resolve to the earliest entry.
func TableTypes() []TableType {
	return []TableType{TableSecurities, TableTransactions, TablePerformance, TableAllocation, TableSummary}
}

// ParseTableType accepts one of the five classifiable type names, ignoring
// case and surrounding whitespace. "unknown" is not accepted.
func ParseTableType(s string) (TableType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range TableTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return TableUnknown, false
}

// ColumnType is the inferred value type of a table column.
type ColumnType string

const (
	ColumnText       ColumnType = "text"
	ColumnNumber     ColumnType = "number"
	ColumnDate       ColumnType = "date"
	ColumnCurrency   ColumnType = "currency"
	ColumnPercentage ColumnType = "percentage"
)

// ParseColumnType maps a type name to a ColumnType.
func ParseColumnType(s string) (ColumnType, bool) {
	switch ColumnType(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnText:
		return ColumnText, true
	case ColumnNumber:
		return ColumnNumber, true
	case ColumnDate:
		return ColumnDate, true
	case ColumnCurrency:
		return ColumnCurrency, true
	case ColumnPercentage:
		return ColumnPercentage, true
	}
	return ColumnText, false
}

// IsNumeric reports whether cells of this type are parsed to numbers.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnNumber || t == ColumnCurrency || t == ColumnPercentage
}

// Column describes one column of a table.
type Column struct {
	Name  string     `json:"name"`
	Type  ColumnType `json:"type"`
	Index int        `json:"index"`
}

// ValidColumns reports whether column indices are unique, contiguous and
// start at zero, in slice order.
func ValidColumns(cols []Column) bool {
	for i, c := range cols {
		if c.Index != i {
			return false
		}
	}
	return true
}

// TableContext holds the document text surrounding a table.
type TableContext struct {
	Title      string `json:"title,omitempty"`
	Footnotes  string `json:"footnotes,omitempty"`
	TextBefore string `json:"text_before"`
	TextAfter  string `json:"text_after"`
}

// Table is a classified table with typed, parsed rows.
type Table struct {
	Title   string       `json:"title,omitempty"`
	Headers []string     `json:"headers"`
	Rows    [][]string   `json:"rows"`
	Type    TableType    `json:"table_type"`
	Columns []Column     `json:"columns"`
	Records []Record     `json:"records"`
	Context TableContext `json:"context"`
}

// DisplayHeaders returns the header row used when rendering the table:
// the raw headers if present, else the column names, else generated labels
// sized to the widest row.
func (t Table) DisplayHeaders() []string {
	if len(t.Headers) > 0 {
		return t.Headers
	}
	if len(t.Columns) > 0 {
		names := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
		}
		return names
	}
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	names := make([]string, width)
	for i := range names {
		names[i] = "Column " + strconv.Itoa(i+1)
	}
	return names
}
