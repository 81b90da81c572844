package document

import (
	"encoding/json"
	"fmt"
)

// Value is one typed cell of a parsed table row. Numeric kinds carry
// Number (percentages as fractions); date and text kinds carry Text.
type Value struct {
	Kind   ColumnType
	Number float64
	Text   string
}

// NumberValue builds a numeric value of the given kind.
func NumberValue(kind ColumnType, n float64) Value {
	return Value{Kind: kind, Number: n}
}

// TextValue builds a date or text value.
func TextValue(kind ColumnType, s string) Value {
	return Value{Kind: kind, Text: s}
}

// String renders the value for display.
func (v Value) String() string {
	if v.Kind.IsNumeric() {
		return fmt.Sprintf("%g", v.Number)
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind.IsNumeric() {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON decodes a JSON number or string. The kind is left for the
// owning table to restore from its columns (see Table.RestoreKinds).
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Kind = ColumnNumber
		v.Number = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("record value: %w", err)
	}
	v.Kind = ColumnText
	v.Text = s
	return nil
}

// Record maps column names to parsed values for one table row.
type Record map[string]Value

// RestoreKinds re-applies column types to decoded records, since the JSON
// form of a Value does not carry its kind.
func (t *Table) RestoreKinds() {
	kinds := make(map[string]ColumnType, len(t.Columns))
	for _, c := range t.Columns {
		kinds[c.Name] = c.Type
	}
	for _, rec := range t.Records {
		for name, v := range rec {
			if k, ok := kinds[name]; ok && k.IsNumeric() == v.Kind.IsNumeric() {
				v.Kind = k
				rec[name] = v
			}
		}
	}
}
