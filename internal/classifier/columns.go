package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
	"github.com/dgallion1/findoc/internal/llm"
)

// columnRules are checked in order; the first substring hit wins.
var columnRules = []struct {
	words []string
	typ   document.ColumnType
}{
	{[]string{"date", "time"}, document.ColumnDate},
	{[]string{"price", "value", "amount"}, document.ColumnCurrency},
	{[]string{"quantity", "number", "count"}, document.ColumnNumber},
	{[]string{"percentage", "percent", "%"}, document.ColumnPercentage},
}

func inferColumnType(header string) document.ColumnType {
	lower := strings.ToLower(header)
	for _, r := range columnRules {
		for _, w := range r.words {
			if strings.Contains(lower, w) {
				return r.typ
			}
		}
	}
	return document.ColumnText
}

func inferColumns(headers []string) []document.Column {
	cols := make([]document.Column, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, document.Column{Name: h, Type: inferColumnType(h), Index: i})
	}
	return cols
}

var errNoColumns = errors.New("no columns in reply")

// parseColumns decodes a model reply into columns. Every object must carry
// name, type and index, the type must be known, and the indices must be
// 0..n-1 once sorted.
func parseColumns(reply string) ([]document.Column, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(llm.StripCodeBlock(reply)), &raw); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	if len(raw) == 0 {
		return nil, errNoColumns
	}

	cols := make([]document.Column, 0, len(raw))
	for i, obj := range raw {
		var name, typ string
		var index int
		for _, key := range []string{"name", "type", "index"} {
			if _, ok := obj[key]; !ok {
				return nil, fmt.Errorf("column %d: missing %q", i, key)
			}
		}
		if err := json.Unmarshal(obj["name"], &name); err != nil {
			return nil, fmt.Errorf("column %d name: %w", i, err)
		}
		if err := json.Unmarshal(obj["type"], &typ); err != nil {
			return nil, fmt.Errorf("column %d type: %w", i, err)
		}
		if err := json.Unmarshal(obj["index"], &index); err != nil {
			return nil, fmt.Errorf("column %d index: %w", i, err)
		}
		ct, ok := document.ParseColumnType(typ)
		if !ok {
			return nil, fmt.Errorf("column %d: unknown type %q", i, typ)
		}
		cols = append(cols, document.Column{Name: strings.TrimSpace(name), Type: ct, Index: index})
	}

	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Index < cols[j].Index })
	if !document.ValidColumns(cols) {
		return nil, errors.New("column indices are not contiguous from 0")
	}
	return cols, nil
}
