// Package output renders command results.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered set of columns and string rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table has no columns.
func (t *Table) Empty() bool {
	return t == nil || len(t.Headers) == 0
}

// Records returns every row as a header -> cell mapping.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// Select keeps the named columns, in the given order. Unknown names are
// ignored but at least one must be known. An empty table is left as is.
func (t *Table) Select(columns []string) error {
	if len(columns) == 0 || t.Empty() {
		return nil
	}

	index := t.index()
	picked := make([]int, 0, len(columns))
	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		if i, ok := index[c]; ok {
			picked = append(picked, i)
			headers = append(headers, c)
		}
	}
	if len(picked) == 0 {
		return fmt.Errorf("no recognized column names in %s", strings.Join(columns, ", "))
	}

	for r, row := range t.Rows {
		selected := make([]string, len(picked))
		for j, i := range picked {
			if i < len(row) {
				selected[j] = row[i]
			}
		}
		t.Rows[r] = selected
	}
	t.Headers = headers
	return nil
}

// Sort orders the rows by the named columns, the first one being the most
// significant. Unknown names are ignored. The sort is stable.
func (t *Table) Sort(columns []string, descending bool) {
	if t.Empty() {
		return
	}

	index := t.index()
	keys := make([]int, 0, len(columns))
	for _, c := range columns {
		if i, ok := index[c]; ok {
			keys = append(keys, i)
		}
	}
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, k := range keys {
			x, y := t.Rows[a][k], t.Rows[b][k]
			if x == y {
				continue
			}
			if descending {
				return x > y
			}
			return x < y
		}
		return false
	})
}

func (t *Table) index() map[string]int {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		index[h] = i
	}
	return index
}

// Columns picks table headers out of a record.
type Columns struct {
	// Preferred columns come first, in this order, when the record has them.
	Preferred []string
	// Removed columns are never displayed.
	Removed []string
}

// Headers returns the preferred keys of item followed by the remaining keys
// in alphabetical order, minus the removed ones.
func (c Columns) Headers(item map[string]any) []string {
	skip := make(map[string]bool, len(c.Preferred)+len(c.Removed))
	for _, k := range c.Removed {
		skip[k] = true
	}

	headers := make([]string, 0, len(item))
	for _, k := range c.Preferred {
		if _, ok := item[k]; ok && !skip[k] {
			headers = append(headers, k)
			skip[k] = true
		}
	}

	rest := make([]string, 0, len(item))
	for k := range item {
		if !skip[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(headers, rest...)
}

// FromItems builds a table whose headers are derived from the first item.
// No items yields an empty table.
func FromItems(items []map[string]any, cols Columns) *Table {
	if len(items) == 0 {
		return &Table{Headers: []string{}, Rows: [][]string{}}
	}

	headers := cols.Headers(items[0])
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = Cell(item[h])
		}
		rows = append(rows, row)
	}
	return &Table{Headers: headers, Rows: rows}
}

// Cell formats a JSON value for a table cell. Nested values are rendered as
// compact JSON.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool, float64, float32, int, int64, json.Number:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(string(data))
	}
}
