package tabular

// Record is one normalized output row: column label to typed value
type Record map[string]Value

// Get returns the value for a column, missing when the column is absent
func (r Record) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return NewMissingValue()
}

// Table is the final artifact of one pipeline invocation: an ordered record
// sequence sorted by the resolved profile's sort key, already truncated.
// Built fresh per invocation and owned by the caller; never cached.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
	Profile string   `json:"profile,omitempty"`
}

// RowCount returns the number of records
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns
func (t Table) ColumnCount() int {
	return len(t.Columns)
}

// SortKeyValue returns the numeric sort key for one record and whether the
// record actually carries one. Sorting treats absent keys as ranking below
// every real number.
func SortKeyValue(r Record, sortKey string) (float64, bool) {
	v := r.Get(sortKey)
	if f, ok := v.AsFloat64(); ok {
		return f, true
	}
	return 0, false
}
