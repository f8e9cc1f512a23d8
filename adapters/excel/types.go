package excel

// RawRow represents one as-loaded row as string key-value pairs
type RawRow map[string]string

// RawTable is the as-loaded spreadsheet: column labels from the configured
// header row plus every data row after it, all cells kept as raw strings.
// Immutable once returned by the reader.
type RawTable struct {
	Headers []string // Column labels in sheet order
	Rows    []RawRow // Data rows
	Path    string   // Source the table was loaded from
}
