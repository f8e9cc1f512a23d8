package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"golisting/domain/tabular"
)

// renderMarkdown produces the tabular-text layout: a summary block, the pipe
// table, and a min/max/mean statistics table per numeric column computed over
// the rendered rows only. survived is the record count before truncation and
// drives the truncation note.
func renderMarkdown(table tabular.Table, survived int) string {
	var output []string

	output = append(output, "## Data Summary")
	output = append(output, fmt.Sprintf("- **Total Rows**: %d", survived))
	output = append(output, fmt.Sprintf("- **Total Columns**: %d", table.ColumnCount()))
	output = append(output, fmt.Sprintf("- **Columns**: %s", strings.Join(table.Columns, ", ")))
	output = append(output, "")

	output = append(output, "## Data Table")
	if survived > table.RowCount() {
		output = append(output, fmt.Sprintf("*Showing first %d rows out of %d total*", table.RowCount(), survived))
		output = append(output, "")
	}
	output = append(output, pipeTable(table))

	if statsTable := numericStats(table); statsTable != "" {
		output = append(output, "")
		output = append(output, "## Numeric Column Statistics")
		output = append(output, statsTable)
	}

	return strings.Join(output, "\n")
}

// pipeTable renders the records as a markdown table, one header line, one
// separator line, one line per record. Labels and values pass through
// verbatim apart from pipe escaping.
func pipeTable(table tabular.Table) string {
	header := make([]string, len(table.Columns))
	separator := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = escapeCell(column)
		separator[i] = "---"
	}

	lines := make([]string, 0, len(table.Rows)+2)
	lines = append(lines, "| "+strings.Join(header, " | ")+" |")
	lines = append(lines, "| "+strings.Join(separator, " | ")+" |")

	for _, record := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			cells[i] = escapeCell(record.Get(column).AsString())
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}

	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// numericStats renders per-column statistics. A column counts as numeric
// when at least one rendered row holds a number in it, which also keeps the
// block out of raw passthrough renderings where every cell stays a string.
func numericStats(table tabular.Table) string {
	var lines []string
	for _, column := range table.Columns {
		var data stats.Float64Data
		for _, record := range table.Rows {
			if f, ok := record.Get(column).AsFloat64(); ok {
				data = append(data, f)
			}
		}
		if len(data) == 0 {
			continue
		}

		minVal, err := stats.Min(data)
		if err != nil {
			continue
		}
		maxVal, err := stats.Max(data)
		if err != nil {
			continue
		}
		mean, err := stats.Mean(data)
		if err != nil {
			continue
		}

		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s |",
			escapeCell(column), formatStat(minVal), formatStat(maxVal), formatStat(mean)))
	}

	if len(lines) == 0 {
		return ""
	}
	header := []string{"| Column | Min | Max | Mean |", "| --- | --- | --- | --- |"}
	return strings.Join(append(header, lines...), "\n")
}

// formatStat trims float noise to six decimals
func formatStat(f float64) string {
	rounded := math.Round(f*1e6) / 1e6
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// renderJSON produces the structured-text rendering: a two-space indented
// array of record objects with non-ASCII preserved verbatim.
func renderJSON(table tabular.Table) (string, error) {
	return marshalIndented(rowsOrEmpty(table))
}

// fileSection is one per-source entry of a combined structured rendering
type fileSection struct {
	File       string           `json:"file"`
	FormatType string           `json:"format_type"`
	Data       []tabular.Record `json:"data"`
}

func rowsOrEmpty(table tabular.Table) []tabular.Record {
	if table.Rows == nil {
		return []tabular.Record{}
	}
	return table.Rows
}

// marshalIndented encodes without HTML escaping so multibyte labels and
// values survive byte-for-byte.
func marshalIndented(v interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
