// Package normalizer turns heterogeneous spreadsheet exports into clean,
// typed, sorted record sets plus their serialized renderings. One invocation
// runs load, profile resolution, column coercion, filter/sort/truncate and
// rendering as a single synchronous pipeline.
package normalizer

import (
	"fmt"
	"strings"

	"golisting/adapters/excel"
	"golisting/domain/tabular"
	"golisting/internal"
)

var logger = internal.NewLogger("Normalizer")

// Format selects the output representation
type Format string

const (
	FormatMarkdown Format = "markdown" // human/LLM-readable tabular text
	FormatJSON     Format = "json"     // machine-parseable structured text
	FormatRecords  Format = "records"  // the typed records themselves
)

// ParseFormat validates a format name coming from CLI flags or form fields
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatRecords:
		return FormatRecords, nil
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}

// Options control one pipeline invocation
type Options struct {
	Profile   string // requested profile identifier; empty auto-detects
	HeaderRow int    // zero-based label row; 0 defers to the profile default
	MaxRows   int    // truncation bound; non-positive disables truncation
	Format    Format // defaults to markdown
	Raw       bool   // bypass coercion/filter/sort and wrap loader output
}

// Report is the per-invocation coercion accounting
type Report struct {
	Profile     string    `json:"profile"`
	RowsIn      int       `json:"rows_in"`
	RowsDropped int       `json:"rows_dropped"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Result carries the normalized table, the rendered output for markdown and
// json formats, and the report
type Result struct {
	Table  tabular.Table
	Output string
	Report Report
}

// Source describes one input of a multi-source invocation
type Source struct {
	Path    string
	Profile string
	Label   string // defaults to the path
	MaxRows int    // overrides the shared bound when positive
}

// LabeledTable pairs a normalized table with its source label
type LabeledTable struct {
	Label string
	Table tabular.Table
}

// MultiResult carries the combined rendering plus per-source artifacts
type MultiResult struct {
	Output  string
	Tables  []LabeledTable
	Reports []Report
}

// Processor runs the pipeline. It holds no state: concurrent invocations are
// independent and share only the read-only profile catalog.
type Processor struct{}

func New() *Processor { return &Processor{} }

// Process loads one source, resolves its profile, cleans it and renders the
// requested representation. Structural failures surface as errors; per-cell
// coercion issues resolve through the report instead.
func (p *Processor) Process(path string, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}

	headerRow := opts.HeaderRow
	if headerRow < 0 {
		headerRow = 0
	}
	if headerRow == 0 {
		// An explicitly requested profile implies its own header offset.
		if profile, ok := tabular.Lookup(opts.Profile); ok {
			headerRow = profile.HeaderRow
		}
	}

	reader, err := excel.NewDataReader(path, headerRow)
	if err != nil {
		return nil, err
	}
	raw, err := reader.ReadData()
	if err != nil {
		return nil, err
	}

	var table tabular.Table
	var report Report
	var survived int

	if opts.Raw {
		table = wrapRaw(raw, opts.Profile, opts.MaxRows)
		report = Report{Profile: opts.Profile, RowsIn: len(raw.Rows)}
		survived = table.RowCount()
	} else {
		profile, err := tabular.Resolve(raw.Headers, opts.Profile)
		if err != nil {
			return nil, err
		}

		records, rep := coerceAll(raw, profile)
		survived = len(records)
		rows := finalize(records, profile, opts.MaxRows)
		table = tabular.Table{Columns: raw.Headers, Rows: rows, Profile: profile.Name}
		report = rep
		logger.Info("%s cleaned with profile %s (%d rows in, %d dropped, %d rendered)",
			path, profile.Name, rep.RowsIn, rep.RowsDropped, len(rows))
	}

	result := &Result{Table: table, Report: report}
	switch opts.Format {
	case FormatMarkdown:
		result.Output = renderMarkdown(table, survived)
	case FormatJSON:
		output, err := renderJSON(table)
		if err != nil {
			return nil, err
		}
		result.Output = output
	case FormatRecords:
		// the table already carries the records
	default:
		return nil, fmt.Errorf("unsupported output format: %q", opts.Format)
	}

	return result, nil
}

// ProcessMultiple cleans several sources and combines their renderings into
// one output, one tagged section per source. Each table respects its own row
// bound; maxRows fills in for sources that do not set one.
func (p *Processor) ProcessMultiple(sources []Source, format Format, maxRows int) (*MultiResult, error) {
	if format == "" {
		format = FormatMarkdown
	}
	innerFormat := format
	if format != FormatMarkdown {
		innerFormat = FormatRecords
	}

	multi := &MultiResult{}
	var markdownSections []string
	var jsonSections []fileSection

	for _, source := range sources {
		label := source.Label
		if label == "" {
			label = source.Path
		}
		bound := source.MaxRows
		if bound <= 0 {
			bound = maxRows
		}

		result, err := p.Process(source.Path, Options{
			Profile: source.Profile,
			MaxRows: bound,
			Format:  innerFormat,
		})
		if err != nil {
			return nil, fmt.Errorf("processing %s: %w", source.Path, err)
		}

		multi.Tables = append(multi.Tables, LabeledTable{Label: label, Table: result.Table})
		multi.Reports = append(multi.Reports, result.Report)

		switch format {
		case FormatMarkdown:
			markdownSections = append(markdownSections, "# File: "+label, "", result.Output, "\n---\n")
		case FormatJSON:
			jsonSections = append(jsonSections, fileSection{
				File:       label,
				FormatType: result.Table.Profile,
				Data:       rowsOrEmpty(result.Table),
			})
		}
	}

	switch format {
	case FormatMarkdown:
		multi.Output = strings.Join(markdownSections, "\n")
	case FormatJSON:
		output, err := marshalIndented(jsonSections)
		if err != nil {
			return nil, err
		}
		multi.Output = output
	case FormatRecords:
		// tables carry the records
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}

	return multi, nil
}

// wrapRaw converts loader output without coercion: cells stay strings,
// truncation still applies, empty cells read as missing.
func wrapRaw(raw *excel.RawTable, profileName string, maxRows int) tabular.Table {
	rows := raw.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	records := make([]tabular.Record, len(rows))
	for i, row := range rows {
		record := make(tabular.Record, len(raw.Headers))
		for _, column := range raw.Headers {
			if cell, ok := row[column]; ok && strings.TrimSpace(cell) != "" {
				record[column] = tabular.NewStringValue(cell)
			} else {
				record[column] = tabular.NewMissingValue()
			}
		}
		records[i] = record
	}

	return tabular.Table{Columns: raw.Headers, Rows: records, Profile: profileName}
}
