package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golisting/adapters/excel"
	"golisting/domain/tabular"
)

// Warning records one cell that could not be coerced to its declared kind.
// Warnings are non-fatal: the row-drop/defaulting rules decide the outcome
// and the caller inspects them through the Report.
type Warning struct {
	Row    int                  `json:"row"`
	Column string               `json:"column"`
	Raw    string               `json:"raw"`
	Kind   tabular.CoercionKind `json:"kind"`
}

var integerPattern = regexp.MustCompile(`^[+-]?\d+$`)

// coerceAll applies the profile's column rules to every raw row. Rows whose
// key column is missing after coercion are dropped; the report keeps the
// drops and the per-cell warnings countable.
func coerceAll(raw *excel.RawTable, profile tabular.Profile) ([]tabular.Record, Report) {
	report := Report{Profile: profile.Name, RowsIn: len(raw.Rows)}
	records := make([]tabular.Record, 0, len(raw.Rows))

	for i, row := range raw.Rows {
		record := make(tabular.Record, len(raw.Headers))
		for _, column := range raw.Headers {
			rule := profile.RuleFor(column)
			value, ok := coerceCell(row[column], rule)
			if !ok {
				report.Warnings = append(report.Warnings, Warning{
					Row: i, Column: column, Raw: row[column], Kind: rule.Kind,
				})
			}
			// Missing numerics outside the key column default to zero.
			if value.IsMissing() && rule.Kind == tabular.CoerceNumeric && column != profile.KeyColumn {
				value = tabular.NewIntValue(0)
			}
			record[column] = value
		}

		if record.Get(profile.KeyColumn).IsMissing() {
			report.RowsDropped++
			continue
		}
		records = append(records, record)
	}

	return records, report
}

// coerceCell converts one raw cell under one rule. The bool is false when a
// non-empty cell failed to parse; empty cells become missing silently.
func coerceCell(raw string, rule tabular.ColumnRule) (tabular.Value, bool) {
	trimmed := strings.TrimSpace(raw)

	switch rule.Kind {
	case tabular.CoerceNumeric:
		if trimmed == "" {
			return tabular.NewMissingValue(), true
		}
		if value, ok := parseNumeric(trimmed); ok {
			return value, true
		}
		return tabular.NewMissingValue(), false

	case tabular.CoercePercent:
		if trimmed == "" {
			return tabular.NewMissingValue(), true
		}
		body := strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
		f, err := strconv.ParseFloat(body, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return tabular.NewMissingValue(), false
		}
		return tabular.NewFloatValue(f / 100), true

	case tabular.CoerceList:
		if trimmed == "" {
			return tabular.NewListValue(nil), true
		}
		delimiter := rule.Delimiter
		if delimiter == "" {
			delimiter = ","
		}
		parts := strings.Split(trimmed, delimiter)
		elems := make([]string, 0, len(parts))
		for _, part := range parts {
			if elem := strings.TrimSpace(part); elem != "" {
				elems = append(elems, elem)
			}
		}
		return tabular.NewListValue(elems), true

	default: // pass-through text
		if trimmed == "" {
			return tabular.NewMissingValue(), true
		}
		return tabular.NewStringValue(trimmed), true
	}
}

// parseNumeric parses a cell as int or float after removing thousands
// separators. Values without a decimal component stay integers.
func parseNumeric(s string) (tabular.Value, bool) {
	cleaned := strings.NewReplacer(",", "", " ", "", " ", "").Replace(s)
	if cleaned == "" {
		return tabular.Value{}, false
	}

	if integerPattern.MatchString(cleaned) {
		if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return tabular.NewIntValue(n), true
		}
		// fall through on overflow
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return tabular.Value{}, false
	}
	return tabular.NewFloatValue(f), true
}
