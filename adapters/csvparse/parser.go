// Package csvparse turns delimited text into a typed record view. Cells are
// dynamically typed: empty fields become null, parseable finite numbers
// become numeric cells, everything else stays a string. Per-row defects are
// tolerated and counted; delimiter-level defects fail the parse.
package csvparse

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/errors"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// Parser implements ports.RecordParser over encoding/csv.
type Parser struct {
	logger *internal.Logger
}

// New creates a parser.
func New(logger *internal.Logger) *Parser {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Parser{logger: logger.Tagged("Parser")}
}

// Parse reads the text into a record view. The first row is the header and
// fixes the column set.
func (p *Parser) Parse(text string, opts ports.ParseOptions) (*dataset.Table, ports.ParseStats, error) {
	stats := ports.ParseStats{}

	delimiter, err := delimiterRune(opts.Delimiter)
	if err != nil {
		return nil, stats, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, stats, errors.ParseError("could not read header row", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var rows [][]dataset.Cell
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Row-level defect (bad quoting and the like): tolerate,
			// count, continue.
			stats.RowErrors++
			continue
		}
		if opts.SkipEmptyLines && isEmptyRecord(record) {
			stats.SkippedRows++
			continue
		}
		if len(record) != len(columns) {
			stats.RowErrors++
			continue
		}
		row := make([]dataset.Cell, len(record))
		for i, field := range record {
			row[i] = CoerceField(field)
		}
		rows = append(rows, row)
	}

	table, err := dataset.New(columns, rows)
	if err != nil {
		return nil, stats, errors.ParseError("invalid record shape", err)
	}
	if stats.RowErrors > 0 {
		p.logger.Warn("tolerated %d malformed row(s)", stats.RowErrors)
	}
	return table, stats, nil
}

// delimiterRune validates the delimiter option. More than one rune, a quote
// or a line break is a caller error, surfaced as validation.
func delimiterRune(delimiter string) (rune, error) {
	if delimiter == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, errors.ValidationError("delimiter must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '\n' || r == '\r' || r == '"' {
		return 0, errors.ValidationError("delimiter cannot be a quote or line break")
	}
	return r, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// CoerceField applies dynamic typing to one raw field: empty → null,
// finite number → numeric, otherwise string.
func CoerceField(field string) dataset.Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return dataset.Null()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return dataset.Number(v)
		}
	}
	return dataset.String(trimmed)
}
