// Package salaryparser decodes the salary interchange export (SALARY.SI), a
// brace-and-quote tokenized text format: a generation-date header block
// followed by data records from a fixed line offset.
package salaryparser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
	"vimpact/hlt-csv/internal/parsererror"
)

const (
	// generationLine is the 0-based header line carrying "#GEN yyyymmdd".
	generationLine = 3
	// dataStartLine is the 0-based line where data records begin.
	dataStartLine = 15

	generationDateLayout = "20060102"
)

// Selected raw columns, in output order: employee, wage code and the three
// trailing value columns. The remaining columns of the export are constants
// the destination does not need.
var keepColumns = []int{1, 5, 9, 10, 11}

// Row is one normalized salary record: the kept columns with numeric and
// date cells canonicalized.
type Row []string

// Result carries the decoded export.
type Result struct {
	GeneratedAt time.Time
	Rows        []Row
}

// Parse decodes the export. Records that tokenize to fewer columns than the
// selection needs are skipped with a warning.
func Parse(r io.Reader, logger logging.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading salary export: %w", err)
	}
	if len(lines) <= dataStartLine {
		return nil, &parsererror.ParseError{
			Line:  len(lines),
			Field: "file",
			Value: fmt.Sprintf("%d lines", len(lines)),
			Err:   fmt.Errorf("salary export shorter than data offset %d", dataStartLine+1),
		}
	}

	res := &Result{}
	if generated, err := parseGeneration(lines[generationLine]); err != nil {
		logger.WithError(err).Warn("Salary export has no readable generation date")
	} else {
		res.GeneratedAt = generated
	}

	for i, line := range lines[dataStartLine:] {
		lineNo := dataStartLine + i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// An empty brace group stands for four empty values.
		line = strings.ReplaceAll(line, "{}", `{"" "" "" ""}`)
		line = strings.ReplaceAll(line, "{", "")
		line = strings.ReplaceAll(line, "}", "")

		parts := tokenize(line)
		row, err := selectColumns(parts)
		if err != nil {
			logger.WithError(err).Warn("Skipping short salary record",
				logging.Field{Key: logging.FieldLine, Value: lineNo})
			continue
		}
		res.Rows = append(res.Rows, row)
	}

	logger.Info("Salary export parsed",
		logging.Field{Key: logging.FieldCount, Value: len(res.Rows)})
	return res, nil
}

func parseGeneration(line string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 || fields[0] != "#GEN" {
		return time.Time{}, fmt.Errorf("expected '#GEN <date>' header, got %q", line)
	}
	t, err := time.Parse(generationDateLayout, fields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse generation date %q: %w", fields[1], err)
	}
	return t, nil
}

// selectColumns picks the kept columns and canonicalizes them: columns 0, 2
// and 3 of the selection are numeric, column 4 is a yyyymmdd date.
func selectColumns(parts []string) (Row, error) {
	maxIdx := keepColumns[len(keepColumns)-1]
	if len(parts) <= maxIdx {
		return nil, fmt.Errorf("record has %d columns, need %d", len(parts), maxIdx+1)
	}
	row := make(Row, 0, len(keepColumns))
	for _, idx := range keepColumns {
		row = append(row, strings.TrimSpace(parts[idx]))
	}
	row[0] = models.ParseNumber(row[0]).String()
	row[2] = models.ParseNumber(row[2]).String()
	row[3] = models.ParseNumber(row[3]).String()
	if t, err := time.Parse(generationDateLayout, row[4]); err == nil {
		row[4] = t.Format("2006-01-02")
	} else {
		row[4] = ""
	}
	return row, nil
}

// tokenize splits a record on spaces, keeping quoted strings together and
// turning each quoted pair into one value (empty quotes become an empty
// value).
func tokenize(line string) []string {
	var parts []string
	var current []rune
	inQuotes := false
	previousWasSpace := false

	for _, ch := range line {
		switch {
		case ch == '"':
			if inQuotes {
				parts = append(parts, string(current))
				current = current[:0]
			} else {
				if len(current) > 0 {
					parts = append(parts, string(current))
					current = current[:0]
				}
			}
			inQuotes = !inQuotes
			previousWasSpace = false
		case ch == ' ' && !inQuotes:
			if !previousWasSpace {
				if len(current) > 0 {
					parts = append(parts, string(current))
					current = current[:0]
				}
				previousWasSpace = true
			}
		default:
			current = append(current, ch)
			previousWasSpace = false
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
