// Package expense loads the travel/expense detail report and enriches ledger
// entries with human-readable transaction text.
package expense

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
	"vimpact/hlt-csv/internal/parsererror"
)

// Record is one deduplicated report row: free text keyed by the expense
// claim's external id.
type Record struct {
	ExternalID int64
	Text       string
}

// Columns names the report's header cells.
type Columns struct {
	Text       string
	ExternalID string
	WageType   string
	Employee   string
}

// DefaultColumns returns the header names of the standard payroll detail
// report export.
func DefaultColumns() Columns {
	return Columns{
		Text:       "Tekst",
		ExternalID: "Reiseregning ID",
		WageType:   "Lønnsart",
		Employee:   "Ansattnummer",
	}
}

// Options tune report interpretation.
type Options struct {
	Columns Columns
	// AdvanceWageTypePrefix: rows whose wage type starts with this prefix are
	// salary advances; they carry no claim id, so the employee number stands
	// in as both text and join key.
	AdvanceWageTypePrefix string
}

// DefaultOptions returns the current report interpretation policy.
func DefaultOptions() Options {
	return Options{
		Columns:               DefaultColumns(),
		AdvanceWageTypePrefix: "13120",
	}
}

// Set is the deduplicated report, indexed for the enrichment join.
type Set struct {
	byID map[int64]string
}

// NewSet deduplicates records by (text, id) with first-value aggregation and
// indexes them by id. When several texts collapse onto one id, the first
// occurrence wins.
func NewSet(records []Record) *Set {
	type pair struct {
		id   int64
		text string
	}
	seen := make(map[pair]struct{}, len(records))
	byID := make(map[int64]string, len(records))
	for _, rec := range records {
		p := pair{id: rec.ExternalID, text: rec.Text}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if _, ok := byID[rec.ExternalID]; !ok && rec.ExternalID != 0 {
			byID[rec.ExternalID] = rec.Text
		}
	}
	return &Set{byID: byID}
}

// Lookup returns the report text for an external id.
func (s *Set) Lookup(id int64) (string, bool) {
	text, ok := s.byID[id]
	return text, ok
}

// Len returns the number of distinct join keys.
func (s *Set) Len() int {
	return len(s.byID)
}

// LoadWorkbook reads the report from the first sheet of an XLSX workbook.
// The sheet carries one title row, then the header row, then data; columns
// are located by header name and extra columns are ignored.
func LoadWorkbook(path string, opts Options, logger logging.Logger) (*Set, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Reading expense report workbook",
		logging.Field{Key: logging.FieldFile, Value: path})

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.SourceError{Path: path, Reason: "cannot open report workbook", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close report workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.SourceError{Path: path, Reason: "workbook has no sheets"}
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &parsererror.SourceError{Path: path, Reason: "cannot read sheet", Err: err}
	}
	if len(grid) < 2 {
		return nil, &parsererror.SourceError{Path: path, Reason: "report has no header row"}
	}

	records, err := recordsFromGrid(grid, opts)
	if err != nil {
		return nil, &parsererror.SourceError{Path: path, Reason: "unexpected report layout", Err: err}
	}

	set := NewSet(records)
	logger.Info("Expense report read",
		logging.Field{Key: logging.FieldCount, Value: set.Len()})
	return set, nil
}

// recordsFromGrid interprets the sheet grid: grid[0] is the export title,
// grid[1] the header, the rest data.
func recordsFromGrid(grid [][]string, opts Options) ([]Record, error) {
	header := grid[1]
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	textCol, ok := idx[strings.ToLower(opts.Columns.Text)]
	if !ok {
		return nil, fmt.Errorf("missing column %q in header", opts.Columns.Text)
	}
	idCol, ok := idx[strings.ToLower(opts.Columns.ExternalID)]
	if !ok {
		return nil, fmt.Errorf("missing column %q in header", opts.Columns.ExternalID)
	}
	wageCol := -1
	if i, ok := idx[strings.ToLower(opts.Columns.WageType)]; ok {
		wageCol = i
	}
	employeeCol := -1
	if i, ok := idx[strings.ToLower(opts.Columns.Employee)]; ok {
		employeeCol = i
	}

	var records []Record
	for _, line := range grid[2:] {
		text := cell(line, textCol)
		idRaw := cell(line, idCol)

		if wageCol >= 0 && employeeCol >= 0 && opts.AdvanceWageTypePrefix != "" {
			if strings.HasPrefix(cell(line, wageCol), opts.AdvanceWageTypePrefix) {
				text = cell(line, employeeCol)
				idRaw = cell(line, employeeCol)
			}
		}

		id := models.ParseNumber(idRaw)
		if text == "" && !id.Present() {
			continue
		}
		records = append(records, Record{ExternalID: id.Value(), Text: text})
	}
	return records, nil
}

func cell(line []string, i int) string {
	if i < 0 || i >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[i])
}
