package mapping

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/parsererror"
)

// Columns names the mapping workbook's header cells. The export's header
// names have been stable for years but remain configurable.
type Columns struct {
	Account    string
	Task       string
	Towards    string
	Assignment string
	ProjectVAT string
}

// DefaultColumns returns the header names of the standard mapping export.
func DefaultColumns() Columns {
	return Columns{
		Account:    "Account",
		Task:       "Task",
		Towards:    "Towards",
		Assignment: "Assignment",
		ProjectVAT: "Project_VAT",
	}
}

// LoadWorkbook reads the mapping dataset from the first sheet of an XLSX
// workbook. The first row is the header; columns are located by name so the
// export may carry extra columns in any order.
func LoadWorkbook(path string, cols Columns, logger logging.Logger) ([]Row, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Reading mapping workbook", logging.Field{Key: logging.FieldFile, Value: path})

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.MappingError{Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close mapping workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.MappingError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &parsererror.MappingError{Path: path, Err: err}
	}
	if len(grid) < 1 {
		return nil, &parsererror.MappingError{Path: path, Err: fmt.Errorf("workbook has no header row")}
	}

	idx := headerIndex(grid[0])
	accountCol, ok := idx[strings.ToLower(cols.Account)]
	if !ok {
		return nil, &parsererror.MappingError{
			Path: path,
			Err:  fmt.Errorf("missing column %q in header", cols.Account),
		}
	}
	taskCol := columnOrAbsent(idx, cols.Task)
	towardsCol := columnOrAbsent(idx, cols.Towards)
	assignmentCol := columnOrAbsent(idx, cols.Assignment)
	vatCol := columnOrAbsent(idx, cols.ProjectVAT)

	rows := make([]Row, 0, len(grid)-1)
	for _, line := range grid[1:] {
		row := Row{
			Account:    cell(line, accountCol),
			Task:       cell(line, taskCol),
			Towards:    cell(line, towardsCol),
			Assignment: cell(line, assignmentCol),
			ProjectVAT: cell(line, vatCol),
		}
		if row.Account == "" && row.Towards == "" && row.Assignment == "" && row.ProjectVAT == "" {
			continue
		}
		rows = append(rows, row)
	}

	logger.Info("Mapping workbook read", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

func columnOrAbsent(idx map[string]int, name string) int {
	if i, ok := idx[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func cell(line []string, i int) string {
	if i < 0 || i >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[i])
}
