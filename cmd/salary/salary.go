// Package salary handles the salary interchange export command
package salary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/cmd/root"
	"vimpact/hlt-csv/internal/fileutils"
	"vimpact/hlt-csv/internal/salaryparser"
)

// Cmd represents the salary command
var Cmd = &cobra.Command{
	Use:   "salary",
	Short: "Decode a salary interchange export (SALARY.SI) to a workbook",
	Run:   salaryFunc,
}

func salaryFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	cfg := root.Cfg

	input := root.SharedFlags.Input
	if input == "" {
		input = filepath.Join(cfg.DownloadsDir(), "SALARY.SI")
	}
	output := root.SharedFlags.Output
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output = filepath.Join(filepath.Dir(input), base+".xlsx")
	}

	if !fileutils.FileExists(input) {
		root.Log.Errorf("File %s not found", input)
		root.Exit()
		return
	}
	if fileutils.FileInUse(input) || fileutils.FileInUse(output) {
		root.Log.Error("Input or output file is in use by another application. Please close it first.")
		root.Exit()
		return
	}

	file, err := os.Open(input) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		logger.WithError(err).Error("Failed to open salary export")
		root.Exit()
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			root.Log.Warnf("Failed to close file %s: %v", input, err)
		}
	}()

	result, err := salaryparser.Parse(file, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to parse salary export")
		root.Exit()
		return
	}

	if err := writeWorkbook(result, output); err != nil {
		logger.WithError(err).Error("Failed to write workbook")
		root.Exit()
		return
	}

	if !result.GeneratedAt.IsZero() {
		root.Log.Infof("Export generated %s", result.GeneratedAt.Format("2006-01-02"))
	}
	root.Log.Infof("Salary data written to %s", output)
}

// writeWorkbook writes the decoded rows headerless, matching what the
// downstream reconciliation sheet expects.
func writeWorkbook(result *salaryparser.Result, path string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range result.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("error computing cell reference: %w", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}
