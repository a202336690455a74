package expense

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/parsererror"
)

// Splice combines the two payroll report workbooks (per-account cost-carrier
// and detailed) side by side into one reconciliation overview workbook, with
// derived key columns that make the rows joinable against the accounting
// export: account prefix of the account string, project prefix, the
// department token and the employee prefix of the campaign cell.
func Splice(accountPath, detailPath, outputPath string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Splicing payroll report workbooks",
		logging.Field{Key: "account_file", Value: accountPath},
		logging.Field{Key: "detail_file", Value: detailPath})

	accountRows, err := sheetRows(accountPath, logger)
	if err != nil {
		return err
	}
	detailRows, err := sheetRows(detailPath, logger)
	if err != nil {
		return err
	}

	header := []interface{}{
		"Period", "Employee", "Debit", "AccountString", "Department",
		"Project", "Campaign", "Account", "ProjectNo", "Dept", "EmpPrefix",
		"Amount", "Text", "ClaimID",
	}

	out := excelize.NewFile()
	sheet := out.GetSheetName(0)
	if err := out.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	// Both exports start with two title rows followed by the header.
	accountData := dataRows(accountRows, 3)
	detailData := dataRows(detailRows, 3)
	n := len(accountData)
	if len(detailData) > n {
		n = len(detailData)
	}

	for i := 0; i < n; i++ {
		row := make([]interface{}, 0, len(header))
		var acct []string
		if i < len(accountData) {
			acct = accountData[i]
		}
		// Per-account export columns: period, employee, _, debit, _,
		// account string, department, project, campaign.
		accountString := cell(acct, 5)
		department := cell(acct, 6)
		project := cell(acct, 7)
		campaign := cell(acct, 8)
		row = append(row,
			cell(acct, 0), cell(acct, 1), cell(acct, 3),
			accountString, department, project, campaign,
			prefix(accountString, 4), prefix(project, 5),
			firstToken(department), prefix(campaign, 3),
		)
		var det []string
		if i < len(detailData) {
			det = detailData[i]
		}
		// Detailed export columns of interest: amount, text, claim id.
		row = append(row, cell(det, 3), cell(det, 4), cell(det, 5))

		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("error computing cell reference: %w", err)
		}
		if err := out.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := out.SaveAs(outputPath); err != nil {
		return fmt.Errorf("error writing spliced workbook: %w", err)
	}
	logger.Info("Spliced workbook written",
		logging.Field{Key: logging.FieldOutputFile, Value: outputPath},
		logging.Field{Key: logging.FieldCount, Value: n})
	return nil
}

func sheetRows(path string, logger logging.Logger) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.SourceError{Path: path, Reason: "cannot open workbook", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.SourceError{Path: path, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &parsererror.SourceError{Path: path, Reason: "cannot read sheet", Err: err}
	}
	return rows, nil
}

func dataRows(rows [][]string, skip int) [][]string {
	if len(rows) <= skip {
		return nil
	}
	return rows[skip:]
}

// prefix cuts the first n characters, not bytes; department and campaign
// cells carry Norwegian letters.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
