package maconomy

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
)

// Preamble is the two-row metadata block the import format requires before
// the column header: the format marker, then the transaction series and
// company identifiers.
type Preamble struct {
	FormatMarker      string
	TransactionSeries string
	Company           string
}

// DefaultPreamble returns the preamble for a company id.
func DefaultPreamble(company string) Preamble {
	return Preamble{
		FormatMarker:      models.JournalFormat,
		TransactionSeries: models.JournalTransactionNumber,
		Company:           company,
	}
}

func (p Preamble) rows() [][]string {
	return [][]string{
		{p.FormatMarker},
		{p.TransactionSeries, p.Company},
	}
}

// WriteCSV writes the document as an import-ready CSV: two preamble rows,
// then the header, then the entry rows.
func WriteCSV(doc *Document, path string, preamble Preamble, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Writing import document",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Entries)})

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	file, err := os.Create(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close output file")
		}
	}()

	if delimiter == 0 {
		delimiter = ','
	}
	writer := csv.NewWriter(file)
	writer.Comma = delimiter

	for _, row := range preamble.rows() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing preamble: %w", err)
		}
	}

	if err := gocsv.MarshalCSV(&doc.Entries, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing entry rows: %w", err)
	}

	logger.Info("Import document written",
		logging.Field{Key: logging.FieldOutputFile, Value: path})
	return nil
}

// WriteWorkbook writes the same grid as an XLSX workbook for manual review:
// preamble, header and entry rows starting at the same fixed offset as the
// CSV form.
func WriteWorkbook(doc *Document, path string, preamble Preamble, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rowNo := 1
	for _, row := range preamble.rows() {
		if err := setRow(f, sheet, rowNo, toInterfaces(row)); err != nil {
			return err
		}
		rowNo++
	}
	if err := setRow(f, sheet, rowNo, toInterfaces(headerRow())); err != nil {
		return err
	}
	rowNo++
	for _, entry := range doc.Entries {
		if err := setRow(f, sheet, rowNo, toInterfaces(entryRow(entry))); err != nil {
			return err
		}
		rowNo++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	logger.Info("Import workbook written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Entries)})
	return nil
}

// headerRow mirrors the csv tags of models.JournalEntry.
func headerRow() []string {
	return []string{
		"GeneralJournal:Format", "TransactionNumber", "EntryDate", "EntryText",
		"TypeOfEntry", "AccountNumber", "FinanceVATCode", "DebitBase",
		"CreditBase", "EntityName", "JobNumber", "TaskName", "ActivityNumber",
		"EmployeeNumber",
	}
}

func entryRow(e models.JournalEntry) []string {
	return []string{
		e.Format, e.TransactionNumber, e.EntryDate, e.EntryText,
		e.TypeOfEntry, e.AccountNumber, e.FinanceVATCode, e.DebitBase,
		e.CreditBase, e.EntityName, e.JobNumber, e.TaskName,
		e.ActivityNumber, e.EmployeeNumber,
	}
}

func setRow(f *excelize.File, sheet string, rowNo int, values []interface{}) error {
	cellRef, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("error computing cell reference: %w", err)
	}
	if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
		return fmt.Errorf("error writing row %d: %w", rowNo, err)
	}
	return nil
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// IsWorkbookPath reports whether the output should be written as XLSX.
func IsWorkbookPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
