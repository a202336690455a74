package maconomy

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewLogrusAdapter("error", "text")
}

func ledgerEntry(account, project int, amount string) models.LedgerEntry {
	return models.LedgerEntry{
		Account:    account,
		Department: "200",
		Project:    project,
		Employee:   "118",
		Date:       time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.RequireFromString(amount),
		Text:       "Taxi receipt (42)",
	}
}

func TestAssembleDebitCreditSplit(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "1234.56"),
		ledgerEntry(2940, 0, "-1234.56"),
	}, testLogger())

	require.Len(t, doc.Entries, 2)

	debit := doc.Entries[0]
	assert.Equal(t, "1234.56", debit.DebitBase)
	assert.Empty(t, debit.CreditBase)

	credit := doc.Entries[1]
	assert.Equal(t, "1234.56", credit.CreditBase)
	assert.Empty(t, credit.DebitBase)

	assert.True(t, doc.Balanced())
	assert.True(t, doc.TotalDebit.Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, doc.TotalCredit.Equal(decimal.RequireFromString("1234.56")))
}

func TestAssembleAccountPlacement(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "100.00"), // project entry
		ledgerEntry(2940, 0, "100.00"),     // finance entry
	}, testLogger())
	require.Len(t, doc.Entries, 2)

	project := doc.Entries[0]
	assert.Empty(t, project.AccountNumber)
	assert.Equal(t, "7140", project.ActivityNumber)
	assert.Equal(t, "40000", project.JobNumber)

	finance := doc.Entries[1]
	assert.Equal(t, "2940", finance.AccountNumber)
	assert.Empty(t, finance.ActivityNumber)
	assert.Empty(t, finance.JobNumber)
}

func TestAssembleConstantFields(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{ledgerEntry(7140, 40000, "100.00")}, testLogger())
	require.Len(t, doc.Entries, 1)

	e := doc.Entries[0]
	assert.Equal(t, "GENERALJOURNAL:CREATE", e.Format)
	assert.Equal(t, "#KEEP", e.TransactionNumber)
	assert.Equal(t, "G", e.TypeOfEntry)
	assert.Equal(t, "05/11/2024", e.EntryDate)
	assert.Equal(t, "Taxi receipt (42)", e.EntryText)
	assert.Equal(t, "200", e.EntityName)
	assert.Equal(t, "118", e.EmployeeNumber)
}

func TestAssembleVATCode(t *testing.T) {
	withVAT := ledgerEntry(7140, 40000, "100.00")
	withVAT.VATCode = 5
	doc := Assemble([]models.LedgerEntry{
		withVAT,
		ledgerEntry(7140, 40000, "100.00"),
	}, testLogger())
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "5", doc.Entries[0].FinanceVATCode)
	assert.Empty(t, doc.Entries[1].FinanceVATCode)
}

func TestAssembleSuppressesZeroAmounts(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "100.00"),
		ledgerEntry(7140, 40000, "0.00"),
	}, testLogger())
	assert.Len(t, doc.Entries, 1)
	assert.Equal(t, 1, doc.ZeroSuppressed)
}

func TestAssembleEmployeeSentinel(t *testing.T) {
	e := ledgerEntry(7140, 40000, "100.00")
	e.Employee = "0"
	doc := Assemble([]models.LedgerEntry{e}, testLogger())
	require.Len(t, doc.Entries, 1)
	assert.Empty(t, doc.Entries[0].EmployeeNumber)
}

func TestBalancedDetectsImbalance(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "100.00"),
		ledgerEntry(2940, 0, "-99.99"),
	}, testLogger())
	assert.False(t, doc.Balanced())
}

func TestWriteCSV(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "1234.56"),
		ledgerEntry(2940, 0, "-1234.56"),
	}, testLogger())

	path := filepath.Join(t.TempDir(), "out", "journal.csv")
	preamble := DefaultPreamble("971274190")
	require.NoError(t, WriteCSV(doc, path, preamble, ';', testLogger()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5) // preamble (2) + header + 2 entries

	assert.Equal(t, []string{"GENERALJOURNAL:CREATE"}, rows[0])
	assert.Equal(t, []string{"#KEEP", "971274190"}, rows[1])
	assert.Equal(t, "GeneralJournal:Format", rows[2][0])
	assert.Equal(t, "EmployeeNumber", rows[2][13])

	assert.Equal(t, "GENERALJOURNAL:CREATE", rows[3][0])
	assert.Equal(t, "1234.56", rows[3][7])  // DebitBase
	assert.Equal(t, "1234.56", rows[4][8])  // CreditBase
	assert.Equal(t, "05/11/2024", rows[3][2])
}

func TestWriteCSVDeterministic(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "1234.56"),
		ledgerEntry(2940, 0, "-1234.56"),
	}, testLogger())

	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	preamble := DefaultPreamble("971274190")
	require.NoError(t, WriteCSV(doc, first, preamble, ',', testLogger()))
	require.NoError(t, WriteCSV(doc, second, preamble, ',', testLogger()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteWorkbook(t *testing.T) {
	doc := Assemble([]models.LedgerEntry{
		ledgerEntry(7140, 40000, "1234.56"),
	}, testLogger())

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, WriteWorkbook(doc, path, DefaultPreamble("971274190"), testLogger()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	grid, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, grid, 4)
	assert.Equal(t, "GENERALJOURNAL:CREATE", grid[0][0])
	assert.Equal(t, "#KEEP", grid[1][0])
	assert.Equal(t, "GeneralJournal:Format", grid[2][0])
	assert.Equal(t, "1234.56", grid[3][7])
}

func TestIsWorkbookPath(t *testing.T) {
	assert.True(t, IsWorkbookPath("journal.xlsx"))
	assert.True(t, IsWorkbookPath("JOURNAL.XLSX"))
	assert.False(t, IsWorkbookPath("journal.csv"))
	assert.False(t, IsWorkbookPath("journal"))
}
