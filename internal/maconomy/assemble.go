// Package maconomy assembles ledger entries into the general-journal import
// document and writes it as CSV or XLSX.
package maconomy

import (
	"strconv"

	"github.com/shopspring/decimal"

	"vimpact/hlt-csv/internal/dateutils"
	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
)

// Document is the assembled import document plus its balance totals.
type Document struct {
	Entries        []models.JournalEntry
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	ZeroSuppressed int
}

// Balanced reports whether debits equal credits over the whole document.
func (d *Document) Balanced() bool {
	return d.TotalDebit.Equal(d.TotalCredit)
}

// Assemble maps each ledger entry to one journal entry.
//
// The amount sign selects exactly one of DebitBase/CreditBase. The ledger
// account lands in AccountNumber when the entry has no project and in
// ActivityNumber when it has one. Zero-amount entries are a data anomaly and
// are suppressed with a warning rather than written.
func Assemble(entries []models.LedgerEntry, logger logging.Logger) *Document {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	doc := &Document{
		Entries:     make([]models.JournalEntry, 0, len(entries)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, entry := range entries {
		if entry.Amount.IsZero() {
			doc.ZeroSuppressed++
			logger.Warn("Suppressing zero-amount entry",
				logging.Field{Key: logging.FieldAccount, Value: entry.Account},
				logging.Field{Key: logging.FieldProject, Value: entry.Project})
			continue
		}
		doc.Entries = append(doc.Entries, assembleOne(entry))
		if entry.Amount.IsPositive() {
			doc.TotalDebit = doc.TotalDebit.Add(entry.Amount)
		} else {
			doc.TotalCredit = doc.TotalCredit.Add(entry.Amount.Abs())
		}
	}

	logger.Info("Import document assembled",
		logging.Field{Key: logging.FieldCount, Value: len(doc.Entries)},
		logging.Field{Key: "total_debit", Value: doc.TotalDebit.StringFixed(2)},
		logging.Field{Key: "total_credit", Value: doc.TotalCredit.StringFixed(2)})
	return doc
}

func assembleOne(entry models.LedgerEntry) models.JournalEntry {
	je := models.JournalEntry{
		Format:            models.JournalFormat,
		TransactionNumber: models.JournalTransactionNumber,
		EntryDate:         dateutils.FormatImport(entry.Date),
		EntryText:         entry.Text,
		TypeOfEntry:       models.JournalEntryType,
		EntityName:        entry.Department,
		TaskName:          entry.Task,
		EmployeeNumber:    employeeNumber(entry.Employee),
	}

	if entry.HasProject() {
		je.JobNumber = strconv.Itoa(entry.Project)
		je.ActivityNumber = strconv.Itoa(entry.Account)
	} else if entry.Account != 0 {
		je.AccountNumber = strconv.Itoa(entry.Account)
	}

	if entry.VATCode > 0 {
		je.FinanceVATCode = strconv.Itoa(entry.VATCode)
	}

	if entry.Amount.IsPositive() {
		je.DebitBase = entry.Amount.StringFixed(2)
	} else {
		je.CreditBase = entry.Amount.Abs().StringFixed(2)
	}
	return je
}

// employeeNumber filters the "no employee" sentinel the export uses.
func employeeNumber(raw string) string {
	if raw == "" || raw == "0" {
		return ""
	}
	return raw
}
