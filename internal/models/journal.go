package models

// Import document constants required by the destination system. Every entry
// of one run shares the same format marker and transaction number placeholder.
const (
	JournalFormat            = "GENERALJOURNAL:CREATE"
	JournalTransactionNumber = "#KEEP"
	JournalEntryType         = "G"
)

// JournalEntry is one row of the general-journal import document. Optional
// columns are empty strings; the importer treats empty cells as absent.
//
// AccountNumber and ActivityNumber are mutually exclusive: the ledger account
// plays the "account" role when no job is set and the "activity" role when
// one is.
type JournalEntry struct {
	Format            string `csv:"GeneralJournal:Format"`
	TransactionNumber string `csv:"TransactionNumber"`
	EntryDate         string `csv:"EntryDate"`
	EntryText         string `csv:"EntryText"`
	TypeOfEntry       string `csv:"TypeOfEntry"`
	AccountNumber     string `csv:"AccountNumber"`
	FinanceVATCode    string `csv:"FinanceVATCode"`
	DebitBase         string `csv:"DebitBase"`
	CreditBase        string `csv:"CreditBase"`
	EntityName        string `csv:"EntityName"`
	JobNumber         string `csv:"JobNumber"`
	TaskName          string `csv:"TaskName"`
	ActivityNumber    string `csv:"ActivityNumber"`
	EmployeeNumber    string `csv:"EmployeeNumber"`
}
