// Package hltparser decodes the fixed-width payroll accounting export into
// normalized ledger entries.
//
// Layout reference: the accounting interchange format of the payroll system,
// 15 positional fields per 160-byte line. Amounts are stored as signed
// integer minor units and normalized to major currency units on parse.
package hltparser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vimpact/hlt-csv/internal/dateutils"
	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
	"vimpact/hlt-csv/internal/parsererror"
)

// lineWidth is the full fixed-width record length. Lines shorter than
// minLineWidth cannot carry an amount and are structurally invalid; lines
// between the two are right-padded, which tolerates exports that trim
// trailing spaces.
const (
	lineWidth    = 160
	minLineWidth = 150
)

// span is a half-open byte range [lo, hi) within a record line.
type span struct {
	lo, hi int
}

// Column spans of the fixed-width layout. The four reserved fields
// (50..98), the filler (118..121), quantity (129..139) and rate (139..149)
// carry nothing this converter needs.
var (
	colAccount    = span{0, 12}
	colVAT        = span{12, 14}
	colDepartment = span{14, 26}
	colProject    = span{26, 38}
	colEmployee   = span{38, 50}
	colExternalID = span{98, 118}
	colDate       = span{121, 129}
	colAmount     = span{149, 160}
)

// Options are the parser's policy knobs.
type Options struct {
	// DimensionStripAccountBelow: transactions on accounts below this
	// threshold must never carry cost-object dimensions; any project set on
	// such a row is a payroll-system misconfiguration and is cleared before
	// aggregation.
	DimensionStripAccountBelow int
}

// DefaultOptions returns the current organization policy.
func DefaultOptions() Options {
	return Options{DimensionStripAccountBelow: 5900}
}

// Result carries the parsed entries plus recovery bookkeeping.
type Result struct {
	Entries      []models.LedgerEntry
	LinesRead    int
	LinesSkipped int
	Warnings     []string
}

// Parse reads fixed-width ledger lines, normalizes each into a LedgerEntry
// and aggregates fragments of split transactions. Structurally invalid lines
// are skipped and recorded as warnings; the batch never aborts on one bad
// line.
func Parse(r io.Reader, opts Options, logger logging.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	res := &Result{}
	var entries []models.LedgerEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.LinesRead++

		entry, err := parseLine(line, lineNo, opts)
		if err != nil {
			res.LinesSkipped++
			res.Warnings = append(res.Warnings, err.Error())
			logger.WithError(err).Warn("Skipping malformed ledger line",
				logging.Field{Key: logging.FieldLine, Value: lineNo})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger input: %w", err)
	}

	res.Entries = Aggregate(entries)
	logger.Info("Ledger export parsed",
		logging.Field{Key: logging.FieldCount, Value: len(res.Entries)},
		logging.Field{Key: "lines", Value: res.LinesRead},
		logging.Field{Key: "skipped", Value: res.LinesSkipped})
	return res, nil
}

// parseLine decodes one fixed-width record. A malformed date degrades to the
// unknown-date marker instead of failing the row; a malformed amount fails
// the row, since an entry without an amount is meaningless.
func parseLine(line string, lineNo int, opts Options) (models.LedgerEntry, error) {
	if len(line) < minLineWidth || len(line) > lineWidth {
		return models.LedgerEntry{}, &parsererror.ParseError{
			Line:  lineNo,
			Field: "record",
			Value: fmt.Sprintf("%d bytes", len(line)),
			Err:   fmt.Errorf("expected %d byte fixed-width record", lineWidth),
		}
	}
	if len(line) < lineWidth {
		line += strings.Repeat(" ", lineWidth-len(line))
	}

	account := models.ParseNumber(field(line, colAccount))
	vat := models.ParseNumber(field(line, colVAT))
	project := models.ParseNumber(field(line, colProject))
	externalID := models.ParseNumber(field(line, colExternalID))

	rawAmount := strings.TrimSpace(field(line, colAmount))
	minor, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return models.LedgerEntry{}, &parsererror.ParseError{
			Line:  lineNo,
			Field: "amount",
			Value: rawAmount,
			Err:   err,
		}
	}

	date, err := dateutils.ParseLedgerDate(field(line, colDate))
	if err != nil {
		// Kept as the unknown-date marker; the row itself is still valid.
		date = time.Time{}
	}

	entry := models.LedgerEntry{
		Account:    account.Int(),
		VATCode:    vat.Int(),
		Department: dimension(field(line, colDepartment)),
		Project:    project.Int(),
		Employee:   dimension(field(line, colEmployee)),
		ExternalID: externalID.Value(),
		Date:       date,
		Amount:     decimal.New(minor, -2),
	}
	applyHygiene(&entry, opts)
	return entry, nil
}

// applyHygiene clears cost-object dimensions the payroll system should never
// have emitted: projects on low accounts, and departments on rows that carry
// neither an employee nor a project.
func applyHygiene(entry *models.LedgerEntry, opts Options) {
	if entry.Account < opts.DimensionStripAccountBelow && entry.Project > 0 {
		entry.Project = 0
	}
	if entry.Employee == "" && entry.Project == 0 {
		entry.Department = ""
	}
}

// Aggregate sums the amounts of entries sharing the same aggregation tuple,
// preserving first-seen order. The payroll system occasionally splits one
// real transaction across multiple physical lines.
func Aggregate(entries []models.LedgerEntry) []models.LedgerEntry {
	index := make(map[models.AggregationKey]int, len(entries))
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		key := entry.Key()
		if i, ok := index[key]; ok {
			out[i].Amount = out[i].Amount.Add(entry.Amount)
			continue
		}
		index[key] = len(out)
		out = append(out, entry)
	}
	return out
}

func field(line string, s span) string {
	return line[s.lo:s.hi]
}

// dimension trims a text dimension cell; a literal "0" means empty.
func dimension(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "0" {
		return ""
	}
	return s
}
