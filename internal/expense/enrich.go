package expense

import (
	"fmt"
	"strings"
	"time"

	"vimpact/hlt-csv/internal/dateutils"
	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/models"
)

// PayrollMarker is the token identifying plain payroll postings in entry
// text. Marker-bearing texts are never suffixed with a claim id.
const PayrollMarker = "Payroll"

// Enrich joins report text onto ledger entries by external id and returns a
// new entry sequence.
//
// Entries without a matching report row get a synthesized
// "Payroll (<date>)" text. Texts that carry the payroll marker are used
// as-is; any other looked-up text gets the external id appended in
// parentheses for traceability back to the claim.
func Enrich(entries []models.LedgerEntry, set *Set, marker string, logger logging.Logger) []models.LedgerEntry {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if marker == "" {
		marker = PayrollMarker
	}

	out := append([]models.LedgerEntry(nil), entries...)
	misses := 0
	for i := range out {
		text, ok := set.Lookup(out[i].ExternalID)
		if !ok {
			text = fallbackText(marker, out[i].Date)
			misses++
		}
		if !strings.Contains(text, marker) && out[i].ExternalID != 0 {
			text = fmt.Sprintf("%s (%d)", text, out[i].ExternalID)
		}
		out[i].Text = text
	}

	logger.Info("Entry texts enriched",
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: "synthesized", Value: misses})
	return out
}

// fallbackText synthesizes the payroll text for entries with no report row.
// Rows carrying the unknown-date marker get the bare marker.
func fallbackText(marker string, date time.Time) string {
	if date.IsZero() {
		return marker
	}
	return fmt.Sprintf("%s (%s)", marker, dateutils.FormatISO(date))
}
