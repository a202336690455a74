package rules

import (
	"vimpact/hlt-csv/internal/logging"
	"vimpact/hlt-csv/internal/mapping"
	"vimpact/hlt-csv/internal/models"
	"vimpact/hlt-csv/internal/parsererror"
)

// Policy is the configured reclassification policy.
type Policy struct {
	// RealProjectThreshold separates true client/cost projects from payroll
	// noise; only projects above it are reclassified.
	RealProjectThreshold int `mapstructure:"real_project_threshold" yaml:"real_project_threshold"`
	Bands                []Band `mapstructure:"bands" yaml:"bands"`
}

// DefaultPolicy returns the organization's current policy.
func DefaultPolicy() Policy {
	return Policy{
		RealProjectThreshold: 30000,
		Bands:                DefaultBands(),
	}
}

// Engine applies the reclassification policy per ledger entry. It consumes a
// sequence and produces a new one; synthesized entries are appended after the
// originals, never mutated back into a shared structure.
type Engine struct {
	policy   Policy
	resolver *mapping.Resolver
	log      logging.Logger
}

// NewEngine builds an engine over an immutable mapping resolver.
func NewEngine(policy Policy, resolver *mapping.Resolver, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if len(policy.Bands) == 0 {
		policy.Bands = DefaultBands()
	}
	return &Engine{policy: policy, resolver: resolver, log: logger}
}

// Apply runs the two policy passes and returns the expanded entry set plus
// the number of synthesized entries.
//
// Pass A suppresses VAT codes on entries whose project is not VAT-eligible.
// The payroll system allows VAT codes on projects that must never carry VAT
// for statutory reasons; the suppression is a safety net, not a per-entry
// business choice.
//
// Pass B reclassifies entries on real projects by account band: substitution
// bands reroute the entry's account to a holding account in place, offset
// bands keep the original and append a reversal/holding pair that nets to
// zero. Accounts outside every band pass through untouched.
func (e *Engine) Apply(entries []models.LedgerEntry) ([]models.LedgerEntry, int, error) {
	out := append([]models.LedgerEntry(nil), entries...)

	for i := range out {
		if out[i].VATCode != 0 && !e.resolver.VATEligible(out[i].Project) {
			e.log.Debug("Suppressing VAT code on non-VAT project",
				logging.Field{Key: logging.FieldAccount, Value: out[i].Account},
				logging.Field{Key: logging.FieldProject, Value: out[i].Project})
			out[i].VATCode = 0
		}
	}

	var synthesized []models.LedgerEntry
	for i := range out {
		entry := out[i]
		if entry.Project <= e.policy.RealProjectThreshold {
			continue
		}

		band, ok := Classify(e.policy.Bands, entry.Account)
		if !ok {
			continue
		}
		key := e.resolver.ProgramFor(entry.Project).HoldingKey()
		holding := band.HoldingFor(key)
		if holding == 0 {
			e.log.Warn("Band has no holding account for program; entry passed through",
				logging.Field{Key: logging.FieldAccount, Value: entry.Account},
				logging.Field{Key: logging.FieldBand, Value: band.Low},
				logging.Field{Key: "program", Value: key})
			continue
		}

		switch band.Action {
		case ActionSubstitute:
			out[i].Account = holding
		case ActionOffset:
			reversal := entry
			reversal.Account = band.Reversal
			reversal.Amount = entry.Amount.Neg()

			debit := entry
			debit.Account = holding
			debit.Amount = entry.Amount.Abs()

			if net := reversal.Amount.Add(debit.Amount); !net.IsZero() {
				return nil, 0, &parsererror.UnbalancedError{
					Account: entry.Account,
					Project: entry.Project,
					Net:     net.StringFixed(2),
				}
			}
			synthesized = append(synthesized, reversal, debit)
		default:
			e.log.Warn("Unknown band action; entry passed through",
				logging.Field{Key: logging.FieldBand, Value: band.Low},
				logging.Field{Key: logging.FieldReason, Value: string(band.Action)})
		}
	}

	if len(synthesized) > 0 {
		e.log.Info("Synthesized offset entries",
			logging.Field{Key: logging.FieldCount, Value: len(synthesized)})
	}
	return append(out, synthesized...), len(synthesized), nil
}
