// Package rules implements the account reclassification policy: VAT
// suppression and the band-driven synthesis of offsetting debit/credit pairs
// for invoiceable expenses.
package rules

// Action is what a band does to an entry that falls inside it.
type Action string

const (
	// ActionSubstitute reroutes the entry to the holding account in place.
	ActionSubstitute Action = "substitute"
	// ActionOffset keeps the entry and appends a reversal/holding pair.
	ActionOffset Action = "offset"
)

// Band is one contiguous, inclusive account range carrying a single
// reclassification policy. Holding maps a program key ("ordinary",
// "towards", "assignment") to the target holding account; Reversal is only
// set for offset bands.
type Band struct {
	Low      int            `mapstructure:"low" yaml:"low"`
	High     int            `mapstructure:"high" yaml:"high"`
	Action   Action         `mapstructure:"action" yaml:"action"`
	Reversal int            `mapstructure:"reversal" yaml:"reversal"`
	Holding  map[string]int `mapstructure:"holding" yaml:"holding"`
}

// Contains reports whether account falls inside the band.
func (b Band) Contains(account int) bool {
	return account >= b.Low && account <= b.High
}

// HoldingFor returns the holding account for a program key, or 0 when the
// band has no target configured for that program.
func (b Band) HoldingFor(key string) int {
	return b.Holding[key]
}

// Classify returns the band containing account. Bands are non-overlapping by
// construction, so at most one matches; accounts outside every band are
// non-reclassifiable and pass through the engine untouched.
func Classify(bands []Band, account int) (Band, bool) {
	for _, b := range bands {
		if b.Contains(account) {
			return b, true
		}
	}
	return Band{}, false
}

// DefaultBands is the organization's current reclassification table. The
// wage ranges 5300-5329 and 5550-5597 and the travel range 7000-7169 carry
// their own reversal accounts; the rest substitute directly.
func DefaultBands() []Band {
	return []Band{
		{Low: 5000, High: 5299, Action: ActionSubstitute,
			Holding: map[string]int{"ordinary": 4753, "towards": 4763, "assignment": 4773}},
		{Low: 5300, High: 5329, Action: ActionOffset, Reversal: 5399,
			Holding: map[string]int{"ordinary": 4755, "towards": 4765, "assignment": 4775}},
		{Low: 5330, High: 5549, Action: ActionSubstitute,
			Holding: map[string]int{"ordinary": 4753, "towards": 4763, "assignment": 4773}},
		{Low: 5550, High: 5597, Action: ActionOffset, Reversal: 5599,
			Holding: map[string]int{"ordinary": 4755, "towards": 4765, "assignment": 4775}},
		{Low: 5600, High: 5997, Action: ActionSubstitute,
			Holding: map[string]int{"ordinary": 4753, "towards": 4763, "assignment": 4773}},
		{Low: 6000, High: 6997, Action: ActionSubstitute,
			Holding: map[string]int{"ordinary": 4756, "towards": 4766, "assignment": 4776}},
		{Low: 7000, High: 7169, Action: ActionOffset, Reversal: 7199,
			Holding: map[string]int{"ordinary": 4757, "towards": 4767, "assignment": 4777}},
		{Low: 7170, High: 7997, Action: ActionSubstitute,
			Holding: map[string]int{"ordinary": 4757, "towards": 4767, "assignment": 4777}},
	}
}
