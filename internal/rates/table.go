package rates

// Pair identifies a directed currency conversion.
type Pair struct {
	Base  string
	Quote string
}

// Table is a static fallback rate matrix. It is read-only once built.
type Table struct {
	rates map[Pair]float64
}

// NewTable copies entries into a new Table.
func NewTable(entries map[Pair]float64) Table {
	rates := make(map[Pair]float64, len(entries))
	for p, r := range entries {
		rates[p] = r
	}
	return Table{rates: rates}
}

// DefaultTable holds the approximate rates served when the live source is
// unavailable.
func DefaultTable() Table {
	return NewTable(map[Pair]float64{
		{"USD", "EUR"}: 0.85,
		{"USD", "GBP"}: 0.73,
		{"USD", "INR"}: 83.0,
		{"USD", "CAD"}: 1.35,
		{"USD", "AUD"}: 1.52,
		{"USD", "JPY"}: 150.0,
		{"EUR", "USD"}: 1.18,
		{"GBP", "USD"}: 1.37,
		{"INR", "USD"}: 0.012,
	})
}

// Lookup returns the rate for base→quote if the table has it.
func (t Table) Lookup(base, quote string) (float64, bool) {
	r, ok := t.rates[Pair{Base: base, Quote: quote}]
	return r, ok
}

// ForBase returns every quote the table knows for base.
func (t Table) ForBase(base string) RateSet {
	out := RateSet{}
	for p, r := range t.rates {
		if p.Base == base {
			out[p.Quote] = r
		}
	}
	return out
}
