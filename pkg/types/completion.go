package types

// CompletionRecord maps an ISO date to the set of habit ids completed on that
// date. The inner map value is always true; absence means not completed.
// A date never maps to an empty inner map.
type CompletionRecord map[string]map[int]bool

// Has reports whether habitID is marked complete on date.
func (r CompletionRecord) Has(date string, habitID int) bool {
	return r[date][habitID]
}

// Clone returns a deep copy of the record.
func (r CompletionRecord) Clone() CompletionRecord {
	out := make(CompletionRecord, len(r))
	for date, ids := range r {
		inner := make(map[int]bool, len(ids))
		for id, v := range ids {
			inner[id] = v
		}
		out[date] = inner
	}
	return out
}

// Dates returns the number of dates with at least one completion.
func (r CompletionRecord) Dates() int {
	return len(r)
}
