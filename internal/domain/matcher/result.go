package matcher

import (
	"fmt"

	"github.com/eshaffer321/haulrecon/internal/domain/records"
)

// Result is the complete outcome set of one run: load outcomes in load
// date order, then orphan transactions, then orphan payments.
type Result struct {
	Mode    Mode
	Matches []records.MatchResult
}

func (r Result) filter(keep func(records.MatchResult) bool) []records.MatchResult {
	var out []records.MatchResult
	for _, m := range r.Matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Loads returns the outcome of every load.
func (r Result) Loads() []records.MatchResult {
	return r.filter(func(m records.MatchResult) bool { return m.Load != nil })
}

// Matched returns FULL and PARTIAL matches.
func (r Result) Matched() []records.MatchResult {
	return r.filter(func(m records.MatchResult) bool { return m.Type.IsMatched() })
}

// Missing returns loads without a matching transaction.
func (r Result) Missing() []records.MatchResult {
	return r.filter(func(m records.MatchResult) bool { return m.Type == records.MatchMissingBankTransaction })
}

func (r Result) OrphanTransactions() []records.MatchResult {
	return r.filter(func(m records.MatchResult) bool { return m.Type == records.MatchOrphanBankTransaction })
}

func (r Result) OrphanPayments() []records.MatchResult {
	return r.filter(func(m records.MatchResult) bool { return m.Type == records.MatchOrphanPayment })
}

// Count returns how many outcomes have type t.
func (r Result) Count(t records.MatchType) int {
	n := 0
	for _, m := range r.Matches {
		if m.Type == t {
			n++
		}
	}
	return n
}

// CheckExclusive verifies that no load and no transaction takes part in
// more than one non-orphan outcome.
func (r Result) CheckExclusive() error {
	loads := make(map[int]int)
	txns := make(map[int]int)

	for i, m := range r.Matches {
		if m.Type.IsOrphan() {
			continue
		}
		if m.LoadIndex != records.NoIndex {
			if prev, ok := loads[m.LoadIndex]; ok {
				return fmt.Errorf("load %d appears in outcomes %d and %d", m.LoadIndex, prev, i)
			}
			loads[m.LoadIndex] = i
		}
		if m.TransactionIndex != records.NoIndex {
			if prev, ok := txns[m.TransactionIndex]; ok {
				return fmt.Errorf("transaction %d appears in outcomes %d and %d", m.TransactionIndex, prev, i)
			}
			txns[m.TransactionIndex] = i
		}
	}
	return nil
}
