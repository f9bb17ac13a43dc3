package matcher

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/haulrecon/internal/domain/records"
)

// matchByReference pairs each load with a deposit, trying in order an
// exact reference, a partial reference and finally the amount alone.
func (m *Matcher) matchByReference(r *run) {
	var deposits []int
	for _, ti := range r.transactionOrder {
		if r.transactions[ti].Kind.IsDeposit() {
			deposits = append(deposits, ti)
		}
	}

	for _, li := range r.loadOrder {
		load := r.loads[li]
		ref := strings.TrimSpace(load.Reference)

		ti, confidence, reason := records.NoIndex, records.ConfidenceNone, ""

		if ref != "" {
			ti = firstDeposit(r, deposits, func(tx records.BankTransaction) bool {
				return strings.TrimSpace(tx.LoadReference()) == ref
			})
			if ti != records.NoIndex {
				confidence = records.ConfidenceHigh
				reason = fmt.Sprintf("load #%s matched deposit reference", ref)
			}
		}

		if ti == records.NoIndex && ref != "" {
			ti = firstDeposit(r, deposits, func(tx records.BankTransaction) bool {
				depRef := strings.TrimSpace(tx.LoadReference())
				return depRef != "" && (strings.Contains(ref, depRef) || strings.Contains(depRef, ref))
			})
			if ti != records.NoIndex {
				confidence = records.ConfidenceMedium
				reason = fmt.Sprintf("partial load # match: %s ~ %s", ref, strings.TrimSpace(r.transactions[ti].LoadReference()))
			}
		}

		if ti == records.NoIndex && load.HasAmount() {
			ti = firstDeposit(r, deposits, func(tx records.BankTransaction) bool {
				return tx.Amount.Sub(load.Amount.Decimal).Abs().LessThan(m.config.AmountTolerance)
			})
			if ti != records.NoIndex {
				confidence = records.ConfidenceLow
				reason = fmt.Sprintf("amount match: $%s", load.Amount.Decimal.StringFixed(2))
			}
		}

		if ti == records.NoIndex {
			res := r.loadResult(li, records.MatchMissingBankTransaction)
			res.Reason = "no deposit matched by reference or amount"
			r.results = append(r.results, res)
			continue
		}

		r.consumed[ti] = true
		tx := &r.transactions[ti]

		matchType := records.MatchFull
		diff := tx.Amount.Sub(load.AmountOrZero())
		if !load.HasAmount() || !diff.Abs().LessThan(m.config.AmountTolerance) {
			matchType = records.MatchPartial
			reason += fmt.Sprintf("; amount differs by $%s", diff.StringFixed(2))
		}

		res := r.loadResult(li, matchType)
		res.Transaction = tx
		res.TransactionIndex = ti
		res.Confidence = confidence
		res.DayDiff = records.DaysBetween(load.Date, tx.Date)
		res.AmountDifference = diff
		res.Reason = reason
		r.results = append(r.results, res)
	}
}

// firstDeposit returns the first unconsumed deposit accepted by ok, in
// date order, or NoIndex.
func firstDeposit(r *run, deposits []int, ok func(records.BankTransaction) bool) int {
	for _, ti := range deposits {
		if r.consumed[ti] {
			continue
		}
		if ok(r.transactions[ti]) {
			return ti
		}
	}
	return records.NoIndex
}
