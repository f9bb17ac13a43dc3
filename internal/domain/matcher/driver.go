package matcher

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/haulrecon/internal/domain/records"
)

// maxScore is the score of a same-day match; every day of lag costs one point.
const maxScore = 100

// matchByDriver pairs each load with the closest-dated unconsumed transfer
// to the same driver for the same amount.
func (m *Matcher) matchByDriver(r *run) {
	byRecipient := m.indexByRecipient(r)

	for _, li := range r.loadOrder {
		load := r.loads[li]

		if !load.HasAmount() {
			res := r.loadResult(li, records.MatchMissingBankTransaction)
			res.Reason = "load has no scheduled amount"
			r.results = append(r.results, res)
			continue
		}

		driver := m.normalizer.Normalize(load.Driver)
		ti, dayDiff := records.NoIndex, 0
		if strings.TrimSpace(driver) != "" {
			ti, dayDiff = m.findTransfer(r, byRecipient[driver], load)
		}

		if ti == records.NoIndex {
			res := r.loadResult(li, records.MatchMissingBankTransaction)
			res.Reason = fmt.Sprintf("no transfer to %s for $%s within %d days", displayName(driver), load.Amount.Decimal.StringFixed(2), m.config.LookbackDays)
			r.results = append(r.results, res)
			continue
		}

		r.consumed[ti] = true
		tx := &r.transactions[ti]

		res := r.loadResult(li, records.MatchFull)
		res.Transaction = tx
		res.TransactionIndex = ti
		res.Confidence = records.ConfidenceHigh
		res.DayDiff = dayDiff
		res.Score = maxScore - dayDiff
		res.AmountDifference = tx.Amount.Sub(load.Amount.Decimal)
		res.Reason = fmt.Sprintf("paid to %s %d days from load date", displayName(driver), dayDiff)
		r.results = append(r.results, res)
	}
}

// indexByRecipient groups transaction indexes by normalized recipient,
// keeping date order inside each group. It only narrows the scan; the
// order candidates are visited in is unchanged.
func (m *Matcher) indexByRecipient(r *run) map[string][]int {
	idx := make(map[string][]int)
	for _, ti := range r.transactionOrder {
		tx := r.transactions[ti]
		if tx.Recipient == nil {
			continue
		}
		key := m.normalizer.Normalize(*tx.Recipient)
		idx[key] = append(idx[key], ti)
	}
	return idx
}

// findTransfer returns the best candidate among the given transaction
// indexes and its day gap, or NoIndex. Score is maxScore minus the day
// gap; only a strictly higher score replaces the current best, so the
// earliest candidate wins a tie.
func (m *Matcher) findTransfer(r *run, candidates []int, load records.Load) (int, int) {
	best := records.NoIndex
	bestScore := 0
	bestDiff := 0

	for _, ti := range candidates {
		if r.consumed[ti] {
			continue
		}
		tx := r.transactions[ti]

		if !tx.Amount.Sub(load.Amount.Decimal).Abs().LessThan(m.config.AmountTolerance) {
			continue
		}

		dayDiff := records.DaysBetween(load.Date, tx.Date)
		if dayDiff > m.config.LookbackDays {
			continue
		}

		score := maxScore - dayDiff
		if best == records.NoIndex || score > bestScore {
			best = ti
			bestScore = score
			bestDiff = dayDiff
		}
	}

	return best, bestDiff
}

func displayName(driver string) string {
	if strings.TrimSpace(driver) == "" {
		return "unnamed driver"
	}
	return driver
}
