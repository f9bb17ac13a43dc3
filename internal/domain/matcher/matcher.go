// Package matcher reconciles scheduled loads against bank activity.
//
// Two strategies are available, chosen per run:
//   - driver: a load matches an outgoing transfer to the same driver
//     (after name normalization) whose amount differs by less than the
//     tolerance and whose date lies within the lookback window; the
//     closest date wins, ties go to the earlier transaction
//   - reference: a load matches a deposit by exact load reference, then
//     by partial reference, then by amount alone
//
// In both strategies a load or transaction takes part in at most one
// match, records are visited in date order, and remittances are reported
// as orphans because they cover many invoices at once.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig(), normalizer.MustNew(normalizer.DefaultAliases()))
//	result := m.Run(data)
//	for _, r := range result.Missing() {
//		// unpaid load
//	}
package matcher

import (
	"sort"
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
)

// Matcher matches loads with bank transactions
type Matcher struct {
	config     Config
	normalizer *normalizer.Normalizer
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config, n *normalizer.Normalizer) *Matcher {
	return &Matcher{
		config:     config,
		normalizer: n,
	}
}

// Config returns the configuration the matcher was built with.
func (m *Matcher) Config() Config {
	return m.config
}

// run is the state of a single reconciliation pass. Consumption is
// tracked by input index and never outlives the pass.
type run struct {
	loads        []records.Load
	payments     []records.Payment
	transactions []records.BankTransaction

	loadOrder        []int
	paymentOrder     []int
	transactionOrder []int

	consumed map[int]bool
	results  []records.MatchResult
}

func newRun(data *records.ReconciliationData) *run {
	r := &run{
		loads:        data.Loads(),
		payments:     data.Payments(),
		transactions: data.Transactions(),
		consumed:     make(map[int]bool),
	}
	r.loadOrder = byDate(len(r.loads), func(i int) time.Time { return r.loads[i].Date })
	r.paymentOrder = byDate(len(r.payments), func(i int) time.Time { return r.payments[i].Date })
	r.transactionOrder = byDate(len(r.transactions), func(i int) time.Time { return r.transactions[i].Date })
	return r
}

// byDate returns the indexes 0..n-1 stably sorted by calendar day.
func byDate(n int, date func(int) time.Time) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records.Day(date(order[a])).Before(records.Day(date(order[b])))
	})
	return order
}

// Run reconciles one batch and returns every outcome. It never fails:
// records without a counterpart are classified, not rejected.
func (m *Matcher) Run(data *records.ReconciliationData) Result {
	r := newRun(data)

	switch m.config.Mode {
	case ModeReference:
		m.matchByReference(r)
	default:
		m.matchByDriver(r)
	}

	m.collectOrphanTransactions(r)
	collectOrphanPayments(r)

	mode := m.config.Mode
	if mode == "" {
		mode = ModeDriver
	}
	return Result{Mode: mode, Matches: r.results}
}

func (r *run) loadResult(li int, t records.MatchType) records.MatchResult {
	return records.MatchResult{
		Type:             t,
		Load:             &r.loads[li],
		LoadIndex:        li,
		PaymentIndex:     records.NoIndex,
		TransactionIndex: records.NoIndex,
	}
}

func (m *Matcher) collectOrphanTransactions(r *run) {
	for _, ti := range r.transactionOrder {
		if r.consumed[ti] {
			continue
		}
		tx := &r.transactions[ti]
		reason := "no scheduled load matched this transaction"
		if m.config.Mode == ModeReference && !tx.Kind.IsDeposit() {
			reason = "outgoing transaction is not eligible for reference matching"
		}
		r.results = append(r.results, records.MatchResult{
			Type:             records.MatchOrphanBankTransaction,
			Transaction:      tx,
			LoadIndex:        records.NoIndex,
			PaymentIndex:     records.NoIndex,
			TransactionIndex: ti,
			Reason:           reason,
		})
	}
}

func collectOrphanPayments(r *run) {
	for _, pi := range r.paymentOrder {
		r.results = append(r.results, records.MatchResult{
			Type:             records.MatchOrphanPayment,
			Payment:          &r.payments[pi],
			LoadIndex:        records.NoIndex,
			PaymentIndex:     pi,
			TransactionIndex: records.NoIndex,
			Reason:           "remittances cover many invoices and are not matched to individual loads",
		})
	}
}
