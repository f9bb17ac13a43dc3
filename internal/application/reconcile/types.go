package reconcile

import (
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// Report is the published outcome of one reconciliation run.
type Report struct {
	RunID       string
	Mode        matcher.Mode
	StartedAt   time.Time
	CompletedAt time.Time

	Input   records.DataSummary
	Result  matcher.Result
	Summary aggregator.Summary
	Totals  aggregator.Totals
}

// Counts tallies the outcomes of a run by match type.
type Counts struct {
	Full               int
	Partial            int
	Missing            int
	OrphanTransactions int
	OrphanPayments     int
}

// Counts returns the number of outcomes of each type.
func (r *Report) Counts() Counts {
	return Counts{
		Full:               r.Result.Count(records.MatchFull),
		Partial:            r.Result.Count(records.MatchPartial),
		Missing:            r.Result.Count(records.MatchMissingBankTransaction),
		OrphanTransactions: r.Result.Count(records.MatchOrphanBankTransaction),
		OrphanPayments:     r.Result.Count(records.MatchOrphanPayment),
	}
}

// MatchRate is the percentage of scheduled loads that were paid, rounded
// to one decimal place. It is zero when there are no loads.
func (r *Report) MatchRate() decimal.Decimal {
	overall := r.Summary.Overall
	if overall.ScheduledLoads == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(overall.PaidLoads)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(overall.ScheduledLoads)), 1)
}

// Duration is how long the run took.
func (r *Report) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
