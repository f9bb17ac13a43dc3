package aggregator

import (
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// Totals are the global financial figures of a run.
type Totals struct {
	Remittances decimal.Decimal // sum of broker payment amounts
	PaidOut     decimal.Decimal // sum of outgoing bank transactions
	Deposits    decimal.Decimal // sum of incoming bank transactions
	Scheduled   decimal.Decimal // sum of load amounts
	Difference  decimal.Decimal // Remittances - PaidOut

	DateRangeStart time.Time // zero when there are no records
	DateRangeEnd   time.Time
}

// ComputeTotals sums the three collections of data.
func ComputeTotals(data *records.ReconciliationData) Totals {
	t := Totals{
		Remittances: decimal.Zero,
		PaidOut:     decimal.Zero,
		Deposits:    decimal.Zero,
		Scheduled:   decimal.Zero,
	}

	span := func(d time.Time) {
		d = records.Day(d)
		if t.DateRangeStart.IsZero() || d.Before(t.DateRangeStart) {
			t.DateRangeStart = d
		}
		if t.DateRangeEnd.IsZero() || d.After(t.DateRangeEnd) {
			t.DateRangeEnd = d
		}
	}

	for _, p := range data.Payments() {
		t.Remittances = t.Remittances.Add(p.Amount)
		span(p.Date)
	}
	for _, tx := range data.Transactions() {
		if tx.Kind.IsDeposit() {
			t.Deposits = t.Deposits.Add(tx.Amount)
		} else {
			t.PaidOut = t.PaidOut.Add(tx.Amount)
		}
		span(tx.Date)
	}
	for _, l := range data.Loads() {
		t.Scheduled = t.Scheduled.Add(l.AmountOrZero())
		span(l.Date)
	}

	t.Difference = t.Remittances.Sub(t.PaidOut)
	return t
}
