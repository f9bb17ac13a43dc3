package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationData accumulates the three record collections of one
// run. It is append-only while ingesting; accessors return copies so
// matching never mutates it.
type ReconciliationData struct {
	loads        []Load
	payments     []Payment
	transactions []BankTransaction
}

// NewReconciliationData returns an empty accumulator.
func NewReconciliationData() *ReconciliationData {
	return &ReconciliationData{}
}

func (d *ReconciliationData) AddLoads(loads ...Load) {
	d.loads = append(d.loads, loads...)
}

func (d *ReconciliationData) AddPayments(payments ...Payment) {
	d.payments = append(d.payments, payments...)
}

func (d *ReconciliationData) AddTransactions(txns ...BankTransaction) {
	d.transactions = append(d.transactions, txns...)
}

func (d *ReconciliationData) Loads() []Load {
	return append([]Load(nil), d.loads...)
}

func (d *ReconciliationData) Payments() []Payment {
	return append([]Payment(nil), d.payments...)
}

func (d *ReconciliationData) Transactions() []BankTransaction {
	return append([]BankTransaction(nil), d.transactions...)
}

// DataSummary holds ingestion counts and totals.
type DataSummary struct {
	PaymentCount     int
	PaymentTotal     decimal.Decimal
	TransactionCount int
	TransactionTotal decimal.Decimal
	LoadCount        int
	ScheduledTotal   decimal.Decimal
}

// Summary reports what was ingested. Loads without an amount are
// counted but add nothing to ScheduledTotal.
func (d *ReconciliationData) Summary() DataSummary {
	s := DataSummary{
		PaymentCount:     len(d.payments),
		PaymentTotal:     decimal.Zero,
		TransactionCount: len(d.transactions),
		TransactionTotal: decimal.Zero,
		LoadCount:        len(d.loads),
		ScheduledTotal:   decimal.Zero,
	}
	for _, p := range d.payments {
		s.PaymentTotal = s.PaymentTotal.Add(p.Amount)
	}
	for _, t := range d.transactions {
		s.TransactionTotal = s.TransactionTotal.Add(t.Amount)
	}
	for _, l := range d.loads {
		s.ScheduledTotal = s.ScheduledTotal.Add(l.AmountOrZero())
	}
	return s
}

// RangeKind selects the collections returned by InRange.
type RangeKind string

const (
	RangeAll          RangeKind = "all"
	RangePayments     RangeKind = "payments"
	RangeTransactions RangeKind = "bank"
	RangeLoads        RangeKind = "loads"
)

// RangeResult holds the records dated within an inclusive window.
type RangeResult struct {
	Start        time.Time
	End          time.Time
	Payments     []Payment
	Transactions []BankTransaction
	Loads        []Load
}

// InRange returns the records of the selected kind dated between start
// and end inclusive, compared by calendar day.
func (d *ReconciliationData) InRange(start, end time.Time, kind RangeKind) (RangeResult, error) {
	kind = RangeKind(strings.ToLower(string(kind)))
	switch kind {
	case RangeAll, RangePayments, RangeTransactions, RangeLoads:
	default:
		return RangeResult{}, fmt.Errorf("unknown range kind %q", kind)
	}
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return RangeResult{}, fmt.Errorf("range end %s is before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	within := func(t time.Time) bool {
		day := Day(t)
		return !day.Before(start) && !day.After(end)
	}

	res := RangeResult{Start: start, End: end}
	if kind == RangeAll || kind == RangePayments {
		for _, p := range d.payments {
			if within(p.Date) {
				res.Payments = append(res.Payments, p)
			}
		}
	}
	if kind == RangeAll || kind == RangeTransactions {
		for _, t := range d.transactions {
			if within(t.Date) {
				res.Transactions = append(res.Transactions, t)
			}
		}
	}
	if kind == RangeAll || kind == RangeLoads {
		for _, l := range d.loads {
			if within(l.Date) {
				res.Loads = append(res.Loads, l)
			}
		}
	}
	return res, nil
}
