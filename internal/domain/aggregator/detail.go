package aggregator

import (
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// Detail is the activity of one driver in an optional date window.
type Detail struct {
	Driver       string
	Start        *time.Time
	End          *time.Time
	Loads        []records.Load
	Transactions []records.BankTransaction

	TotalScheduled decimal.Decimal
	TotalPaid      decimal.Decimal
	Difference     decimal.Decimal // TotalScheduled - TotalPaid
}

// DriverDetail collects the loads and the transactions addressed to the
// driver named by name (after normalization). Start and end bound the
// window inclusively by calendar day; nil leaves that side open.
func DriverDetail(data *records.ReconciliationData, n *normalizer.Normalizer, name string, start, end *time.Time) Detail {
	driver := n.Normalize(name)
	d := Detail{
		Driver:         driver,
		Start:          start,
		End:            end,
		TotalScheduled: decimal.Zero,
		TotalPaid:      decimal.Zero,
	}

	inWindow := func(t time.Time) bool {
		day := records.Day(t)
		if start != nil && day.Before(records.Day(*start)) {
			return false
		}
		if end != nil && day.After(records.Day(*end)) {
			return false
		}
		return true
	}

	for _, l := range data.Loads() {
		if n.Normalize(l.Driver) != driver || !inWindow(l.Date) {
			continue
		}
		d.Loads = append(d.Loads, l)
		d.TotalScheduled = d.TotalScheduled.Add(l.AmountOrZero())
	}

	for _, tx := range data.Transactions() {
		if tx.Recipient == nil || n.Normalize(*tx.Recipient) != driver || !inWindow(tx.Date) {
			continue
		}
		d.Transactions = append(d.Transactions, tx)
		d.TotalPaid = d.TotalPaid.Add(tx.Amount)
	}

	d.Difference = d.TotalScheduled.Sub(d.TotalPaid)
	return d
}
