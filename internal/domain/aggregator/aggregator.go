// Package aggregator derives per-driver and global statistics from a
// matcher run.
//
// The central identity is that for every driver, and overall,
//
//	scheduled = paid + unpaid
//
// holds exactly for both load counts and amounts. Verify checks it; a
// failure means the match results are inconsistent and no report should
// be published.
package aggregator

import (
	"sort"
	"strings"

	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// DriverSummary holds the load statistics of one driver bucket.
type DriverSummary struct {
	Driver     string
	Recognized bool // the name resolved through the alias table

	ScheduledLoads  int
	ScheduledAmount decimal.Decimal
	PaidLoads       int
	PaidAmount      decimal.Decimal
	UnpaidLoads     int
	UnpaidAmount    decimal.Decimal

	// Paid loads whose transaction amount differs from the schedule.
	DiscrepancyLoads  int
	DiscrepancyAmount decimal.Decimal
}

func newDriverSummary(driver string, recognized bool) DriverSummary {
	return DriverSummary{
		Driver:            driver,
		Recognized:        recognized,
		ScheduledAmount:   decimal.Zero,
		PaidAmount:        decimal.Zero,
		UnpaidAmount:      decimal.Zero,
		DiscrepancyAmount: decimal.Zero,
	}
}

// Difference is the scheduled amount not yet paid.
func (d DriverSummary) Difference() decimal.Decimal {
	return d.ScheduledAmount.Sub(d.PaidAmount)
}

func (d *DriverSummary) add(o DriverSummary) {
	d.ScheduledLoads += o.ScheduledLoads
	d.ScheduledAmount = d.ScheduledAmount.Add(o.ScheduledAmount)
	d.PaidLoads += o.PaidLoads
	d.PaidAmount = d.PaidAmount.Add(o.PaidAmount)
	d.UnpaidLoads += o.UnpaidLoads
	d.UnpaidAmount = d.UnpaidAmount.Add(o.UnpaidAmount)
	d.DiscrepancyLoads += o.DiscrepancyLoads
	d.DiscrepancyAmount = d.DiscrepancyAmount.Add(o.DiscrepancyAmount)
}

// Summary is the per-driver breakdown of one run.
type Summary struct {
	Drivers    map[string]DriverSummary
	Unassigned DriverSummary // loads whose driver name is empty
	Overall    DriverSummary
}

// DriverNames returns the driver keys in sorted order.
func (s Summary) DriverNames() []string {
	names := make([]string, 0, len(s.Drivers))
	for name := range s.Drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summarize buckets every load by normalized driver name. Scheduled
// figures come from the loads themselves; paid and unpaid figures come
// from the load outcomes in results (FULL and PARTIAL are paid,
// MISSING_BANK_TRANSACTION is unpaid). Loads without an amount count
// towards the load totals with a zero amount.
func Summarize(results []records.MatchResult, loads []records.Load, n *normalizer.Normalizer) Summary {
	s := Summary{
		Drivers:    make(map[string]DriverSummary),
		Unassigned: newDriverSummary("", false),
		Overall:    newDriverSummary("", false),
	}

	// update applies fn to the bucket of driver.
	update := func(driver string, fn func(*DriverSummary)) {
		name := n.Normalize(driver)
		if strings.TrimSpace(name) == "" {
			fn(&s.Unassigned)
			return
		}
		d, ok := s.Drivers[name]
		if !ok {
			d = newDriverSummary(name, n.Known(driver))
		}
		fn(&d)
		s.Drivers[name] = d
	}

	for _, l := range loads {
		amt := l.AmountOrZero()
		update(l.Driver, func(d *DriverSummary) {
			d.ScheduledLoads++
			d.ScheduledAmount = d.ScheduledAmount.Add(amt)
		})
	}

	for _, r := range results {
		if r.Load == nil {
			continue
		}
		amt := r.Load.AmountOrZero()
		switch {
		case r.Type.IsMatched():
			update(r.Load.Driver, func(d *DriverSummary) {
				d.PaidLoads++
				d.PaidAmount = d.PaidAmount.Add(amt)
				if r.Type == records.MatchPartial {
					d.DiscrepancyLoads++
					d.DiscrepancyAmount = d.DiscrepancyAmount.Add(r.AmountDifference.Abs())
				}
			})
		case r.Type == records.MatchMissingBankTransaction:
			update(r.Load.Driver, func(d *DriverSummary) {
				d.UnpaidLoads++
				d.UnpaidAmount = d.UnpaidAmount.Add(amt)
			})
		}
	}

	for _, d := range s.Drivers {
		s.Overall.add(d)
	}
	s.Overall.add(s.Unassigned)

	return s
}
