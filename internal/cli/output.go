package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eshaffer321/haulrecon/internal/adapters/interchange"
	"github.com/eshaffer321/haulrecon/internal/application/reconcile"
	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, cfg matcher.Config, input string) {
	fmt.Fprintf(w, "haulrecon: %s (%s mode)\n", input, cfg.Mode)
	fmt.Fprintf(w, "Lookback: %d days | Tolerance: $%s\n\n", cfg.LookbackDays, cfg.AmountTolerance.StringFixed(2))
}

// PrintImport reports what the interchange conversion dropped or repaired.
func PrintImport(w io.Writer, imp *interchange.Import) {
	s := imp.Data.Summary()
	fmt.Fprintf(w, "Loaded: Loads=%d Payments=%d Transactions=%d\n", s.LoadCount, s.PaymentCount, s.TransactionCount)
	if len(imp.Duplicates) > 0 {
		fmt.Fprintf(w, "Skipped %d duplicate loads\n", len(imp.Duplicates))
	}
	if imp.ExtractedReferences > 0 {
		fmt.Fprintf(w, "Extracted %d references from descriptions\n", imp.ExtractedReferences)
	}
	if len(imp.BalanceBreaks) > 0 {
		fmt.Fprintf(w, "Warning: %d ledger rows do not chain to the previous balance\n", len(imp.BalanceBreaks))
	}
	fmt.Fprintln(w)
}

// PrintSummary prints the per-driver table and the global totals.
func PrintSummary(w io.Writer, report *reconcile.Report) {
	fmt.Fprintf(w, "%-16s %6s %12s %6s %12s %6s %12s\n", "Driver", "Loads", "Scheduled", "Paid", "Paid $", "Unpaid", "Unpaid $")
	fmt.Fprintln(w, strings.Repeat("-", 76))

	for _, name := range report.Summary.DriverNames() {
		printDriverRow(w, report.Summary.Drivers[name])
	}
	if report.Summary.Unassigned.ScheduledLoads > 0 {
		printDriverRow(w, report.Summary.Unassigned)
	}
	fmt.Fprintln(w, strings.Repeat("-", 76))
	overall := report.Summary.Overall
	overall.Driver = "TOTAL"
	printDriverRow(w, overall)

	counts := report.Counts()
	fmt.Fprintf(w, "\nSummary: Full=%d Partial=%d Missing=%d OrphanTransactions=%d OrphanPayments=%d Match=%s%%\n",
		counts.Full, counts.Partial, counts.Missing, counts.OrphanTransactions, counts.OrphanPayments,
		report.MatchRate().StringFixed(1))

	t := report.Totals
	fmt.Fprintf(w, "Remittances=$%s PaidOut=$%s Difference=$%s Deposits=$%s\n",
		t.Remittances.StringFixed(2), t.PaidOut.StringFixed(2), t.Difference.StringFixed(2), t.Deposits.StringFixed(2))
	if !t.DateRangeStart.IsZero() {
		fmt.Fprintf(w, "Period: %s to %s\n", t.DateRangeStart.Format("2006-01-02"), t.DateRangeEnd.Format("2006-01-02"))
	}

	if missing := report.Result.Missing(); len(missing) > 0 {
		fmt.Fprintln(w, "\nUnpaid loads:")
		for _, m := range missing {
			fmt.Fprintf(w, "  - %s: %s\n", m.Load, m.Reason)
		}
	}
}

func printDriverRow(w io.Writer, d aggregator.DriverSummary) {
	name := d.Driver
	switch {
	case name == "":
		name = "(unassigned)"
	case !d.Recognized && name != "TOTAL":
		name += "*"
	}
	fmt.Fprintf(w, "%-16s %6d %12s %6d %12s %6d %12s\n",
		name, d.ScheduledLoads, d.ScheduledAmount.StringFixed(2),
		d.PaidLoads, d.PaidAmount.StringFixed(2),
		d.UnpaidLoads, d.UnpaidAmount.StringFixed(2))
}

// PrintDriverDetail prints the loads and transfers of one driver.
func PrintDriverDetail(w io.Writer, d aggregator.Detail) {
	window := "all dates"
	if d.Start != nil || d.End != nil {
		window = fmt.Sprintf("%s to %s", dayOrOpen(d.Start), dayOrOpen(d.End))
	}
	fmt.Fprintf(w, "\nDriver: %s (%s)\n", d.Driver, window)

	fmt.Fprintf(w, "Loads (%d):\n", len(d.Loads))
	for _, l := range d.Loads {
		fmt.Fprintf(w, "  %s\n", l)
	}
	fmt.Fprintf(w, "Transactions (%d):\n", len(d.Transactions))
	for _, t := range d.Transactions {
		fmt.Fprintf(w, "  %s\n", t)
	}
	fmt.Fprintf(w, "Scheduled=$%s Paid=$%s Difference=$%s\n",
		d.TotalScheduled.StringFixed(2), d.TotalPaid.StringFixed(2), d.Difference.StringFixed(2))
}

func dayOrOpen(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format("2006-01-02")
}
