package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/haulrecon/internal/application/reconcile"
	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// ReportDTO is the JSON form of a reconcile.Report.
type ReportDTO struct {
	RunID       string             `json:"run_id"`
	Mode        string             `json:"mode"`
	GeneratedAt string             `json:"generated_at"`
	Totals      TotalsDTO          `json:"totals"`
	Counts      CountsDTO          `json:"counts"`
	Drivers     []DriverSummaryDTO `json:"drivers"`
	Unassigned  DriverSummaryDTO   `json:"unassigned"`
	Overall     DriverSummaryDTO   `json:"overall"`
	Matches     []MatchDTO         `json:"matches"`
}

// TotalsDTO holds the global money figures, formatted to cents.
type TotalsDTO struct {
	Remittances    string `json:"total_remittances"`
	PaidOut        string `json:"total_paid_out"`
	Deposits       string `json:"total_deposits"`
	Scheduled      string `json:"total_scheduled"`
	Difference     string `json:"difference"`
	MatchRate      string `json:"match_rate"`
	DateRangeStart *Date  `json:"date_range_start"`
	DateRangeEnd   *Date  `json:"date_range_end"`
}

// CountsDTO tallies outcomes by match type.
type CountsDTO struct {
	Full               int `json:"full"`
	Partial            int `json:"partial"`
	Missing            int `json:"missing_bank_transaction"`
	OrphanTransactions int `json:"orphan_bank_transaction"`
	OrphanPayments     int `json:"orphan_payment"`
}

// DriverSummaryDTO is one driver bucket.
type DriverSummaryDTO struct {
	Driver            string `json:"driver,omitempty"`
	Recognized        bool   `json:"recognized"`
	ScheduledLoads    int    `json:"scheduled_loads"`
	ScheduledAmount   string `json:"scheduled_amount"`
	PaidLoads         int    `json:"paid_loads"`
	PaidAmount        string `json:"paid_amount"`
	UnpaidLoads       int    `json:"unpaid_loads"`
	UnpaidAmount      string `json:"unpaid_amount"`
	DiscrepancyLoads  int    `json:"discrepancy_loads"`
	DiscrepancyAmount string `json:"discrepancy_amount"`
	Difference        string `json:"difference"`
}

// MatchDTO is one outcome with the records it refers to.
type MatchDTO struct {
	Type             string          `json:"type"`
	Confidence       string          `json:"confidence,omitempty"`
	Reason           string          `json:"reason"`
	DayDiff          int             `json:"day_diff"`
	Score            int             `json:"score"`
	AmountDifference string          `json:"amount_difference"`
	LoadIndex        *int            `json:"load_index,omitempty"`
	TransactionIndex *int            `json:"transaction_index,omitempty"`
	PaymentIndex     *int            `json:"payment_index,omitempty"`
	Load             *LoadDTO        `json:"load,omitempty"`
	Transaction      *TransactionDTO `json:"transaction,omitempty"`
	Payment          *PaymentDTO     `json:"payment,omitempty"`
}

// EncodeReport writes report as indented JSON.
func EncodeReport(w io.Writer, report *reconcile.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReportDTO(report)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// NewReportDTO converts a report to its JSON form.
func NewReportDTO(report *reconcile.Report) ReportDTO {
	counts := report.Counts()
	dto := ReportDTO{
		RunID:       report.RunID,
		Mode:        string(report.Mode),
		GeneratedAt: report.CompletedAt.UTC().Format(time.RFC3339),
		Totals: TotalsDTO{
			Remittances:    money(report.Totals.Remittances),
			PaidOut:        money(report.Totals.PaidOut),
			Deposits:       money(report.Totals.Deposits),
			Scheduled:      money(report.Totals.Scheduled),
			Difference:     money(report.Totals.Difference),
			MatchRate:      report.MatchRate().StringFixed(1) + "%",
			DateRangeStart: optionalDate(report.Totals.DateRangeStart),
			DateRangeEnd:   optionalDate(report.Totals.DateRangeEnd),
		},
		Counts: CountsDTO{
			Full:               counts.Full,
			Partial:            counts.Partial,
			Missing:            counts.Missing,
			OrphanTransactions: counts.OrphanTransactions,
			OrphanPayments:     counts.OrphanPayments,
		},
		Drivers:    make([]DriverSummaryDTO, 0, len(report.Summary.Drivers)),
		Unassigned: driverSummaryDTO(report.Summary.Unassigned),
		Overall:    driverSummaryDTO(report.Summary.Overall),
		Matches:    make([]MatchDTO, 0, len(report.Result.Matches)),
	}

	for _, name := range report.Summary.DriverNames() {
		dto.Drivers = append(dto.Drivers, driverSummaryDTO(report.Summary.Drivers[name]))
	}
	for _, m := range report.Result.Matches {
		dto.Matches = append(dto.Matches, matchDTO(m))
	}
	return dto
}

func driverSummaryDTO(d aggregator.DriverSummary) DriverSummaryDTO {
	return DriverSummaryDTO{
		Driver:            d.Driver,
		Recognized:        d.Recognized,
		ScheduledLoads:    d.ScheduledLoads,
		ScheduledAmount:   money(d.ScheduledAmount),
		PaidLoads:         d.PaidLoads,
		PaidAmount:        money(d.PaidAmount),
		UnpaidLoads:       d.UnpaidLoads,
		UnpaidAmount:      money(d.UnpaidAmount),
		DiscrepancyLoads:  d.DiscrepancyLoads,
		DiscrepancyAmount: money(d.DiscrepancyAmount),
		Difference:        money(d.Difference()),
	}
}

func matchDTO(m records.MatchResult) MatchDTO {
	dto := MatchDTO{
		Type:             string(m.Type),
		Confidence:       string(m.Confidence),
		Reason:           m.Reason,
		DayDiff:          m.DayDiff,
		Score:            m.Score,
		AmountDifference: money(m.AmountDifference),
		LoadIndex:        optionalIndex(m.LoadIndex),
		TransactionIndex: optionalIndex(m.TransactionIndex),
		PaymentIndex:     optionalIndex(m.PaymentIndex),
	}
	if m.Load != nil {
		l := loadDTO(*m.Load)
		dto.Load = &l
	}
	if m.Transaction != nil {
		t := transactionDTO(*m.Transaction)
		dto.Transaction = &t
	}
	if m.Payment != nil {
		p := paymentDTO(*m.Payment)
		dto.Payment = &p
	}
	return dto
}

func loadDTO(l records.Load) LoadDTO {
	dto := LoadDTO{
		Date:      Date{l.Date},
		Driver:    l.Driver,
		Company:   l.Company,
		Pickup:    l.Pickup,
		Dropoff:   l.Dropoff,
		Reference: l.Reference,
		Amount:    l.Amount,
		Notes:     l.Notes,
		Source:    l.Source,
	}
	if l.DatePaid != nil {
		dto.DatePaid = &Date{*l.DatePaid}
	}
	return dto
}

func transactionDTO(t records.BankTransaction) TransactionDTO {
	return TransactionDTO{
		Date:         Date{t.Date},
		Amount:       t.Amount,
		Description:  t.Description,
		Recipient:    t.Recipient,
		Reference:    t.Reference,
		Kind:         string(t.Kind),
		BalanceAfter: t.BalanceAfter,
		Source:       t.Source,
	}
}

// paymentDTO omits invoice lines; the report only identifies the payment.
func paymentDTO(p records.Payment) PaymentDTO {
	return PaymentDTO{
		Date:                Date{p.Date},
		Reference:           p.Reference,
		PaperDocumentNumber: p.PaperDocumentNumber,
		Amount:              p.Amount,
		Source:              p.Source,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalDate(t time.Time) *Date {
	if t.IsZero() {
		return nil
	}
	return &Date{t}
}

func optionalIndex(i int) *int {
	if i == records.NoIndex {
		return nil
	}
	return &i
}
