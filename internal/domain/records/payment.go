package records

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one line of a remittance advice.
type Invoice struct {
	Number     string
	Date       string // as printed on the advice, usually without a year
	Amount     decimal.Decimal
	Discount   decimal.Decimal
	AmountPaid decimal.Decimal
	VIN        string
	Location   string
}

// Payment is one remittance from the broker. It covers many invoices
// and is not reconciled against individual loads.
type Payment struct {
	Date                time.Time
	Reference           string
	PaperDocumentNumber string
	Amount              decimal.Decimal
	Invoices            []Invoice
	Source              string
}

// InvoicesPaid sums AmountPaid over the invoice lines. The result need
// not equal Amount; fees and netting are applied broker side.
func (p Payment) InvoicesPaid() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range p.Invoices {
		total = total.Add(inv.AmountPaid)
	}
	return total
}

// Validate checks the fields the engine relies on.
func (p Payment) Validate() error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: payment has no date", ErrInvalidRecord)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: payment amount %s is negative", ErrInvalidRecord, p.Amount.StringFixed(2))
	}
	return nil
}

func (p Payment) String() string {
	return fmt.Sprintf("Payment(%s, $%s, %d invoices)", p.Date.Format("2006-01-02"), p.Amount.StringFixed(2), len(p.Invoices))
}
