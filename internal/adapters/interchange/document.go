// Package interchange reads reconciliation input from, and writes run
// reports to, the JSON interchange format produced by the statement and
// schedule parsers.
package interchange

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used throughout the interchange.
const DateLayout = "2006-01-02"

// Date is a calendar day encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string. Null leaves the zero date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// LoadDTO is one schedule line.
type LoadDTO struct {
	Date      Date                `json:"date"`
	Driver    string              `json:"driver"`
	Company   string              `json:"company,omitempty"`
	Pickup    string              `json:"pickup,omitempty"`
	Dropoff   string              `json:"dropoff,omitempty"`
	Reference string              `json:"reference,omitempty"`
	Amount    decimal.NullDecimal `json:"amount"`
	DatePaid  *Date               `json:"date_paid,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	Source    string              `json:"source,omitempty"`
}

// InvoiceDTO is one remittance line.
type InvoiceDTO struct {
	Number     string          `json:"invoice_number"`
	Date       string          `json:"invoice_date,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"discount"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	VIN        string          `json:"vin,omitempty"`
	Location   string          `json:"location,omitempty"`
}

// PaymentDTO is one broker remittance.
type PaymentDTO struct {
	Date                Date            `json:"payment_date"`
	Reference           string          `json:"payment_ref,omitempty"`
	PaperDocumentNumber string          `json:"paper_document_number,omitempty"`
	Amount              decimal.Decimal `json:"payment_amount"`
	Invoices            []InvoiceDTO    `json:"invoices,omitempty"`
	Source              string          `json:"source,omitempty"`
}

// TransactionDTO is one bank ledger entry.
type TransactionDTO struct {
	Date         Date                `json:"date"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description"`
	Recipient    *string             `json:"recipient,omitempty"`
	Reference    *string             `json:"reference,omitempty"`
	Kind         string              `json:"transaction_type"`
	BalanceAfter decimal.NullDecimal `json:"balance_after"`
	Source       string              `json:"source,omitempty"`
}

// Document is the top-level interchange object.
type Document struct {
	Loads        []LoadDTO        `json:"loads"`
	Payments     []PaymentDTO     `json:"payments"`
	Transactions []TransactionDTO `json:"transactions"`
}

// Decode reads one Document from r. Amounts may be JSON strings or numbers.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode interchange document: %w", err)
	}
	return &doc, nil
}
