// Package records defines the value types reconciled by the engine:
// scheduled loads, broker payments, bank transactions and the match
// results produced from them.
//
// Records are created once at the parse boundary and treated as
// immutable afterwards. Optional fields are explicit: amounts use
// decimal.NullDecimal, optional strings and dates are pointers.
package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord is wrapped by every validation failure.
var ErrInvalidRecord = errors.New("invalid record")

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of calendar days between a and b.
func DaysBetween(a, b time.Time) int {
	diff := int(Day(b).Sub(Day(a)).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}

// Load is one scheduled transport job assigned to a driver.
type Load struct {
	Date      time.Time
	Driver    string
	Company   string
	Pickup    string
	Dropoff   string
	Reference string // "" when the schedule line carried no load number
	Amount    decimal.NullDecimal
	DatePaid  *time.Time
	Notes     string
	Source    string
}

// HasAmount reports whether the schedule line carried an amount.
func (l Load) HasAmount() bool {
	return l.Amount.Valid
}

// AmountOrZero returns the load amount, or zero when absent.
func (l Load) AmountOrZero() decimal.Decimal {
	if !l.Amount.Valid {
		return decimal.Zero
	}
	return l.Amount.Decimal
}

// Validate checks the invariants a parser must guarantee before a load
// is handed to the matcher.
func (l Load) Validate() error {
	if l.Date.IsZero() {
		return fmt.Errorf("%w: load has no date", ErrInvalidRecord)
	}
	if l.Reference != "" && strings.TrimSpace(l.Reference) == "" {
		return fmt.Errorf("%w: load reference is blank", ErrInvalidRecord)
	}
	if l.Amount.Valid && l.Amount.Decimal.IsNegative() {
		return fmt.Errorf("%w: load amount %s is negative", ErrInvalidRecord, l.Amount.Decimal.StringFixed(2))
	}
	return nil
}

func (l Load) String() string {
	amt := "N/A"
	if l.Amount.Valid {
		amt = "$" + l.Amount.Decimal.StringFixed(2)
	}
	return fmt.Sprintf("Load(%s, %s, %s, %s)", l.Driver, l.Date.Format("2006-01-02"), l.Company, amt)
}
