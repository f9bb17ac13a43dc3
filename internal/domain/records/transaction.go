package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind disambiguates the direction of a bank transaction.
type TransactionKind string

const (
	KindDeposit       TransactionKind = "DEPOSIT"
	KindWithdrawal    TransactionKind = "WITHDRAWAL"
	KindACHWithdrawal TransactionKind = "ACH_WITHDRAWAL"
	KindZelle         TransactionKind = "ZELLE"
)

// ParseTransactionKind accepts the kind names case-insensitively.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidRecord, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindACHWithdrawal, KindZelle:
		return true
	}
	return false
}

// IsDeposit reports whether money came into the account.
func (k TransactionKind) IsDeposit() bool {
	return k == KindDeposit
}

// BankTransaction is one entry of the company bank ledger. Amount is
// always positive; Kind carries the sign.
type BankTransaction struct {
	Date         time.Time
	Amount       decimal.Decimal
	Description  string
	Recipient    *string
	Reference    *string
	Kind         TransactionKind
	BalanceAfter decimal.NullDecimal
	Source       string
}

// RecipientName returns the recipient or "" when absent.
func (t BankTransaction) RecipientName() string {
	if t.Recipient == nil {
		return ""
	}
	return *t.Recipient
}

// LoadReference returns the reference extracted from the description,
// or "" when absent.
func (t BankTransaction) LoadReference() string {
	if t.Reference == nil {
		return ""
	}
	return *t.Reference
}

// SignedAmount returns Amount for deposits and -Amount otherwise.
func (t BankTransaction) SignedAmount() decimal.Decimal {
	if t.Kind.IsDeposit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Validate checks the fields the engine relies on.
func (t BankTransaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction has no date", ErrInvalidRecord)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount %s must be positive", ErrInvalidRecord, t.Amount.String())
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidRecord, t.Kind)
	}
	if t.BalanceAfter.Valid && t.BalanceAfter.Decimal.IsNegative() {
		return fmt.Errorf("%w: balance %s is negative", ErrInvalidRecord, t.BalanceAfter.Decimal.StringFixed(2))
	}
	return nil
}

func (t BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction(%s, %s, %s, $%s)", t.Date.Format("2006-01-02"), t.Kind, t.RecipientName(), t.Amount.StringFixed(2))
}
