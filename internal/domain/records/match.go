package records

import "github.com/shopspring/decimal"

// MatchType classifies a reconciliation outcome.
type MatchType string

const (
	MatchFull                   MatchType = "FULL"
	MatchPartial                MatchType = "PARTIAL"
	MatchMissingBankTransaction MatchType = "MISSING_BANK_TRANSACTION"
	MatchOrphanBankTransaction  MatchType = "ORPHAN_BANK_TRANSACTION"
	MatchOrphanPayment          MatchType = "ORPHAN_PAYMENT"
)

// IsMatched reports whether a load was traced to a bank transaction.
func (t MatchType) IsMatched() bool {
	return t == MatchFull || t == MatchPartial
}

// IsOrphan reports whether the outcome describes a record with no
// counterpart on the schedule side.
func (t MatchType) IsOrphan() bool {
	return t == MatchOrphanBankTransaction || t == MatchOrphanPayment
}

// Confidence is the identifier-strength tier of a match.
type Confidence string

const (
	ConfidenceNone   Confidence = ""
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// NoIndex marks an absent record position in a MatchResult.
const NoIndex = -1

// MatchResult is one classified outcome of a reconciliation run. The
// pointers reference copies owned by the run; indexes are positions in
// the run's input collections.
type MatchResult struct {
	Type        MatchType
	Load        *Load
	Payment     *Payment
	Transaction *BankTransaction

	LoadIndex        int
	PaymentIndex     int
	TransactionIndex int

	Confidence       Confidence
	Reason           string
	DayDiff          int
	Score            int
	AmountDifference decimal.Decimal
}
