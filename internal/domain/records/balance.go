package records

import "github.com/shopspring/decimal"

// BalanceBreak is a ledger row whose balance does not follow from the
// previous row of the same statement.
type BalanceBreak struct {
	Index    int
	Source   string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// CheckBalances walks txns in ledger order and reports every row where
// previous balance plus the signed amount differs from the printed
// balance. Rows are chained per source; a row without a balance breaks
// the chain. This is a parser self-check and plays no part in matching.
func CheckBalances(txns []BankTransaction) []BalanceBreak {
	var breaks []BalanceBreak
	last := make(map[string]decimal.NullDecimal)

	for i, t := range txns {
		prev, ok := last[t.Source]
		if ok && prev.Valid && t.BalanceAfter.Valid {
			expected := prev.Decimal.Add(t.SignedAmount())
			if !expected.Equal(t.BalanceAfter.Decimal) {
				breaks = append(breaks, BalanceBreak{
					Index:    i,
					Source:   t.Source,
					Expected: expected,
					Actual:   t.BalanceAfter.Decimal,
				})
			}
		}
		last[t.Source] = t.BalanceAfter
	}
	return breaks
}
