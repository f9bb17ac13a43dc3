package matcher

import (
	"testing"
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferenceMatcher() *Matcher {
	cfg := DefaultConfig()
	cfg.Mode = ModeReference
	return NewMatcher(cfg, normalizer.MustNew(normalizer.DefaultAliases()))
}

func makeRefLoad(date time.Time, ref, amount string) records.Load {
	l := makeLoad(date, "Tony", amount)
	l.Reference = ref
	return l
}

func makeDeposit(date time.Time, ref, amount string) records.BankTransaction {
	tx := records.BankTransaction{
		Date:        date,
		Amount:      decimal.RequireFromString(amount),
		Description: "SmartTrucker SPV, LLC | Purchase",
		Kind:        records.KindDeposit,
	}
	if ref != "" {
		tx.Reference = &ref
	}
	return tx
}

func TestReference_ExactMatchIsHighConfidence(t *testing.T) {
	// Arrange: amounts and dates agree with nothing else
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "RM25746A", "73.12")},
		[]records.BankTransaction{
			makeDeposit(day(2025, 3, 1), "RM99999A", "73.12"),
			makeDeposit(day(2025, 9, 30), "RM25746A", "73.12"),
		},
	)

	// Act
	result := m.Run(data)

	// Assert
	matched := result.Matched()
	require.Len(t, matched, 1)
	assert.Equal(t, records.MatchFull, matched[0].Type)
	assert.Equal(t, records.ConfidenceHigh, matched[0].Confidence)
	assert.Equal(t, 1, matched[0].TransactionIndex)
	assert.Equal(t, ModeReference, result.Mode)
}

func TestReference_ExactMatchWithDifferentAmountIsPartial(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "RM25746A", "80.00")},
		[]records.BankTransaction{makeDeposit(day(2025, 4, 3), "RM25746A", "73.12")},
	)

	matched := m.Run(data).Matched()

	require.Len(t, matched, 1)
	assert.Equal(t, records.MatchPartial, matched[0].Type)
	assert.Equal(t, records.ConfidenceHigh, matched[0].Confidence)
	assert.True(t, matched[0].AmountDifference.Equal(decimal.RequireFromString("-6.88")))
	assert.Contains(t, matched[0].Reason, "amount differs")
}

func TestReference_PartialReferenceIsMediumConfidence(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "31544-10482", "390.00")},
		[]records.BankTransaction{
			makeDeposit(day(2025, 4, 2), "99999", "390.00"),
			makeDeposit(day(2025, 4, 3), "10482", "390.00"),
		},
	)

	matched := m.Run(data).Matched()

	require.Len(t, matched, 1)
	assert.Equal(t, records.ConfidenceMedium, matched[0].Confidence)
	assert.Equal(t, 1, matched[0].TransactionIndex)
	assert.Equal(t, records.MatchFull, matched[0].Type)
}

func TestReference_PartialMatchIsCaseSensitive(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "rm25746", "")},
		[]records.BankTransaction{makeDeposit(day(2025, 4, 2), "RM25746A", "73.12")},
	)

	result := m.Run(data)

	assert.Equal(t, 1, result.Count(records.MatchMissingBankTransaction))
}

func TestReference_AmountFallbackIsLowConfidence(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "", "120.00")},
		[]records.BankTransaction{
			makeDeposit(day(2025, 4, 5), "627908", "99.00"),
			makeDeposit(day(2025, 4, 9), "", "120.00"),
		},
	)

	matched := m.Run(data).Matched()

	require.Len(t, matched, 1)
	assert.Equal(t, records.ConfidenceLow, matched[0].Confidence)
	assert.Equal(t, 1, matched[0].TransactionIndex)
	assert.Equal(t, 8, matched[0].DayDiff)
}

func TestReference_OnlyDepositsAreCandidates(t *testing.T) {
	m := newReferenceMatcher()
	withdrawal := makeDeposit(day(2025, 4, 2), "RM25746A", "73.12")
	withdrawal.Kind = records.KindACHWithdrawal
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "RM25746A", "73.12")},
		[]records.BankTransaction{withdrawal},
	)

	result := m.Run(data)

	assert.Equal(t, 1, result.Count(records.MatchMissingBankTransaction))
	orphans := result.OrphanTransactions()
	require.Len(t, orphans, 1)
	assert.Contains(t, orphans[0].Reason, "not eligible")
}

func TestReference_DepositConsumedOnce(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{
			makeRefLoad(day(2025, 4, 1), "RM25746A", "73.12"),
			makeRefLoad(day(2025, 4, 2), "RM25746A", "73.12"),
		},
		[]records.BankTransaction{makeDeposit(day(2025, 4, 3), "RM25746A", "73.12")},
	)

	result := m.Run(data)

	require.NoError(t, result.CheckExclusive())
	assert.Len(t, result.Matched(), 1)
	assert.Equal(t, 0, result.Matched()[0].LoadIndex)
	assert.Equal(t, 1, result.Count(records.MatchMissingBankTransaction))
}

func TestReference_ExactBeatsEarlierPartial(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "RM25746A", "73.12")},
		[]records.BankTransaction{
			makeDeposit(day(2025, 4, 2), "RM25746", "73.12"),
			makeDeposit(day(2025, 4, 3), "RM25746A", "73.12"),
		},
	)

	matched := m.Run(data).Matched()

	require.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0].TransactionIndex)
	assert.Equal(t, records.ConfidenceHigh, matched[0].Confidence)
}

func TestReference_LoadWithoutAmountMatchedByReferenceIsPartial(t *testing.T) {
	m := newReferenceMatcher()
	data := dataWith(
		[]records.Load{makeRefLoad(day(2025, 4, 1), "RN27772A", "")},
		[]records.BankTransaction{makeDeposit(day(2025, 4, 2), "RN27772A", "55.00")},
	)

	matched := m.Run(data).Matched()

	require.Len(t, matched, 1)
	assert.Equal(t, records.MatchPartial, matched[0].Type)
}
