package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, mode matcher.Mode) *Service {
	t.Helper()
	cfg := matcher.DefaultConfig()
	cfg.Mode = mode
	svc, err := NewService(cfg, normalizer.MustNew(normalizer.DefaultAliases()), quietLogger())
	require.NoError(t, err)
	return svc
}

func sampleData() *records.ReconciliationData {
	rich := "BIG RICH"
	steve := "Steve Martin"
	data := records.NewReconciliationData()
	data.AddLoads(
		records.Load{Date: day(time.March, 1), Driver: "Rich", Amount: amount("500"), Reference: "RM25746A"},
		records.Load{Date: day(time.March, 5), Driver: "Steve", Amount: amount("300")},
		records.Load{Date: day(time.March, 6), Driver: "", Amount: amount("75")},
	)
	data.AddTransactions(
		records.BankTransaction{Date: day(time.March, 15), Amount: decimal.RequireFromString("500"), Recipient: &rich, Kind: records.KindZelle},
		records.BankTransaction{Date: day(time.April, 1), Amount: decimal.RequireFromString("120"), Recipient: &steve, Kind: records.KindZelle},
	)
	data.AddPayments(records.Payment{Date: day(time.March, 20), Reference: "4455", Amount: decimal.RequireFromString("1800")})
	return data
}

func TestService_RunDriverMode(t *testing.T) {
	// Arrange
	svc := newService(t, matcher.ModeDriver)

	// Act
	report, err := svc.Run(context.Background(), sampleData())

	// Assert
	require.NoError(t, err)
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
	assert.Equal(t, matcher.ModeDriver, report.Mode)
	assert.Equal(t, 3, report.Input.LoadCount)

	counts := report.Counts()
	assert.Equal(t, 1, counts.Full)
	assert.Equal(t, 2, counts.Missing)
	assert.Equal(t, 1, counts.OrphanTransactions)
	assert.Equal(t, 1, counts.OrphanPayments)

	rich := report.Summary.Drivers["Rich"]
	assert.Equal(t, 1, rich.PaidLoads)
	assert.True(t, rich.UnpaidAmount.IsZero())
	assert.Equal(t, 1, report.Summary.Unassigned.UnpaidLoads)

	assert.True(t, report.Totals.PaidOut.Equal(decimal.RequireFromString("620")))
	assert.True(t, report.Totals.Remittances.Equal(decimal.RequireFromString("1800")))
	assert.True(t, report.MatchRate().Equal(decimal.RequireFromString("33.3")))
	assert.False(t, report.CompletedAt.Before(report.StartedAt))
}

func TestService_RunReferenceMode(t *testing.T) {
	// Arrange
	svc := newService(t, matcher.ModeReference)
	ref := "RM25746A"
	data := records.NewReconciliationData()
	data.AddLoads(records.Load{Date: day(time.March, 1), Driver: "Rich", Amount: amount("500"), Reference: ref})
	data.AddTransactions(records.BankTransaction{Date: day(time.March, 4), Amount: decimal.RequireFromString("500"), Reference: &ref, Kind: records.KindDeposit})

	// Act
	report, err := svc.Run(context.Background(), data)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Result.Matches, 1)
	assert.Equal(t, records.MatchFull, report.Result.Matches[0].Type)
	assert.Equal(t, records.ConfidenceHigh, report.Result.Matches[0].Confidence)
	assert.True(t, report.MatchRate().Equal(decimal.NewFromInt(100)))
}

func TestService_RunIDsAreUnique(t *testing.T) {
	svc := newService(t, matcher.ModeDriver)

	a, err := svc.Run(context.Background(), sampleData())
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), sampleData())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Result.Matches, b.Result.Matches)
}

func TestService_RunCancelled(t *testing.T) {
	svc := newService(t, matcher.ModeDriver)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Run(ctx, sampleData())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_RunNilData(t *testing.T) {
	svc := newService(t, matcher.ModeDriver)

	report, err := svc.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, report.Result.Matches)
	assert.True(t, report.MatchRate().IsZero())
}

func TestService_RunRejectsInvariantViolation(t *testing.T) {
	// Arrange
	svc := newService(t, matcher.ModeDriver)
	svc.summarize = func(results []records.MatchResult, loads []records.Load, n *normalizer.Normalizer) aggregator.Summary {
		s := aggregator.Summarize(results, loads, n)
		d := s.Drivers["Rich"]
		d.PaidLoads++
		s.Drivers["Rich"] = d
		return s
	}

	// Act
	report, err := svc.Run(context.Background(), sampleData())

	// Assert
	assert.Nil(t, report)
	require.Error(t, err)
	assert.True(t, errors.Is(err, aggregator.ErrInvariantViolation))
	var violation *aggregator.InvariantViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "driver Rich", violation.Bucket)
}

func TestNewService_InvalidConfig(t *testing.T) {
	cfg := matcher.DefaultConfig()
	cfg.Mode = "fuzzy"

	_, err := NewService(cfg, normalizer.MustNew(nil), quietLogger())
	assert.Error(t, err)

	_, err = NewService(matcher.DefaultConfig(), nil, quietLogger())
	assert.Error(t, err)
}

func TestService_DriverDetail(t *testing.T) {
	svc := newService(t, matcher.ModeDriver)

	detail := svc.DriverDetail(sampleData(), "big-rich", nil, nil)

	assert.Equal(t, "Rich", detail.Driver)
	assert.Len(t, detail.Loads, 1)
	assert.Len(t, detail.Transactions, 1)
	assert.True(t, detail.Difference.IsZero())
}
