// Package reconcile runs one reconciliation: match, summarize, verify.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/eshaffer321/haulrecon/internal/domain/records"
	"github.com/google/uuid"
)

// ErrMatchConflict is returned when a record was consumed by more than
// one outcome of a run.
var ErrMatchConflict = errors.New("record matched more than once")

// Service runs reconciliations with a fixed matcher configuration and
// alias table. It holds no per-run state.
type Service struct {
	matcher    *matcher.Matcher
	normalizer *normalizer.Normalizer
	logger     *slog.Logger

	now       func() time.Time
	summarize func([]records.MatchResult, []records.Load, *normalizer.Normalizer) aggregator.Summary
}

// NewService creates a service. The matcher configuration is validated
// here so that Run never sees a bad config.
func NewService(cfg matcher.Config, n *normalizer.Normalizer, logger *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher config: %w", err)
	}
	if n == nil {
		return nil, errors.New("normalizer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		matcher:    matcher.NewMatcher(cfg, n),
		normalizer: n,
		logger:     logger,
		now:        time.Now,
		summarize:  aggregator.Summarize,
	}, nil
}

// Config returns the matcher configuration.
func (s *Service) Config() matcher.Config {
	return s.matcher.Config()
}

// Run reconciles data and returns the report. A report is only returned
// when the conservation identity holds; otherwise the error wraps
// aggregator.ErrInvariantViolation.
func (s *Service) Run(ctx context.Context, data *records.ReconciliationData) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reconciliation not started: %w", err)
	}
	if data == nil {
		data = records.NewReconciliationData()
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Mode:      s.matcher.Config().Mode,
		StartedAt: s.now(),
		Input:     data.Summary(),
	}
	logger := s.logger.With("run_id", report.RunID, "mode", report.Mode)

	logger.Info("Starting reconciliation",
		"loads", report.Input.LoadCount,
		"payments", report.Input.PaymentCount,
		"transactions", report.Input.TransactionCount,
		"lookback_days", s.matcher.Config().LookbackDays,
	)

	report.Result = s.matcher.Run(data)
	if err := report.Result.CheckExclusive(); err != nil {
		logger.Error("Match results are not exclusive", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMatchConflict, err)
	}

	report.Summary = s.summarize(report.Result.Matches, data.Loads(), s.normalizer)
	if err := aggregator.Verify(report.Summary); err != nil {
		logger.Error("Conservation check failed", "error", err)
		return nil, fmt.Errorf("reconciliation %s rejected: %w", report.RunID, err)
	}

	report.Totals = aggregator.ComputeTotals(data)
	report.CompletedAt = s.now()

	for _, name := range report.Summary.DriverNames() {
		d := report.Summary.Drivers[name]
		logger.Debug("Driver summary",
			"driver", name,
			"recognized", d.Recognized,
			"scheduled", d.ScheduledAmount,
			"paid", d.PaidAmount,
			"unpaid", d.UnpaidAmount,
		)
	}

	counts := report.Counts()
	logger.Info("Reconciliation complete",
		"full", counts.Full,
		"partial", counts.Partial,
		"missing", counts.Missing,
		"orphan_transactions", counts.OrphanTransactions,
		"orphan_payments", counts.OrphanPayments,
		"match_rate", report.MatchRate().String()+"%",
		"duration", report.Duration(),
	)

	return report, nil
}

// DriverDetail returns the activity of one driver, resolved through the
// service's alias table.
func (s *Service) DriverDetail(data *records.ReconciliationData, name string, start, end *time.Time) aggregator.Detail {
	return aggregator.DriverDetail(data, s.normalizer, name, start, end)
}
