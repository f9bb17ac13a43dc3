package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/eshaffer321/haulrecon/internal/adapters/interchange"
	"github.com/eshaffer321/haulrecon/internal/application/reconcile"
	"github.com/eshaffer321/haulrecon/internal/cli"
	"github.com/eshaffer321/haulrecon/internal/domain/aggregator"
	"github.com/eshaffer321/haulrecon/internal/infrastructure/config"
	"github.com/eshaffer321/haulrecon/internal/infrastructure/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := cli.ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	flags.Apply(cfg)

	logger := logging.NewLoggerTo(stderr, cfg.Observability.Logging).With(logging.ComponentKey, "reconcile")

	matcherCfg, err := cfg.MatcherConfig()
	if err != nil {
		logger.Error("Invalid reconciliation settings", "error", err)
		return 1
	}
	n, err := cfg.Normalizer()
	if err != nil {
		logger.Error("Invalid driver aliases", "error", err)
		return 1
	}

	if cfg.Input.Path == "" {
		logger.Error("No input file; set -input, input.path or RECON_INPUT")
		return 2
	}
	doc, err := readDocument(cfg.Input.Path, stdin)
	if err != nil {
		logger.Error("Failed to read input", "path", cfg.Input.Path, "error", err)
		return 1
	}
	imp, err := doc.ToData(interchange.Options{
		DedupeLoads:       cfg.Input.DedupeLoads,
		ExtractReferences: cfg.Input.ExtractReferences,
	})
	if err != nil {
		logger.Error("Rejected input record", "error", err)
		return 1
	}
	for _, d := range imp.Duplicates {
		logger.Debug("Skipping duplicate load", "index", d.Index, "driver", d.Driver, "date", d.Date.Format("2006-01-02"), "reference", d.Reference)
	}
	for _, b := range imp.BalanceBreaks {
		logger.Warn("Ledger balance does not chain", "index", b.Index, "source", b.Source, "expected", b.Expected, "actual", b.Actual)
	}

	svc, err := reconcile.NewService(matcherCfg, n, logger)
	if err != nil {
		logger.Error("Failed to create reconcile service", "error", err)
		return 1
	}

	// stdout carries only the JSON document when the report goes there.
	console := stdout
	if cfg.Output.Path == "-" {
		console = stderr
	}

	cli.PrintHeader(console, matcherCfg, cfg.Input.Path)
	cli.PrintImport(console, imp)

	report, err := svc.Run(ctx, imp.Data)
	if err != nil {
		if errors.Is(err, aggregator.ErrInvariantViolation) {
			logger.Error("Report withheld: match results are inconsistent", "error", err)
		} else {
			logger.Error("Reconciliation failed", "error", err)
		}
		return 1
	}

	cli.PrintSummary(console, report)

	if flags.Driver != "" {
		cli.PrintDriverDetail(console, svc.DriverDetail(imp.Data, flags.Driver, flags.From, flags.To))
	}

	if cfg.Output.Path != "" {
		if err := writeReport(cfg.Output.Path, stdout, report); err != nil {
			logger.Error("Failed to write report", "path", cfg.Output.Path, "error", err)
			return 1
		}
		logger.Info("Report written", "path", cfg.Output.Path, "run_id", report.RunID)
	}
	return 0
}

// loadConfig reads an explicit config file strictly; without one it
// falls back to config.yaml or the environment.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func readDocument(path string, stdin io.Reader) (*interchange.Document, error) {
	if path == "-" {
		return interchange.Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return interchange.Decode(f)
}

func writeReport(path string, stdout io.Writer, report *reconcile.Report) error {
	if path == "-" {
		return interchange.EncodeReport(stdout, report)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := interchange.EncodeReport(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
