package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/haulrecon/internal/infrastructure/config"
)

// Flags are the command line options of the reconcile command. Only
// flags present on the command line override the config.
type Flags struct {
	ConfigPath        string
	InputPath         string
	OutputPath        string
	Mode              string
	LookbackDays      int
	AmountTolerance   float64
	DedupeLoads       bool
	ExtractReferences bool
	Driver            string
	From              *time.Time
	To                *time.Time
	Verbose           bool

	set map[string]bool // names of the flags actually passed
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, stderr io.Writer) (Flags, error) {
	var (
		flags    Flags
		from, to string
	)

	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	fs.StringVar(&flags.InputPath, "input", "", "Interchange JSON file (\"-\" for stdin)")
	fs.StringVar(&flags.OutputPath, "output", "", "Report file (\"-\" for stdout, empty = no report)")
	fs.StringVar(&flags.Mode, "mode", "", "Matching mode: driver or reference")
	fs.IntVar(&flags.LookbackDays, "days", 0, "Maximum days between load and transaction ")
	fs.Float64Var(&flags.AmountTolerance, "tolerance", 0, "Amount tolerance in dollars ")
	fs.BoolVar(&flags.DedupeLoads, "dedupe", false, "Drop repeated (driver, date, reference) loads")
	fs.BoolVar(&flags.ExtractReferences, "extract-refs", false, "Fill missing transaction references from descriptions")
	fs.StringVar(&flags.Driver, "driver", "", "Print the activity of one driver")
	fs.StringVar(&from, "from", "", "Driver detail window start (YYYY-MM-DD)")
	fs.StringVar(&to, "to", "", "Driver detail window end (YYYY-MM-DD)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if fs.NArg() > 0 {
		return Flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	flags.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	var err error
	if flags.From, err = parseDay("from", from); err != nil {
		return Flags{}, err
	}
	if flags.To, err = parseDay("to", to); err != nil {
		return Flags{}, err
	}
	if (flags.From != nil || flags.To != nil) && flags.Driver == "" {
		return Flags{}, errors.New("-from and -to require -driver")
	}
	return flags, nil
}

func parseDay(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s date %q: %w", name, value, err)
	}
	return &t, nil
}

// IsSet reports whether the named flag was passed on the command line.
func (f Flags) IsSet(name string) bool {
	return f.set[name]
}

// Apply overrides cfg with every flag that was passed.
func (f Flags) Apply(cfg *config.Config) {
	if f.IsSet("input") {
		cfg.Input.Path = f.InputPath
	}
	if f.IsSet("output") {
		cfg.Output.Path = f.OutputPath
	}
	if f.IsSet("mode") {
		cfg.Reconciliation.Mode = f.Mode
	}
	if f.IsSet("days") {
		cfg.Reconciliation.LookbackDays = f.LookbackDays
	}
	if f.IsSet("tolerance") {
		cfg.Reconciliation.AmountTolerance = f.AmountTolerance
	}
	if f.IsSet("dedupe") {
		cfg.Input.DedupeLoads = f.DedupeLoads
	}
	if f.IsSet("extract-refs") {
		cfg.Input.ExtractReferences = f.ExtractReferences
	}
	if f.IsSet("verbose") && f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
}
