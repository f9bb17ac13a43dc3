package matcher

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects the matching strategy of a run. The strategies are
// alternatives over the same records; they are never combined.
type Mode string

const (
	// ModeDriver pairs loads with outgoing transfers by driver identity,
	// amount and date proximity.
	ModeDriver Mode = "driver"
	// ModeReference pairs loads with deposits by load reference, falling
	// back to amount.
	ModeReference Mode = "reference"
)

// ParseMode accepts the mode names case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDriver, ModeReference:
		return m, nil
	}
	return "", fmt.Errorf("unknown matching mode %q (want %q or %q)", s, ModeDriver, ModeReference)
}

// Config holds matcher configuration
type Config struct {
	Mode            Mode
	LookbackDays    int             // Default: 90, payments lag loads by weeks
	AmountTolerance decimal.Decimal // Default: 0.01; amounts must differ by strictly less
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Mode:            ModeDriver,
		LookbackDays:    90,
		AmountTolerance: decimal.New(1, -2),
	}
}

// Validate reports configuration that would make every run meaningless.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("lookback days must not be negative, got %d", c.LookbackDays)
	}
	if !c.AmountTolerance.IsPositive() {
		return fmt.Errorf("amount tolerance must be positive, got %s", c.AmountTolerance.String())
	}
	return nil
}
