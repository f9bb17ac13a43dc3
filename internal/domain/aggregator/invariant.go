package aggregator

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation is wrapped by every failed consistency check.
var ErrInvariantViolation = errors.New("reconciliation invariant violated")

// InvariantViolation describes a bucket where scheduled != paid + unpaid.
type InvariantViolation struct {
	Bucket string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation.Error(), e.Bucket, e.Detail)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

func checkBucket(bucket string, d DriverSummary) error {
	if d.ScheduledLoads != d.PaidLoads+d.UnpaidLoads {
		return &InvariantViolation{
			Bucket: bucket,
			Detail: fmt.Sprintf("scheduled %d loads, paid %d + unpaid %d", d.ScheduledLoads, d.PaidLoads, d.UnpaidLoads),
		}
	}
	if !d.ScheduledAmount.Equal(d.PaidAmount.Add(d.UnpaidAmount)) {
		return &InvariantViolation{
			Bucket: bucket,
			Detail: fmt.Sprintf("scheduled $%s, paid $%s + unpaid $%s",
				d.ScheduledAmount.StringFixed(2), d.PaidAmount.StringFixed(2), d.UnpaidAmount.StringFixed(2)),
		}
	}
	return nil
}

// Verify checks the scheduled = paid + unpaid identity for every driver,
// the unassigned bucket and the overall totals. Drivers are checked in
// name order so the reported violation is stable.
func Verify(s Summary) error {
	for _, name := range s.DriverNames() {
		if err := checkBucket("driver "+name, s.Drivers[name]); err != nil {
			return err
		}
	}
	if err := checkBucket("unassigned", s.Unassigned); err != nil {
		return err
	}
	return checkBucket("overall", s.Overall)
}
