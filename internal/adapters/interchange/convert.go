package interchange

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/eshaffer321/haulrecon/internal/domain/records"
)

// Options controls the conversion of a Document into engine records.
type Options struct {
	// DedupeLoads drops schedule lines repeating an earlier
	// (driver, date, reference) triple.
	DedupeLoads bool
	// ExtractReferences fills a missing transaction reference from the
	// bank description, e.g. "ACH DEPOSIT ... (RM25746A)".
	ExtractReferences bool
}

// DuplicateLoad records a schedule line dropped by DedupeLoads.
type DuplicateLoad struct {
	Index     int // position in Document.Loads
	Driver    string
	Date      time.Time
	Reference string
}

// Import is the outcome of converting a Document.
type Import struct {
	Data                *records.ReconciliationData
	Duplicates          []DuplicateLoad
	ExtractedReferences int
	// BalanceBreaks lists ledger rows whose balance_after does not chain
	// from the previous row; they indicate a statement parsing problem.
	BalanceBreaks []records.BalanceBreak
}

// ToData validates every record and builds ReconciliationData. The first
// invalid record aborts the conversion with an error naming its
// collection and index.
func (d *Document) ToData(opts Options) (*Import, error) {
	imp := &Import{Data: records.NewReconciliationData()}

	type loadKey struct {
		driver    string
		date      time.Time
		reference string
	}
	seen := make(map[loadKey]bool)

	loads := make([]records.Load, 0, len(d.Loads))
	for i, dto := range d.Loads {
		load := dto.toRecord()
		if err := load.Validate(); err != nil {
			return nil, fmt.Errorf("loads[%d]: %w", i, err)
		}
		if opts.DedupeLoads {
			key := loadKey{strings.TrimSpace(load.Driver), load.Date, load.Reference}
			if seen[key] {
				imp.Duplicates = append(imp.Duplicates, DuplicateLoad{
					Index:     i,
					Driver:    load.Driver,
					Date:      load.Date,
					Reference: load.Reference,
				})
				continue
			}
			seen[key] = true
		}
		loads = append(loads, load)
	}

	payments := make([]records.Payment, 0, len(d.Payments))
	for i, dto := range d.Payments {
		payment := dto.toRecord()
		if err := payment.Validate(); err != nil {
			return nil, fmt.Errorf("payments[%d]: %w", i, err)
		}
		payments = append(payments, payment)
	}

	txns := make([]records.BankTransaction, 0, len(d.Transactions))
	for i, dto := range d.Transactions {
		txn, err := dto.toRecord()
		if err != nil {
			return nil, fmt.Errorf("transactions[%d]: %w", i, err)
		}
		if err := txn.Validate(); err != nil {
			return nil, fmt.Errorf("transactions[%d]: %w", i, err)
		}
		if opts.ExtractReferences && txn.Reference == nil {
			if ref := ExtractReference(txn.Description); ref != "" {
				txn.Reference = &ref
				imp.ExtractedReferences++
			}
		}
		txns = append(txns, txn)
	}

	imp.BalanceBreaks = records.CheckBalances(txns)

	imp.Data.AddLoads(loads...)
	imp.Data.AddPayments(payments...)
	imp.Data.AddTransactions(txns...)
	return imp, nil
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\((RM\d+[A-Z]?)\)`),
	regexp.MustCompile(`\((RN\d+[A-Z]?)\)`),
	regexp.MustCompile(`\((\d+)\)`),
}

// ExtractReference pulls a load reference out of a bank description.
// Broker prefixes (RM, RN) take precedence over bare numeric ids.
func ExtractReference(description string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			return m[1]
		}
	}
	return ""
}

func (dto LoadDTO) toRecord() records.Load {
	load := records.Load{
		Date:      records.Day(dto.Date.Time),
		Driver:    strings.TrimSpace(dto.Driver),
		Company:   dto.Company,
		Pickup:    dto.Pickup,
		Dropoff:   dto.Dropoff,
		Reference: dto.Reference,
		Amount:    dto.Amount,
		Notes:     dto.Notes,
		Source:    dto.Source,
	}
	if dto.DatePaid != nil && !dto.DatePaid.IsZero() {
		paid := records.Day(dto.DatePaid.Time)
		load.DatePaid = &paid
	}
	return load
}

func (dto PaymentDTO) toRecord() records.Payment {
	payment := records.Payment{
		Date:                records.Day(dto.Date.Time),
		Reference:           dto.Reference,
		PaperDocumentNumber: dto.PaperDocumentNumber,
		Amount:              dto.Amount,
		Source:              dto.Source,
	}
	for _, inv := range dto.Invoices {
		payment.Invoices = append(payment.Invoices, records.Invoice{
			Number:     inv.Number,
			Date:       inv.Date,
			Amount:     inv.Amount,
			Discount:   inv.Discount,
			AmountPaid: inv.AmountPaid,
			VIN:        inv.VIN,
			Location:   inv.Location,
		})
	}
	return payment
}

func (dto TransactionDTO) toRecord() (records.BankTransaction, error) {
	kind, err := records.ParseTransactionKind(dto.Kind)
	if err != nil {
		return records.BankTransaction{}, err
	}
	txn := records.BankTransaction{
		Date:         records.Day(dto.Date.Time),
		Amount:       dto.Amount,
		Description:  dto.Description,
		Recipient:    trimmedPtr(dto.Recipient),
		Reference:    trimmedPtr(dto.Reference),
		Kind:         kind,
		BalanceAfter: dto.BalanceAfter,
		Source:       dto.Source,
	}
	return txn, nil
}

// trimmedPtr treats a blank optional string as absent.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
