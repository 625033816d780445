// Package roster holds the student records and their two fee payments.
// The roster lives in a flat CSV file; identity is positional (row index),
// so there is no enforced uniqueness on the IC number.
package roster

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payment status values as they appear in the CSV file and on receipts.
const (
	StatusUnpaid = "Belum Bayar"
	StatusPaid   = "Sudah Bayar"
)

// Category identifies one of the two hostel fees. The set is fixed; only
// the display label is configurable.
type Category int

const (
	Mengaji Category = iota
	Silat
)

// Categories returns both fee categories in display order.
func Categories() []Category {
	return []Category{Mengaji, Silat}
}

// Key returns the lowercase identifier used in filenames and config labels.
func (c Category) Key() string {
	if c == Silat {
		return "silat"
	}
	return "mengaji"
}

// FeePayment tracks one fee category on one student. PaidDate stays empty
// until the fee is settled; receipts substitute the current date for it.
type FeePayment struct {
	Status   string
	Amount   decimal.Decimal
	PaidDate string
}

// Paid reports whether the fee has been settled.
func (p FeePayment) Paid() bool {
	return p.Status == StatusPaid
}

// Record is one student row. The two fee payments are independent; settling
// one never touches the other.
type Record struct {
	Name     string
	IDNumber string
	Grade    string
	Class    string
	Mengaji  FeePayment
	Silat    FeePayment
}

// Fee returns a pointer to the payment for the given category so callers
// can mutate it in place.
func (r *Record) Fee(c Category) *FeePayment {
	if c == Silat {
		return &r.Silat
	}
	return &r.Mengaji
}

// Payment returns the payment for the given category by value.
func (r Record) Payment(c Category) FeePayment {
	if c == Silat {
		return r.Silat
	}
	return r.Mengaji
}

// Normalize trims free-text fields and clamps both amounts so the
// non-negative invariant holds no matter where the record came from.
func (r *Record) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.Grade = strings.TrimSpace(r.Grade)
	r.Class = strings.TrimSpace(r.Class)
	for _, c := range Categories() {
		fee := r.Fee(c)
		if fee.Status != StatusPaid {
			fee.Status = StatusUnpaid
		}
		fee.Amount = clampAmount(fee.Amount)
		fee.PaidDate = strings.TrimSpace(fee.PaidDate)
	}
}

// Matches reports whether the query appears in any searchable field.
func (r Record) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{r.Name, r.IDNumber, r.Grade, r.Class} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// ParseAmount coerces free text to a non-negative decimal. Unparsable or
// negative input becomes zero rather than an error.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return clampAmount(d)
}

func clampAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
