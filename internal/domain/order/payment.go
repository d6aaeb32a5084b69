package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from recorded payments against the order total
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusExtraPaid PaymentStatus = "EXTRA_PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusExtraPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentRecord is one payment received against an order
type PaymentRecord struct {
	Amount     valueobject.Money `json:"amount"`
	ReceiptRef string            `json:"receipt_ref"`
	Note       string            `json:"note,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// PaymentRecords is the list of payments stored as JSONB
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for JSONB storage
func (r PaymentRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for reading from JSONB
func (r *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentRecords", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, r)
}

// Total sums all recorded payment amounts
func (r PaymentRecords) Total() valueobject.Money {
	total := valueobject.ZeroINR()
	for _, record := range r {
		sum, err := total.Add(record.Amount)
		if err != nil {
			continue
		}
		total = sum
	}
	return total
}

// derivePaymentStatus computes the payment status from paid vs total
func derivePaymentStatus(paid, total valueobject.Money) PaymentStatus {
	switch {
	case paid.Amount().GreaterThan(total.Amount()):
		return PaymentStatusExtraPaid
	case paid.Amount().Equal(total.Amount()) && !total.IsZero():
		return PaymentStatusPaid
	default:
		return PaymentStatusPending
	}
}

// RemainingAmount computes how much is still owed; never negative
func RemainingAmount(paid, total valueobject.Money) decimal.Decimal {
	remaining := total.Amount().Sub(paid.Amount())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
