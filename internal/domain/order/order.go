package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/garmentflow/backend/internal/domain/shared/valueobject"
)

// Status represents the top-level status of an order
type Status string

const (
	StatusInventoryCheck          Status = "INVENTORY_CHECK"
	StatusInProgress              Status = "IN_PROGRESS"
	StatusReadyForClientApproval  Status = "READY_FOR_CLIENT_APPROVAL"
	StatusAwaitingClientApproval  Status = "AWAITING_CLIENT_APPROVAL"
	StatusAlterationRequired      Status = "ALTERATION_REQUIRED"
	StatusAwaitingAccountApproval Status = "AWAITING_ACCOUNT_APPROVAL"
	StatusReadyForDispatch        Status = "READY_FOR_DISPATCH"
	StatusCancelledByClient       Status = "CANCELLED_BY_CLIENT"
)

// IsValid checks if the status is a valid order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusInventoryCheck, StatusInProgress, StatusReadyForClientApproval,
		StatusAwaitingClientApproval, StatusAlterationRequired,
		StatusAwaitingAccountApproval, StatusReadyForDispatch,
		StatusCancelledByClient:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The start-from-scratch reset bypasses this table through
// ResetToInventoryCheck.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusInventoryCheck:
		return target == StatusInProgress || target == StatusReadyForClientApproval
	case StatusInProgress:
		return target == StatusReadyForClientApproval
	case StatusReadyForClientApproval:
		return target == StatusAwaitingClientApproval
	case StatusAwaitingClientApproval:
		return target == StatusAwaitingAccountApproval ||
			target == StatusAlterationRequired ||
			target == StatusReadyForClientApproval ||
			target == StatusCancelledByClient
	case StatusAlterationRequired:
		return target == StatusReadyForClientApproval
	case StatusAwaitingAccountApproval:
		return target == StatusReadyForDispatch
	case StatusReadyForDispatch:
		return false // Terminal
	case StatusCancelledByClient:
		return false // Terminal
	}
	return false
}

// ClientApprovalData captures the evidence the client sent when approving
type ClientApprovalData struct {
	Screenshots []string  `json:"screenshots"`
	Notes       string    `json:"notes,omitempty"`
	ApprovedAt  time.Time `json:"approved_at"`
}

// Value implements driver.Valuer for JSONB storage
func (d ClientApprovalData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading from JSONB
func (d *ClientApprovalData) Scan(value interface{}) error {
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
		return fmt.Errorf("cannot scan %T into ClientApprovalData", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, d)
}

// Order is the aggregate root for the sales side of fulfillment: totals,
// recorded payments, the client-approval gate and the account-approval gate.
// It owns its order items by id reference only; the items live in the
// fulfillment context.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber        string              `gorm:"size:40;not null;uniqueIndex"`
	ClientName         string              `gorm:"size:200;not null"`
	ClientPhone        string              `gorm:"size:30"`
	TotalAmount        valueobject.Money   `gorm:"type:jsonb;not null"`
	Payments           PaymentRecords      `gorm:"type:jsonb"`
	PaymentStatus      PaymentStatus       `gorm:"size:20;not null"`
	Status             Status              `gorm:"size:40;not null;index"`
	SentToClientAt     *time.Time
	ClientApprovalData *ClientApprovalData `gorm:"type:jsonb"`
	RejectionReason    string              `gorm:"size:500"`
	Timeline           shared.Timeline     `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order at the start of the fulfillment workflow
func NewOrder(orderNumber, clientName, clientPhone string, totalAmount valueobject.Money) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	ord := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		ClientName:        clientName,
		ClientPhone:       clientPhone,
		TotalAmount:       totalAmount,
		Payments:          make(PaymentRecords, 0),
		PaymentStatus:     PaymentStatusPending,
		Status:            StatusInventoryCheck,
		Timeline:          shared.Timeline{}.Append("created", orderNumber),
	}
	ord.AddDomainEvent(NewOrderCreatedEvent(ord))

	return ord, nil
}

// RecordPayment appends a payment and re-derives the payment status. Payments
// may be recorded in any order status short of cancellation.
func (o *Order) RecordPayment(amount valueobject.Money, receiptRef, note string) error {
	if o.Status == StatusCancelledByClient {
		return shared.NewDomainError("INVALID_STATE", "Cannot record payment on a cancelled order")
	}
	if amount.IsZero() || amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if receiptRef == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt reference cannot be empty")
	}
	o.Payments = append(o.Payments, PaymentRecord{
		Amount:     amount,
		ReceiptRef: receiptRef,
		Note:       note,
		CreatedAt:  time.Now(),
	})
	o.PaymentStatus = derivePaymentStatus(o.Payments.Total(), o.TotalAmount)
	o.Timeline = o.Timeline.Append("payment_recorded", fmt.Sprintf("%s (%s)", amount, receiptRef))
	o.UpdatedAt = time.Now()
	return nil
}

// MarkInProgress records that production work started on the order
func (o *Order) MarkInProgress() error {
	return o.transition(StatusInProgress, "in_progress", "")
}

// MarkReadyForClientApproval records that every item cleared QA
func (o *Order) MarkReadyForClientApproval() error {
	return o.transition(StatusReadyForClientApproval, "ready_for_client_approval", "")
}

// SendToClient shares the QA evidence with the client and starts the
// approval clock
func (o *Order) SendToClient() error {
	if err := o.transition(StatusAwaitingClientApproval, "sent_to_client", ""); err != nil {
		return err
	}
	now := time.Now()
	o.SentToClientAt = &now
	return nil
}

// ClientApproved records the client's approval. At least one approval
// artifact (screenshot) is required as evidence.
func (o *Order) ClientApproved(screenshots []string, notes string) error {
	if len(screenshots) == 0 {
		return shared.NewDomainError("MISSING_APPROVAL_ARTIFACT", "Client approval requires at least one screenshot")
	}
	if err := o.transition(StatusAwaitingAccountApproval, "client_approved", fmt.Sprintf("%d screenshot(s)", len(screenshots))); err != nil {
		return err
	}
	o.ClientApprovalData = &ClientApprovalData{
		Screenshots: screenshots,
		Notes:       notes,
		ApprovedAt:  time.Now(),
	}
	return nil
}

// MarkAlterationRequired records that the client asked for changes
func (o *Order) MarkAlterationRequired(notes string) error {
	return o.transition(StatusAlterationRequired, "alteration_requested", notes)
}

// MarkReVideoRequested pulls the order back so QA can re-record
func (o *Order) MarkReVideoRequested() error {
	return o.transition(StatusReadyForClientApproval, "re_video_requested", "")
}

// ClientRejected cancels the order at the client's request
func (o *Order) ClientRejected(reason string) error {
	if err := o.transition(StatusCancelledByClient, "client_rejected", reason); err != nil {
		return err
	}
	o.RejectionReason = reason
	return nil
}

// ApprovePayments is the account-approval gate: it fails closed unless
// cumulative payments cover the order total, reporting the remaining amount.
func (o *Order) ApprovePayments() error {
	if o.Status != StatusAwaitingAccountApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve payments in %s status", o.Status))
	}
	paid := o.Payments.Total()
	if !paid.GreaterThanOrEqual(o.TotalAmount) {
		remaining := RemainingAmount(paid, o.TotalAmount)
		return shared.NewDomainError("INSUFFICIENT_PAYMENT",
			fmt.Sprintf("Payments of %s do not cover total %s; remaining %s", paid, o.TotalAmount, remaining.StringFixed(2)))
	}
	if err := o.transition(StatusReadyForDispatch, "payments_approved", paid.String()); err != nil {
		return err
	}
	o.AddDomainEvent(NewPaymentsApprovedEvent(o))
	return nil
}

// ResetToInventoryCheck is the order half of the start-from-scratch rollback.
// Sales-only fields are discarded; payments and their derived status survive.
func (o *Order) ResetToInventoryCheck(reason string) error {
	if o.Status != StatusAwaitingClientApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start from scratch in %s status", o.Status))
	}
	o.Status = StatusInventoryCheck
	o.SentToClientAt = nil
	o.ClientApprovalData = nil
	o.Timeline = o.Timeline.Append("start_from_scratch", reason)
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderResetEvent(o, reason))
	return nil
}

// transition applies a table-checked status change with a timeline entry
func (o *Order) transition(target Status, event, detail string) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.Timeline = o.Timeline.Append(event, detail)
	o.UpdatedAt = time.Now()
	return nil
}
