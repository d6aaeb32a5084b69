package approval

import (
	"time"

	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientApprovedRequest carries the client's approval evidence
type ClientApprovedRequest struct {
	Screenshots []string `json:"screenshots" binding:"required,min=1"`
	Notes       string   `json:"notes"`
}

// AlterationSectionRequest names the sections of one item to alter
type AlterationSectionRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	Sections    []string  `json:"sections" binding:"required,min=1"`
}

// RequestAlterationRequest sends named sections back to production
type RequestAlterationRequest struct {
	Items       []AlterationSectionRequest `json:"items" binding:"required,min=1"`
	Notes       string                     `json:"notes" binding:"required"`
	RequestedBy string                     `json:"requested_by"`
}

// RequestReVideoRequest asks QA to re-record sections of one item
type RequestReVideoRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	Sections    []string  `json:"sections" binding:"required,min=1"`
	Notes       string    `json:"notes"`
}

// ClientRejectedRequest cancels the order at the client's request
type ClientRejectedRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// StartFromScratchRequest confirms the full workflow rollback
type StartFromScratchRequest struct {
	Confirm bool   `json:"confirm" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// RecordPaymentRequest records one received payment
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	ReceiptRef string          `json:"receipt_ref" binding:"required"`
	Note       string          `json:"note"`
}

// CaptureVideoRequest records the QA walkthrough video for an item
type CaptureVideoRequest struct {
	URL        string `json:"url" binding:"required"`
	CapturedBy string `json:"captured_by"`
	Notes      string `json:"notes"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	OrderNumber        string                    `json:"order_number"`
	ClientName         string                    `json:"client_name"`
	ClientPhone        string                    `json:"client_phone,omitempty"`
	TotalAmount        decimal.Decimal           `json:"total_amount"`
	PaidAmount         decimal.Decimal           `json:"paid_amount"`
	RemainingAmount    decimal.Decimal           `json:"remaining_amount"`
	PaymentStatus      string                    `json:"payment_status"`
	Status             string                    `json:"status"`
	Payments           order.PaymentRecords      `json:"payments"`
	SentToClientAt     *time.Time                `json:"sent_to_client_at,omitempty"`
	ClientApprovalData *order.ClientApprovalData `json:"client_approval_data,omitempty"`
	RejectionReason    string                    `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// ToOrderResponse converts an Order aggregate to its API view
func ToOrderResponse(o *order.Order) OrderResponse {
	paid := o.Payments.Total()
	return OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		ClientName:         o.ClientName,
		ClientPhone:        o.ClientPhone,
		TotalAmount:        o.TotalAmount.Amount(),
		PaidAmount:         paid.Amount(),
		RemainingAmount:    order.RemainingAmount(paid, o.TotalAmount),
		PaymentStatus:      o.PaymentStatus.String(),
		Status:             o.Status.String(),
		Payments:           o.Payments,
		SentToClientAt:     o.SentToClientAt,
		ClientApprovalData: o.ClientApprovalData,
		RejectionReason:    o.RejectionReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
