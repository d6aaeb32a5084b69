package procurement

import (
	"context"
	"time"

	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemandService exposes the procurement side of the workflow: listing the
// shortages raised by failed checks and walking each demand through its
// purchase lifecycle. Demands are created only by the check engines; this
// service never raises them itself.
type DemandService struct {
	demandRepo procurement.Repository
}

// NewDemandService creates a new DemandService
func NewDemandService(demandRepo procurement.Repository) *DemandService {
	return &DemandService{demandRepo: demandRepo}
}

// DemandResponse is the API view of a procurement demand
type DemandResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	OrderItemID     uuid.UUID       `json:"order_item_id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	ItemName        string          `json:"item_name"`
	RequiredQty     decimal.Decimal `json:"required_qty"`
	AvailableQty    decimal.Decimal `json:"available_qty"`
	ShortageQty     decimal.Decimal `json:"shortage_qty"`
	Unit            string          `json:"unit"`
	AffectedSection string          `json:"affected_section"`
	Status          string          `json:"status"`
	OrderedAt       *time.Time      `json:"ordered_at,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToDemandResponse converts a Demand aggregate to its API view
func ToDemandResponse(d *procurement.Demand) DemandResponse {
	return DemandResponse{
		ID:              d.ID,
		OrderID:         d.OrderID,
		OrderItemID:     d.OrderItemID,
		InventoryItemID: d.InventoryItemID,
		SKU:             d.SKU,
		ItemName:        d.ItemName,
		RequiredQty:     d.RequiredQty,
		AvailableQty:    d.AvailableQty,
		ShortageQty:     d.ShortageQty,
		Unit:            d.Unit,
		AffectedSection: d.AffectedSection,
		Status:          d.Status.String(),
		OrderedAt:       d.OrderedAt,
		ReceivedAt:      d.ReceivedAt,
		FulfilledAt:     d.FulfilledAt,
		CreatedAt:       d.CreatedAt,
	}
}

// ListByOrderItem returns every demand for an order item
func (s *DemandService) ListByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]DemandResponse, error) {
	demands, err := s.demandRepo.FindByOrderItemID(ctx, orderItemID)
	if err != nil {
		return nil, err
	}
	responses := make([]DemandResponse, 0, len(demands))
	for _, demand := range demands {
		responses = append(responses, ToDemandResponse(demand))
	}
	return responses, nil
}

// ListByStatus returns demands in a given lifecycle state
func (s *DemandService) ListByStatus(ctx context.Context, status procurement.DemandStatus, limit, offset int) ([]DemandResponse, error) {
	demands, err := s.demandRepo.FindByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]DemandResponse, 0, len(demands))
	for _, demand := range demands {
		responses = append(responses, ToDemandResponse(demand))
	}
	return responses, nil
}

// MarkOrdered records that a purchase order covers the demand
func (s *DemandService) MarkOrdered(ctx context.Context, demandID uuid.UUID) (*DemandResponse, error) {
	return s.advance(ctx, demandID, (*procurement.Demand).MarkOrdered)
}

// MarkReceived records that the ordered material arrived. The section stays
// blocked until a rerun verifies the new stock and fulfills the demand.
func (s *DemandService) MarkReceived(ctx context.Context, demandID uuid.UUID) (*DemandResponse, error) {
	return s.advance(ctx, demandID, (*procurement.Demand).MarkReceived)
}

// Cancel closes the demand without fulfillment
func (s *DemandService) Cancel(ctx context.Context, demandID uuid.UUID) (*DemandResponse, error) {
	return s.advance(ctx, demandID, (*procurement.Demand).Cancel)
}

func (s *DemandService) advance(ctx context.Context, demandID uuid.UUID, op func(*procurement.Demand) error) (*DemandResponse, error) {
	demand, err := s.demandRepo.FindByID(ctx, demandID)
	if err != nil {
		return nil, err
	}
	if err := op(demand); err != nil {
		return nil, err
	}
	if err := s.demandRepo.Save(ctx, demand); err != nil {
		return nil, err
	}
	response := ToDemandResponse(demand)
	return &response, nil
}
