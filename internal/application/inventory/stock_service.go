package inventory

import (
	"context"
	"time"

	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest registers a raw material in the ledger
type CreateItemRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit" binding:"required"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// StockChangeRequest moves stock in or out of the ledger
type StockChangeRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Note     string          `json:"note"`
}

// ItemResponse is the API view of an inventory item
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MovementResponse is the API view of a stock movement
type MovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	OrderItemID     *uuid.UUID      `json:"order_item_id,omitempty"`
	Piece           string          `json:"piece,omitempty"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToItemResponse converts an InventoryItem aggregate to its API view
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		Category:          item.Category,
		Unit:              item.Unit,
		AvailableQuantity: item.AvailableQuantity,
		MinQuantity:       item.MinQuantity,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// ToMovementResponse converts a StockMovement to its API view
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		InventoryItemID: m.InventoryItemID,
		MovementType:    m.MovementType.String(),
		Quantity:        m.Quantity,
		BalanceAfter:    m.BalanceAfter,
		OrderID:         m.Reference.OrderID,
		OrderItemID:     m.Reference.OrderItemID,
		Piece:           m.Reference.Piece,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt,
	}
}

// StockService is the simple stock-in/stock-out collaborator. The check and
// rerun engines deduct stock themselves inside their own transactions; this
// service covers manual receiving, corrections and queries.
type StockService struct {
	itemRepo     inventory.Repository
	movementRepo inventory.MovementRepository
}

// NewStockService creates a new StockService
func NewStockService(itemRepo inventory.Repository, movementRepo inventory.MovementRepository) *StockService {
	return &StockService{itemRepo: itemRepo, movementRepo: movementRepo}
}

// CreateItem registers a raw material
func (s *StockService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := inventory.NewInventoryItem(req.SKU, req.Name, req.Category, req.Unit)
	if err != nil {
		return nil, err
	}
	item.MinQuantity = req.MinQuantity
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetItem returns one inventory item
func (s *StockService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// ListItems returns inventory items page by page
func (s *StockService) ListItems(ctx context.Context, limit, offset int) ([]ItemResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	items, err := s.itemRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToItemResponse(item))
	}
	return responses, nil
}

// StockIn receives material into the ledger
func (s *StockService) StockIn(ctx context.Context, itemID uuid.UUID, req StockChangeRequest) (*ItemResponse, error) {
	return s.change(ctx, itemID, func(item *inventory.InventoryItem) (*inventory.StockMovement, error) {
		return item.Restock(req.Quantity, inventory.MovementReference{}, req.Note)
	})
}

// StockOut removes material from the ledger outside the workflow (damage,
// manual use)
func (s *StockService) StockOut(ctx context.Context, itemID uuid.UUID, req StockChangeRequest) (*ItemResponse, error) {
	return s.change(ctx, itemID, func(item *inventory.InventoryItem) (*inventory.StockMovement, error) {
		return item.Deduct(req.Quantity, inventory.MovementReference{}, req.Note)
	})
}

// Adjust corrects the ledger to a counted quantity
func (s *StockService) Adjust(ctx context.Context, itemID uuid.UUID, counted decimal.Decimal, note string) (*ItemResponse, error) {
	return s.change(ctx, itemID, func(item *inventory.InventoryItem) (*inventory.StockMovement, error) {
		return item.Adjust(counted, note)
	})
}

// ListMovements returns the movement history of an item
func (s *StockService) ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]MovementResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	movements, err := s.movementRepo.FindByInventoryItemID(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, 0, len(movements))
	for _, movement := range movements {
		responses = append(responses, ToMovementResponse(movement))
	}
	return responses, nil
}

func (s *StockService) change(ctx context.Context, itemID uuid.UUID, op func(*inventory.InventoryItem) (*inventory.StockMovement, error)) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	movement, err := op(item)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if movement != nil {
		if err := s.movementRepo.Save(ctx, movement); err != nil {
			return nil, err
		}
	}
	response := ToItemResponse(item)
	return &response, nil
}
