package bom

import (
	"context"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest is one BOM line in a create request
type LineRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" binding:"required"`
	Unit            string          `json:"unit" binding:"required"`
	Piece           string          `json:"piece" binding:"required"`
}

// CreateTemplateRequest defines the standard BOM of a product in one size
type CreateTemplateRequest struct {
	ProductID uuid.UUID     `json:"product_id" binding:"required"`
	Size      string        `json:"size" binding:"required"`
	Lines     []LineRequest `json:"lines" binding:"required,min=1"`
}

// CreateCustomBOMRequest defines a bespoke BOM for one order
type CreateCustomBOMRequest struct {
	OrderID uuid.UUID     `json:"order_id" binding:"required"`
	Label   string        `json:"label"`
	Lines   []LineRequest `json:"lines" binding:"required,min=1"`
}

// Service manages BOM templates and per-order custom BOMs
type Service struct {
	repo bom.Repository
}

// NewService creates a new BOM service
func NewService(repo bom.Repository) *Service {
	return &Service{repo: repo}
}

// CreateTemplate stores the standard BOM for a product and size
func (s *Service) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*bom.Template, error) {
	template, err := bom.NewTemplate(req.ProductID, req.Size, toLines(req.Lines))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// CreateCustomBOM stores a bespoke BOM for an order
func (s *Service) CreateCustomBOM(ctx context.Context, req CreateCustomBOMRequest) (*bom.CustomBOM, error) {
	custom, err := bom.NewCustomBOM(req.OrderID, req.Label, toLines(req.Lines))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCustomBOM(ctx, custom); err != nil {
		return nil, err
	}
	return custom, nil
}

// GetTemplate returns the BOM template for a product and size
func (s *Service) GetTemplate(ctx context.Context, productID uuid.UUID, size string) (*bom.Template, error) {
	return s.repo.FindTemplate(ctx, productID, size)
}

// ListCustomBOMs returns the custom BOMs of an order
func (s *Service) ListCustomBOMs(ctx context.Context, orderID uuid.UUID) ([]*bom.CustomBOM, error) {
	return s.repo.FindCustomBOMsByOrderID(ctx, orderID)
}

func toLines(reqs []LineRequest) bom.Lines {
	lines := make(bom.Lines, 0, len(reqs))
	for _, req := range reqs {
		lines = append(lines, bom.Line{
			InventoryItemID: req.InventoryItemID,
			QuantityPerUnit: req.QuantityPerUnit,
			Unit:            req.Unit,
			Piece:           req.Piece,
		})
	}
	return lines
}
