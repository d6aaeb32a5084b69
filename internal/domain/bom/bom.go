package bom

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one bill-of-materials entry: the quantity of a raw material needed
// to produce one unit of a given garment section
type Line struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Unit            string          `json:"unit"`
	Piece           string          `json:"piece"`
}

// Lines is a JSONB-stored list of BOM entries
type Lines []Line

// Value implements driver.Valuer for JSONB storage
func (l Lines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading from JSONB
func (l *Lines) Scan(value interface{}) error {
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
		return fmt.Errorf("cannot scan %T into Lines", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, l)
}

// ForPiece returns the lines whose piece matches the given section name,
// compared case-insensitively
func (l Lines) ForPiece(piece string) Lines {
	normalized := strings.ToLower(strings.TrimSpace(piece))
	matched := make(Lines, 0)
	for _, line := range l {
		if strings.ToLower(strings.TrimSpace(line.Piece)) == normalized {
			matched = append(matched, line)
		}
	}
	return matched
}

// Template is the standard bill of materials for a product in one size
type Template struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bom_product_size,priority:1"`
	Size      string    `gorm:"size:20;not null;uniqueIndex:idx_bom_product_size,priority:2"`
	Lines     Lines     `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "bom_templates"
}

// NewTemplate creates a BOM template for a product and size
func NewTemplate(productID uuid.UUID, size string, lines Lines) (*Template, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if size == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size cannot be empty")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	return &Template{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Size:              size,
		Lines:             lines,
	}, nil
}

// CustomBOM is a per-order bill of materials for bespoke sizing, overriding
// any product template
type CustomBOM struct {
	shared.BaseAggregateRoot
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label   string    `gorm:"size:100"`
	Lines   Lines     `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (CustomBOM) TableName() string {
	return "custom_boms"
}

// NewCustomBOM creates a bespoke bill of materials for one order
func NewCustomBOM(orderID uuid.UUID, label string, lines Lines) (*CustomBOM, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	return &CustomBOM{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Label:             label,
		Lines:             lines,
	}, nil
}

func validateLines(lines Lines) error {
	if len(lines) == 0 {
		return shared.NewDomainError("EMPTY_BOM", "Bill of materials must have at least one line")
	}
	for _, line := range lines {
		if line.InventoryItemID == uuid.Nil {
			return shared.NewDomainError("INVALID_LINE", "BOM line must reference an inventory item")
		}
		if line.QuantityPerUnit.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_LINE", "BOM line quantity must be positive")
		}
		if strings.TrimSpace(line.Piece) == "" {
			return shared.NewDomainError("INVALID_LINE", "BOM line must name a piece")
		}
	}
	return nil
}
