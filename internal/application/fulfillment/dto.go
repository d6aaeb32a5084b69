package fulfillment

import (
	"time"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest adds one garment to an order. Exactly one of
// ProductID and CustomBOMID must be set. Sections come from the included
// pieces plus any selected add-ons; duplicate names collapse.
type CreateOrderItemRequest struct {
	ProductID      *uuid.UUID      `json:"product_id"`
	CustomBOMID    *uuid.UUID      `json:"custom_bom_id"`
	Size           string          `json:"size"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	IncludedPieces []string        `json:"included_pieces" binding:"required,min=1"`
	AddOnPieces    []string        `json:"add_on_pieces"`
}

// VerifyPacketRequest confirms the physical packet against its pick list
type VerifyPacketRequest struct {
	VerifiedBy string `json:"verified_by" binding:"required"`
}

// SectionStateResponse is the API view of one section's workflow state
type SectionStateResponse struct {
	Piece           string                            `json:"piece"`
	Status          string                            `json:"status"`
	QAStatus        string                            `json:"qa_status"`
	CheckResult     *fulfillment.InventoryCheckResult `json:"check_result,omitempty"`
	PickList        []fulfillment.PickListEntry       `json:"pick_list,omitempty"`
	IsAlteration    bool                              `json:"is_alteration,omitempty"`
	AlterationNotes string                            `json:"alteration_notes,omitempty"`
	DyeingRound     int                               `json:"dyeing_round,omitempty"`
}

// OrderItemResponse is the API view of an order item
type OrderItemResponse struct {
	ID                   uuid.UUID                         `json:"id"`
	OrderID              uuid.UUID                         `json:"order_id"`
	ProductID            *uuid.UUID                        `json:"product_id,omitempty"`
	CustomBOMID          *uuid.UUID                        `json:"custom_bom_id,omitempty"`
	Size                 string                            `json:"size,omitempty"`
	Quantity             decimal.Decimal                   `json:"quantity"`
	Status               string                            `json:"status"`
	Sections             []SectionStateResponse            `json:"sections"`
	MaterialRequirements []fulfillment.MaterialRequirement `json:"material_requirements,omitempty"`
	PacketID             *uuid.UUID                        `json:"packet_id,omitempty"`
	LastInventoryCheckAt *time.Time                        `json:"last_inventory_check_at,omitempty"`
	VideoData            *fulfillment.VideoData            `json:"video_data,omitempty"`
	CreatedAt            time.Time                         `json:"created_at"`
	UpdatedAt            time.Time                         `json:"updated_at"`
}

// InventoryCheckResponse summarizes a full check pass
type InventoryCheckResponse struct {
	OrderItem      OrderItemResponse `json:"order_item"`
	PassedSections []string          `json:"passed_sections"`
	FailedSections []string          `json:"failed_sections"`
}

// RerunResponse summarizes a rerun pass, including the sections skipped
// because their demands were still open
type RerunResponse struct {
	OrderItem       OrderItemResponse `json:"order_item"`
	PassedSections  []string          `json:"passed_sections"`
	BlockedSections []string          `json:"blocked_sections"`
	SkippedSections []string          `json:"skipped_sections"`
}

// PacketResponse is the API view of a packet
type PacketResponse struct {
	ID               uuid.UUID                   `json:"id"`
	OrderItemID      uuid.UUID                   `json:"order_item_id"`
	OrderID          uuid.UUID                   `json:"order_id"`
	Code             string                      `json:"code"`
	Status           string                      `json:"status"`
	IsPartial        bool                        `json:"is_partial"`
	SectionsIncluded []string                    `json:"sections_included"`
	SectionsPending  []string                    `json:"sections_pending"`
	PickList         []fulfillment.PickListEntry `json:"pick_list"`
	VerifiedAt       *time.Time                  `json:"verified_at,omitempty"`
	VerifiedBy       string                      `json:"verified_by,omitempty"`
}

// ToOrderItemResponse converts an OrderItem aggregate to its API view
func ToOrderItemResponse(item *fulfillment.OrderItem) OrderItemResponse {
	sections := make([]SectionStateResponse, 0, len(item.Sections))
	for _, piece := range item.Pieces() {
		state := item.Sections[piece]
		sections = append(sections, SectionStateResponse{
			Piece:           piece.String(),
			Status:          state.Status.String(),
			QAStatus:        string(state.QAStatus),
			CheckResult:     state.CheckResult,
			PickList:        state.PickList,
			IsAlteration:    state.IsAlteration,
			AlterationNotes: state.AlterationNotes,
			DyeingRound:     state.DyeingRound,
		})
	}
	return OrderItemResponse{
		ID:                   item.ID,
		OrderID:              item.OrderID,
		ProductID:            item.ProductID,
		CustomBOMID:          item.CustomBOMID,
		Size:                 item.Size,
		Quantity:             item.Quantity,
		Status:               item.Status.String(),
		Sections:             sections,
		MaterialRequirements: item.MaterialRequirements,
		PacketID:             item.PacketID,
		LastInventoryCheckAt: item.LastInventoryCheckAt,
		VideoData:            item.VideoData,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

// ToInventoryCheckResponse builds the check summary from the item's section
// states after a full check
func ToInventoryCheckResponse(item *fulfillment.OrderItem) InventoryCheckResponse {
	passed, failed := splitSections(item)
	return InventoryCheckResponse{
		OrderItem:      ToOrderItemResponse(item),
		PassedSections: passed,
		FailedSections: failed,
	}
}

// ToRerunResponse builds the rerun summary
func ToRerunResponse(item *fulfillment.OrderItem, skipped []fulfillment.Piece) RerunResponse {
	passed, blocked := splitSections(item)
	skippedNames := make([]string, 0, len(skipped))
	for _, piece := range skipped {
		skippedNames = append(skippedNames, piece.String())
	}
	return RerunResponse{
		OrderItem:       ToOrderItemResponse(item),
		PassedSections:  passed,
		BlockedSections: blocked,
		SkippedSections: skippedNames,
	}
}

// ToPacketResponse converts a Packet aggregate to its API view
func ToPacketResponse(packet *fulfillment.Packet) PacketResponse {
	return PacketResponse{
		ID:               packet.ID,
		OrderItemID:      packet.OrderItemID,
		OrderID:          packet.OrderID,
		Code:             packet.Code,
		Status:           packet.Status.String(),
		IsPartial:        packet.IsPartial,
		SectionsIncluded: pieceNames(packet.SectionsIncluded),
		SectionsPending:  pieceNames(packet.SectionsPending),
		PickList:         packet.PickList,
		VerifiedAt:       packet.VerifiedAt,
		VerifiedBy:       packet.VerifiedBy,
	}
}

func splitSections(item *fulfillment.OrderItem) (cleared, blocked []string) {
	cleared = make([]string, 0, len(item.Sections))
	blocked = make([]string, 0)
	for _, piece := range item.Pieces() {
		if item.Sections[piece].Status.HasClearedInventory() {
			cleared = append(cleared, piece.String())
		} else {
			blocked = append(blocked, piece.String())
		}
	}
	return cleared, blocked
}

func pieceNames(pieces fulfillment.PieceList) []string {
	names := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		names = append(names, piece.String())
	}
	return names
}
