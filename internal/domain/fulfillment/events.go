package fulfillment

import (
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the fulfillment context
const (
	EventTypeOrderItemCreated          = "fulfillment.order_item.created"
	EventTypeInventoryCheckCompleted   = "fulfillment.inventory_check.completed"
	EventTypePacketCreated             = "fulfillment.packet.created"
	EventTypePacketExtended            = "fulfillment.packet.extended"
	EventTypeSectionReadyForProduction = "fulfillment.section.ready_for_production"
	EventTypeSectionReadyForDyeing     = "fulfillment.section.ready_for_dyeing"
	EventTypeItemReadyForApproval      = "fulfillment.order_item.ready_for_client_approval"
	EventTypeOrderItemReset            = "fulfillment.order_item.reset"
)

// OrderItemCreatedEvent is published when an order item enters the workflow
type OrderItemCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Pieces  []Piece   `json:"pieces"`
}

// NewOrderItemCreatedEvent creates an OrderItemCreatedEvent
func NewOrderItemCreatedEvent(item *OrderItem) *OrderItemCreatedEvent {
	return &OrderItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemCreated, "OrderItem", item.ID),
		OrderID:         item.OrderID,
		Pieces:          item.Pieces(),
	}
}

// InventoryCheckCompletedEvent is published after a full or partial check pass
type InventoryCheckCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID  `json:"order_id"`
	Status         ItemStatus `json:"status"`
	PassedSections []Piece    `json:"passed_sections"`
	FailedSections []Piece    `json:"failed_sections"`
}

// NewInventoryCheckCompletedEvent creates an InventoryCheckCompletedEvent
func NewInventoryCheckCompletedEvent(item *OrderItem, passed, failed []Piece) *InventoryCheckCompletedEvent {
	return &InventoryCheckCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryCheckCompleted, "OrderItem", item.ID),
		OrderID:         item.OrderID,
		Status:          item.Status,
		PassedSections:  passed,
		FailedSections:  failed,
	}
}

// PacketCreatedEvent is published when a packet is assembled for an item
type PacketCreatedEvent struct {
	shared.BaseDomainEvent
	OrderItemID uuid.UUID `json:"order_item_id"`
	Sections    []Piece   `json:"sections"`
}

// NewPacketCreatedEvent creates a PacketCreatedEvent
func NewPacketCreatedEvent(packet *Packet) *PacketCreatedEvent {
	return &PacketCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePacketCreated, "Packet", packet.ID),
		OrderItemID:     packet.OrderItemID,
		Sections:        packet.SectionsIncluded,
	}
}

// PacketExtendedEvent is published when newly cleared sections merge into an
// existing packet
type PacketExtendedEvent struct {
	shared.BaseDomainEvent
	OrderItemID   uuid.UUID `json:"order_item_id"`
	AddedSections []Piece   `json:"added_sections"`
}

// NewPacketExtendedEvent creates a PacketExtendedEvent
func NewPacketExtendedEvent(packet *Packet, added []Piece) *PacketExtendedEvent {
	return &PacketExtendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePacketExtended, "Packet", packet.ID),
		OrderItemID:     packet.OrderItemID,
		AddedSections:   added,
	}
}

// SectionReadyForProductionEvent is published when a section is released to
// the production floor. The production context subscribes to it to create
// tasks.
type SectionReadyForProductionEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID `json:"order_id"`
	Piece           Piece     `json:"piece"`
	IsAlteration    bool      `json:"is_alteration"`
	AlterationNotes string    `json:"alteration_notes,omitempty"`
}

// NewSectionReadyForProductionEvent creates a SectionReadyForProductionEvent
func NewSectionReadyForProductionEvent(item *OrderItem, piece Piece, isAlteration bool, notes string) *SectionReadyForProductionEvent {
	return &SectionReadyForProductionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSectionReadyForProduction, "OrderItem", item.ID),
		OrderID:         item.OrderID,
		Piece:           piece,
		IsAlteration:    isAlteration,
		AlterationNotes: notes,
	}
}

// SectionReadyForDyeingEvent is published when a section finishes stitching
type SectionReadyForDyeingEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	Piece       Piece     `json:"piece"`
	DyeingRound int       `json:"dyeing_round"`
}

// NewSectionReadyForDyeingEvent creates a SectionReadyForDyeingEvent
func NewSectionReadyForDyeingEvent(item *OrderItem, piece Piece, round int) *SectionReadyForDyeingEvent {
	return &SectionReadyForDyeingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSectionReadyForDyeing, "OrderItem", item.ID),
		OrderID:         item.OrderID,
		Piece:           piece,
		DyeingRound:     round,
	}
}

// ItemReadyForClientApprovalEvent is published when every section of an item
// has cleared dyeing and QA can record the walkthrough video
type ItemReadyForClientApprovalEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewItemReadyForClientApprovalEvent creates an ItemReadyForClientApprovalEvent
func NewItemReadyForClientApprovalEvent(item *OrderItem) *ItemReadyForClientApprovalEvent {
	return &ItemReadyForClientApprovalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemReadyForApproval, "OrderItem", item.ID),
		OrderID:         item.OrderID,
	}
}

// OrderItemResetEvent is published when an item is sent back to square one
type OrderItemResetEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// NewOrderItemResetEvent creates an OrderItemResetEvent
func NewOrderItemResetEvent(item *OrderItem, reason string) *OrderItemResetEvent {
	return &OrderItemResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemReset, "OrderItem", item.ID),
		OrderID:         item.OrderID,
		Reason:          reason,
	}
}
