package fulfillment

import (
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PacketStatus tracks the lifecycle of a physical material packet
type PacketStatus string

const (
	PacketStatusAssembled PacketStatus = "ASSEMBLED"
	PacketStatusVerified  PacketStatus = "VERIFIED"
	PacketStatusReleased  PacketStatus = "RELEASED"
)

// IsValid checks if the status is a valid PacketStatus
func (s PacketStatus) IsValid() bool {
	switch s {
	case PacketStatusAssembled, PacketStatusVerified, PacketStatusReleased:
		return true
	}
	return false
}

// String returns the string representation of PacketStatus
func (s PacketStatus) String() string {
	return string(s)
}

// Packet is the physical bundle of reserved materials for one order item.
// At most one packet ever exists per order item: sections that clear their
// material check later merge into the existing packet instead of creating a
// second one. A partial packet carries the still-blocked sections in
// SectionsPending.
type Packet struct {
	shared.BaseAggregateRoot
	OrderItemID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID          uuid.UUID    `gorm:"type:uuid;not null;index"`
	Code             string       `gorm:"size:40;not null;uniqueIndex"`
	Status           PacketStatus `gorm:"size:20;not null"`
	IsPartial        bool         `gorm:"not null;default:false"`
	SectionsIncluded PieceList    `gorm:"type:jsonb;not null"`
	SectionsPending  PieceList    `gorm:"type:jsonb;not null"`
	PickList         PickList     `gorm:"type:jsonb;not null"`
	VerifiedAt       *time.Time
	VerifiedBy       string `gorm:"size:100"`
}

// TableName returns the table name for GORM
func (Packet) TableName() string {
	return "packets"
}

// NewPacket assembles the packet for an order item from the sections that
// have cleared their material check. Sections still awaiting material go into
// the pending list and mark the packet partial.
func NewPacket(orderItemID, orderID uuid.UUID, included, pending []Piece, pickList PickList) (*Packet, error) {
	if orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ITEM", "Order item ID cannot be empty")
	}
	if len(included) == 0 {
		return nil, shared.NewDomainError("EMPTY_PACKET", "Packet must include at least one section")
	}

	packet := &Packet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderItemID:       orderItemID,
		OrderID:           orderID,
		Status:            PacketStatusAssembled,
		IsPartial:         len(pending) > 0,
		SectionsIncluded:  append(PieceList{}, included...),
		SectionsPending:   append(PieceList{}, pending...),
		PickList:          pickList,
	}
	packet.Code = generatePacketCode(packet.ID)
	packet.AddDomainEvent(NewPacketCreatedEvent(packet))

	return packet, nil
}

// Merge folds newly cleared sections and their reserved materials into the
// packet: each section moves from pending to included and its materials extend
// the pick list. A verified packet drops back to ASSEMBLED so the added
// materials get re-verified against the physical bundle.
func (p *Packet) Merge(sections []Piece, pickList PickList) error {
	if p.Status == PacketStatusReleased {
		return shared.NewDomainError("INVALID_STATE", "Cannot merge into a released packet")
	}
	added := make([]Piece, 0, len(sections))
	for _, piece := range sections {
		if p.SectionsIncluded.Contains(piece) {
			return shared.NewDomainError("SECTION_ALREADY_PACKED", fmt.Sprintf("Section %q is already in the packet", piece))
		}
		p.SectionsIncluded = append(p.SectionsIncluded, piece)
		p.SectionsPending = p.SectionsPending.Remove(piece)
		added = append(added, piece)
	}
	p.PickList = append(p.PickList, pickList...)
	p.IsPartial = len(p.SectionsPending) > 0
	if p.Status == PacketStatusVerified {
		p.Status = PacketStatusAssembled
		p.VerifiedAt = nil
		p.VerifiedBy = ""
	}
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPacketExtendedEvent(p, added))
	return nil
}

// Evict removes a rejected section and its reserved materials from the packet.
// The section moves back to pending and the packet drops to ASSEMBLED so the
// replacement materials a later rerun merges in get re-verified.
func (p *Packet) Evict(piece Piece) error {
	if !p.SectionsIncluded.Contains(piece) {
		return shared.NewDomainError("SECTION_NOT_PACKED", fmt.Sprintf("Section %q is not in the packet", piece))
	}
	p.SectionsIncluded = p.SectionsIncluded.Remove(piece)
	if !p.SectionsPending.Contains(piece) {
		p.SectionsPending = append(p.SectionsPending, piece)
	}
	kept := make(PickList, 0, len(p.PickList))
	for _, entry := range p.PickList {
		if entry.Piece != piece {
			kept = append(kept, entry)
		}
	}
	p.PickList = kept
	p.IsPartial = true
	if p.Status != PacketStatusAssembled {
		p.Status = PacketStatusAssembled
		p.VerifiedAt = nil
		p.VerifiedBy = ""
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Verify confirms the physical bundle matches the pick list
func (p *Packet) Verify(verifiedBy string) error {
	if p.Status != PacketStatusAssembled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot verify packet in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PacketStatusVerified
	p.VerifiedAt = &now
	p.VerifiedBy = verifiedBy
	p.UpdatedAt = now
	return nil
}

// Release hands the verified packet to the production floor
func (p *Packet) Release() error {
	if p.Status != PacketStatusVerified {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot release packet in %s status", p.Status))
	}
	p.Status = PacketStatusReleased
	p.UpdatedAt = time.Now()
	return nil
}

// generatePacketCode derives a short human-readable code from the packet ID
func generatePacketCode(id uuid.UUID) string {
	return fmt.Sprintf("PKT-%s", id.String()[:8])
}
