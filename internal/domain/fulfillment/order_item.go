package fulfillment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the top-level status of an order item, derived from
// the aggregate state of its sections
type ItemStatus string

const (
	ItemStatusInventoryCheck       ItemStatus = "INVENTORY_CHECK"
	ItemStatusAwaitingMaterial     ItemStatus = "AWAITING_MATERIAL"
	ItemStatusPartialCreatePacket  ItemStatus = "PARTIAL_CREATE_PACKET"
	ItemStatusCreatePacket         ItemStatus = "CREATE_PACKET"
	ItemStatusInProduction         ItemStatus = "IN_PRODUCTION"
	ItemStatusReadyForClientApproval ItemStatus = "READY_FOR_CLIENT_APPROVAL"
	ItemStatusAwaitingClientApproval ItemStatus = "AWAITING_CLIENT_APPROVAL"
	ItemStatusAlterationRequired   ItemStatus = "ALTERATION_REQUIRED"
	ItemStatusClientApproved       ItemStatus = "CLIENT_APPROVED"
	ItemStatusReadyForDispatch     ItemStatus = "READY_FOR_DISPATCH"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusInventoryCheck, ItemStatusAwaitingMaterial,
		ItemStatusPartialCreatePacket, ItemStatusCreatePacket,
		ItemStatusInProduction, ItemStatusReadyForClientApproval,
		ItemStatusAwaitingClientApproval, ItemStatusAlterationRequired,
		ItemStatusClientApproved, ItemStatusReadyForDispatch:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The full reset bypasses this table through ResetToInventoryCheck.
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	switch s {
	case ItemStatusInventoryCheck:
		return target == ItemStatusCreatePacket ||
			target == ItemStatusPartialCreatePacket ||
			target == ItemStatusAwaitingMaterial
	case ItemStatusAwaitingMaterial:
		return target == ItemStatusCreatePacket ||
			target == ItemStatusPartialCreatePacket ||
			target == ItemStatusAwaitingMaterial
	case ItemStatusPartialCreatePacket:
		return target == ItemStatusCreatePacket ||
			target == ItemStatusPartialCreatePacket ||
			target == ItemStatusInProduction
	case ItemStatusCreatePacket:
		return target == ItemStatusInProduction
	case ItemStatusInProduction:
		// A dyeing rejection can pull every in-flight section back to the
		// check phase, which makes the check-phase targets reachable again.
		return target == ItemStatusReadyForClientApproval ||
			target == ItemStatusCreatePacket ||
			target == ItemStatusPartialCreatePacket ||
			target == ItemStatusAwaitingMaterial
	case ItemStatusReadyForClientApproval:
		return target == ItemStatusAwaitingClientApproval
	case ItemStatusAwaitingClientApproval:
		return target == ItemStatusClientApproved ||
			target == ItemStatusAlterationRequired ||
			target == ItemStatusReadyForClientApproval
	case ItemStatusAlterationRequired:
		return target == ItemStatusInProduction ||
			target == ItemStatusReadyForClientApproval
	case ItemStatusClientApproved:
		return target == ItemStatusReadyForDispatch
	case ItemStatusReadyForDispatch:
		return false // Terminal
	}
	return false
}

// VideoData is the QA evidence captured for an order item
type VideoData struct {
	URL        string    `json:"url"`
	CapturedAt time.Time `json:"captured_at"`
	CapturedBy string    `json:"captured_by,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (v VideoData) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner for reading from JSONB
func (v *VideoData) Scan(value interface{}) error {
	return scanJSON(value, v)
}

// VideoArchives preserves discarded QA videos across resets
type VideoArchives []VideoData

// Value implements driver.Valuer for JSONB storage
func (v VideoArchives) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner for reading from JSONB
func (v *VideoArchives) Scan(value interface{}) error {
	return scanJSON(value, v)
}

// ReVideoRequest asks QA to re-record specific sections
type ReVideoRequest struct {
	Pieces      PieceList `json:"pieces"`
	Notes       string    `json:"notes,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Value implements driver.Valuer for JSONB storage
func (r ReVideoRequest) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for reading from JSONB
func (r *ReVideoRequest) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// OrderItem is the aggregate root driving the section-level workflow of one
// ordered garment: raw-material checks, packet assembly, production, dyeing,
// QA and client approval, including the failure-recovery paths.
type OrderItem struct {
	shared.BaseAggregateRoot
	OrderID              uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID            *uuid.UUID           `gorm:"type:uuid;index"`
	CustomBOMID          *uuid.UUID           `gorm:"type:uuid"`
	Size                 string               `gorm:"size:20"`
	Quantity             decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status               ItemStatus           `gorm:"size:40;not null;index"`
	Sections             SectionMap           `gorm:"type:jsonb;not null"`
	MaterialRequirements MaterialRequirements `gorm:"type:jsonb"`
	StockDeductions      StockDeductions      `gorm:"type:jsonb"`
	PacketID             *uuid.UUID           `gorm:"type:uuid"`
	LastInventoryCheckAt *time.Time
	SectionsChecked      bool                 `gorm:"not null;default:false"`
	VideoData            *VideoData           `gorm:"type:jsonb"`
	ArchivedVideoData    VideoArchives        `gorm:"type:jsonb"`
	ReVideoRequest       *ReVideoRequest      `gorm:"type:jsonb"`
	Timeline             shared.Timeline      `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order item with one section per distinct piece.
// Section keys are canonicalized once here so normalization cannot drift later.
// Exactly one of productID and customBOMID must be set.
func NewOrderItem(orderID uuid.UUID, productID, customBOMID *uuid.UUID, size string, quantity decimal.Decimal, pieces []string) (*OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if (productID == nil) == (customBOMID == nil) {
		return nil, shared.NewDomainError("INVALID_BOM_REFERENCE", "Exactly one of product reference or custom BOM must be provided")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	normalized, err := NormalizePieces(pieces)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, shared.NewDomainError("NO_SECTIONS", "Order item must have at least one section")
	}

	sections := make(SectionMap, len(normalized))
	for _, piece := range normalized {
		sections[piece] = NewSectionState()
	}

	item := &OrderItem{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		OrderID:              orderID,
		ProductID:            productID,
		CustomBOMID:          customBOMID,
		Size:                 size,
		Quantity:             quantity,
		Status:               ItemStatusInventoryCheck,
		Sections:             sections,
		MaterialRequirements: make(MaterialRequirements, 0),
		StockDeductions:      make(StockDeductions, 0),
		ArchivedVideoData:    make(VideoArchives, 0),
		Timeline:             shared.Timeline{}.Append("created", fmt.Sprintf("%d section(s)", len(normalized))),
	}

	item.AddDomainEvent(NewOrderItemCreatedEvent(item))

	return item, nil
}

// Section returns the state of the named section, resolving the raw name
// case-insensitively. Returns nil if the section does not exist.
func (i *OrderItem) Section(raw string) *SectionState {
	piece, err := NewPiece(raw)
	if err != nil {
		return nil
	}
	return i.Sections[piece]
}

// Pieces returns all section keys in deterministic order
func (i *OrderItem) Pieces() []Piece {
	pieces := make([]Piece, 0, len(i.Sections))
	for piece := range i.Sections {
		pieces = append(pieces, piece)
	}
	sort.Slice(pieces, func(a, b int) bool { return pieces[a] < pieces[b] })
	return pieces
}

// CheckableSections returns the sections a full inventory check must evaluate:
// those not yet past their material check. Already-passed sections are never
// re-checked (and never re-deducted).
func (i *OrderItem) CheckableSections() []Piece {
	pieces := make([]Piece, 0, len(i.Sections))
	for _, piece := range i.Pieces() {
		status := i.Sections[piece].Status
		if status == SectionStatusPendingInventoryCheck || status == SectionStatusAwaitingMaterial {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

// CanRunInventoryCheck reports whether a full check may run right now
func (i *OrderItem) CanRunInventoryCheck() bool {
	switch i.Status {
	case ItemStatusInventoryCheck, ItemStatusAwaitingMaterial, ItemStatusPartialCreatePacket:
		return true
	}
	return false
}

// PassSection records a successful material check: the section's stock has
// been deducted from the ledger exactly once for this pass event.
func (i *OrderItem) PassSection(piece Piece, result InventoryCheckResult, pickList []PickListEntry, deductions []StockDeduction) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusInventoryPassed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot pass inventory from %s", piece, section.Status))
	}

	result.Passed = true
	section.Status = SectionStatusInventoryPassed
	section.CheckResult = &result
	section.PickList = pickList
	i.StockDeductions = append(i.StockDeductions, deductions...)
	i.UpdatedAt = time.Now()

	return nil
}

// FailSection records a failed material check; no ledger mutation happened
func (i *OrderItem) FailSection(piece Piece, result InventoryCheckResult) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusAwaitingMaterial) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot await material from %s", piece, section.Status))
	}

	result.Passed = false
	section.Status = SectionStatusAwaitingMaterial
	section.CheckResult = &result
	i.UpdatedAt = time.Now()

	return nil
}

// FinishInventoryCheck closes one check pass: flattens the requirement
// snapshot, derives the item status from the aggregate section state and
// records a timeline entry naming passed and failed sections.
func (i *OrderItem) FinishInventoryCheck(requirements []MaterialRequirement, passed, failed []Piece) error {
	target := i.deriveStatusFromSections()
	if i.Status != target && !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move item from %s to %s", i.Status, target))
	}

	now := time.Now()
	i.MaterialRequirements = requirements
	i.LastInventoryCheckAt = &now
	i.SectionsChecked = true
	i.Status = target
	i.Timeline = i.Timeline.Append("inventory_check",
		fmt.Sprintf("passed: [%s], awaiting material: [%s]", joinPieces(passed), joinPieces(failed)))
	i.UpdatedAt = now

	i.AddDomainEvent(NewInventoryCheckCompletedEvent(i, passed, failed))

	return nil
}

// FinishRerun closes a rerun pass restricted to previously blocked sections.
// Requirements for the rerun sections replace their stale entries; sections
// never in scope keep theirs so requiredQty always reflects the latest
// evaluation of each section.
func (i *OrderItem) FinishRerun(requirements []MaterialRequirement, passed, stillBlocked []Piece) error {
	target := i.deriveStatusFromSections()
	if i.Status != target && !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move item from %s to %s", i.Status, target))
	}

	rerunPieces := make(map[Piece]bool, len(passed)+len(stillBlocked))
	for _, piece := range passed {
		rerunPieces[piece] = true
	}
	for _, piece := range stillBlocked {
		rerunPieces[piece] = true
	}
	merged := make(MaterialRequirements, 0, len(i.MaterialRequirements)+len(requirements))
	for _, req := range i.MaterialRequirements {
		if !rerunPieces[req.Piece] {
			merged = append(merged, req)
		}
	}
	merged = append(merged, requirements...)

	now := time.Now()
	i.MaterialRequirements = merged
	i.LastInventoryCheckAt = &now
	i.Status = target
	i.Timeline = i.Timeline.Append("rerun_inventory_check",
		fmt.Sprintf("passed: [%s], still blocked: [%s]", joinPieces(passed), joinPieces(stillBlocked)))
	i.UpdatedAt = now

	i.AddDomainEvent(NewInventoryCheckCompletedEvent(i, passed, stillBlocked))

	return nil
}

// deriveStatusFromSections computes the check-phase item status from sections.
// While floor work is underway on any section, check outcomes on the others
// never move the item out of production.
func (i *OrderItem) deriveStatusFromSections() ItemStatus {
	cleared, inFlight := 0, false
	for _, section := range i.Sections {
		if section.Status.HasClearedInventory() {
			cleared++
		}
		if section.Status.ProductionStarted() {
			inFlight = true
		}
	}
	if inFlight {
		return ItemStatusInProduction
	}
	switch {
	case cleared == len(i.Sections):
		return ItemStatusCreatePacket
	case cleared > 0:
		return ItemStatusPartialCreatePacket
	default:
		return ItemStatusAwaitingMaterial
	}
}

// AttachPacket links the item's unique packet and marks the included sections
func (i *OrderItem) AttachPacket(packetID uuid.UUID, included []Piece) error {
	if i.PacketID != nil {
		return shared.NewDomainError("PACKET_EXISTS", "Order item already has a packet")
	}
	i.PacketID = &packetID
	for _, piece := range included {
		if err := i.markSectionInPacket(piece); err != nil {
			return err
		}
	}
	i.Timeline = i.Timeline.Append("packet_created", fmt.Sprintf("sections: [%s]", joinPieces(included)))
	i.UpdatedAt = time.Now()
	return nil
}

// ExtendPacket marks a newly cleared section as merged into the existing packet
func (i *OrderItem) ExtendPacket(piece Piece) error {
	if i.PacketID == nil {
		return shared.NewDomainError("NO_PACKET", "Order item has no packet to extend")
	}
	if err := i.markSectionInPacket(piece); err != nil {
		return err
	}
	i.Timeline = i.Timeline.Append("packet_extended", piece.String())
	i.UpdatedAt = time.Now()
	return nil
}

func (i *OrderItem) markSectionInPacket(piece Piece) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusPacketCreated) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot enter packet from %s", piece, section.Status))
	}
	section.Status = SectionStatusPacketCreated
	return nil
}

// VerifyPacket confirms the physical pick list matches the packet and releases
// every packed section to production
func (i *OrderItem) VerifyPacket() error {
	if i.PacketID == nil {
		return shared.NewDomainError("NO_PACKET", "Order item has no packet to verify")
	}
	released := make([]Piece, 0, len(i.Sections))
	for _, piece := range i.Pieces() {
		section := i.Sections[piece]
		if section.Status != SectionStatusPacketCreated {
			continue
		}
		if err := section.advance(piece, SectionStatusPacketVerified, SectionStatusReadyForProduction); err != nil {
			return err
		}
		released = append(released, piece)
		i.AddDomainEvent(NewSectionReadyForProductionEvent(i, piece, section.IsAlteration, section.AlterationNotes))
	}
	if len(released) == 0 {
		return shared.NewDomainError("INVALID_STATE", "No packed sections to verify")
	}
	i.Timeline = i.Timeline.Append("packet_verified", fmt.Sprintf("sections: [%s]", joinPieces(released)))
	i.UpdatedAt = time.Now()
	return nil
}

// StartProduction moves a section into production and pins its task
func (i *OrderItem) StartProduction(piece Piece, taskID uuid.UUID) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusInProduction) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot start production from %s", piece, section.Status))
	}
	section.Status = SectionStatusInProduction
	section.ProductionTaskID = &taskID
	if i.Status.CanTransitionTo(ItemStatusInProduction) {
		i.Status = ItemStatusInProduction
	}
	i.UpdatedAt = time.Now()
	return nil
}

// CompleteProduction finishes a section's production and queues it for dyeing
func (i *OrderItem) CompleteProduction(piece Piece) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if err := section.advance(piece, SectionStatusProductionCompleted, SectionStatusReadyForDyeing); err != nil {
		return err
	}
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewSectionReadyForDyeingEvent(i, piece, section.DyeingRound+1))
	return nil
}

// StartDyeing begins a dyeing round for a section
func (i *OrderItem) StartDyeing(piece Piece) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusDyeingInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot start dyeing from %s", piece, section.Status))
	}
	section.Status = SectionStatusDyeingInProgress
	section.DyeingRound++
	i.UpdatedAt = time.Now()
	return nil
}

// CompleteDyeing finishes dyeing and hands the section to QA
func (i *OrderItem) CompleteDyeing(piece Piece) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if err := section.advance(piece, SectionStatusDyeingCompleted, SectionStatusReadyForClientApproval); err != nil {
		return err
	}
	section.QAStatus = QAStatusPassed
	i.UpdatedAt = time.Now()

	if i.sectionsClearedQA() && i.Status.CanTransitionTo(ItemStatusReadyForClientApproval) {
		i.Status = ItemStatusReadyForClientApproval
		i.AddDomainEvent(NewItemReadyForClientApprovalEvent(i))
	}
	return nil
}

// RejectDyeing sends a failed dyeing round back to the start of the workflow.
// The materials previously reserved for the section are treated as consumed;
// a later rerun must re-reserve fresh stock for it.
func (i *OrderItem) RejectDyeing(piece Piece, reason string) error {
	section, ok := i.Sections[piece]
	if !ok {
		return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
	}
	if !section.Status.CanTransitionTo(SectionStatusPendingInventoryCheck) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot be rejected from %s", piece, section.Status))
	}
	section.Status = SectionStatusPendingInventoryCheck
	section.CheckResult = nil
	section.PickList = nil
	section.ProductionTaskID = nil
	section.QAStatus = QAStatusPending
	i.Timeline = i.Timeline.Append("dyeing_rejected", fmt.Sprintf("%s: %s", piece, reason))
	i.UpdatedAt = time.Now()
	return nil
}

// CaptureQAVideo records the QA walkthrough video for the item
func (i *OrderItem) CaptureQAVideo(video VideoData) error {
	if i.Status != ItemStatusReadyForClientApproval && i.Status != ItemStatusAlterationRequired {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot capture QA video in %s status", i.Status))
	}
	i.VideoData = &video
	i.ReVideoRequest = nil
	if i.Status == ItemStatusAlterationRequired {
		i.Status = ItemStatusReadyForClientApproval
	}
	i.Timeline = i.Timeline.Append("qa_video_captured", video.URL)
	i.UpdatedAt = time.Now()
	return nil
}

// MarkAwaitingClientApproval cascades the order's send-to-client action
func (i *OrderItem) MarkAwaitingClientApproval() error {
	if !i.Status.CanTransitionTo(ItemStatusAwaitingClientApproval) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send item to client in %s status", i.Status))
	}
	i.Status = ItemStatusAwaitingClientApproval
	for _, section := range i.Sections {
		if section.Status == SectionStatusReadyForClientApproval {
			section.Status = SectionStatusAwaitingClientApproval
		}
	}
	i.UpdatedAt = time.Now()
	return nil
}

// ApproveByClient marks the item and all its sections client-approved
func (i *OrderItem) ApproveByClient() error {
	if !i.Status.CanTransitionTo(ItemStatusClientApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve item in %s status", i.Status))
	}
	i.Status = ItemStatusClientApproved
	for _, section := range i.Sections {
		if section.Status == SectionStatusAwaitingClientApproval {
			section.Status = SectionStatusClientApproved
		}
	}
	i.Timeline = i.Timeline.Append("client_approved", "")
	i.UpdatedAt = time.Now()
	return nil
}

// RequestAlteration forces the named sections back to production with an
// alteration flag. Inventory and procurement state are untouched: the
// materials already reserved remain valid. The captured video is discarded
// (not archived) so QA must re-record.
func (i *OrderItem) RequestAlteration(pieces []Piece, notes, requestedBy string) error {
	if i.Status != ItemStatusAwaitingClientApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request alteration in %s status", i.Status))
	}
	now := time.Now()
	for _, piece := range pieces {
		section, ok := i.Sections[piece]
		if !ok {
			return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
		}
		section.Status = SectionStatusReadyForProduction
		section.AlterationNotes = notes
		section.IsAlteration = true
		section.AlterationRequestedBy = requestedBy
		section.AlterationRequestedAt = &now
		section.QAStatus = QAStatusPending
		i.AddDomainEvent(NewSectionReadyForProductionEvent(i, piece, true, notes))
	}
	i.Status = ItemStatusAlterationRequired
	i.VideoData = nil
	i.Timeline = i.Timeline.AppendBy("alteration_requested", fmt.Sprintf("sections: [%s]", joinPieces(pieces)), requestedBy)
	i.UpdatedAt = now
	return nil
}

// RequestReVideo asks QA to re-record the named sections without touching
// production state
func (i *OrderItem) RequestReVideo(pieces []Piece, notes string) error {
	if i.Status != ItemStatusAwaitingClientApproval {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot request re-video in %s status", i.Status))
	}
	for _, piece := range pieces {
		if _, ok := i.Sections[piece]; !ok {
			return shared.NewDomainError("SECTION_NOT_FOUND", fmt.Sprintf("Section %q not found", piece))
		}
	}
	i.VideoData = nil
	i.ReVideoRequest = &ReVideoRequest{Pieces: pieces, Notes: notes, RequestedAt: time.Now()}
	i.Status = ItemStatusReadyForClientApproval
	for _, section := range i.Sections {
		if section.Status == SectionStatusAwaitingClientApproval {
			section.Status = SectionStatusReadyForClientApproval
		}
	}
	i.Timeline = i.Timeline.Append("re_video_requested", fmt.Sprintf("sections: [%s]", joinPieces(pieces)))
	i.UpdatedAt = time.Now()
	return nil
}

// MarkReadyForDispatch is the terminal transition after payments clear
func (i *OrderItem) MarkReadyForDispatch() error {
	if !i.Status.CanTransitionTo(ItemStatusReadyForDispatch) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispatch item in %s status", i.Status))
	}
	i.Status = ItemStatusReadyForDispatch
	i.Timeline = i.Timeline.Append("ready_for_dispatch", "")
	i.UpdatedAt = time.Now()
	return nil
}

// ResetToInventoryCheck is the item half of the start-from-scratch rollback.
// It rebuilds the section map clean (one entry per canonical key, pending
// check), archives QA evidence and wipes every derived field. Stock deducted
// for previously passed sections is NOT restored: those materials were cut
// for the discarded garments and are sunk.
func (i *OrderItem) ResetToInventoryCheck(reason string) {
	now := time.Now()

	// Archive the live video before discarding it
	if i.VideoData != nil {
		i.ArchivedVideoData = append(i.ArchivedVideoData, *i.VideoData)
		i.VideoData = nil
	}
	i.ReVideoRequest = nil

	// Rebuild the section map from scratch; re-keying through NewPiece
	// collapses any accidental duplicate keys that drifted in
	clean := make(SectionMap, len(i.Sections))
	for raw, section := range i.Sections {
		piece, err := NewPiece(string(raw))
		if err != nil {
			continue
		}
		fresh := NewSectionState()
		if section.QAStatus != QAStatusPending || (section.ArchivedQAData != nil) {
			videoURL := ""
			if len(i.ArchivedVideoData) > 0 {
				videoURL = i.ArchivedVideoData[len(i.ArchivedVideoData)-1].URL
			}
			fresh.ArchivedQAData = &ArchivedQAData{
				QAStatus:   section.QAStatus,
				VideoURL:   videoURL,
				ArchivedAt: now,
				ResetAt:    &now,
			}
		}
		clean[piece] = fresh
	}
	i.Sections = clean

	i.Status = ItemStatusInventoryCheck
	i.PacketID = nil
	i.MaterialRequirements = make(MaterialRequirements, 0)
	i.StockDeductions = make(StockDeductions, 0)
	i.LastInventoryCheckAt = nil
	i.SectionsChecked = false
	i.Timeline = i.Timeline.Append("reset", reason)
	i.UpdatedAt = now

	i.AddDomainEvent(NewOrderItemResetEvent(i, reason))
}

// sectionsClearedQA reports whether every section has cleared QA: freshly
// ready for review, already with the client, or already approved. Sections the
// client did not pull back during an alteration round stay at
// AWAITING_CLIENT_APPROVAL and count as cleared.
func (i *OrderItem) sectionsClearedQA() bool {
	for _, section := range i.Sections {
		switch section.Status {
		case SectionStatusReadyForClientApproval,
			SectionStatusAwaitingClientApproval,
			SectionStatusClientApproved:
		default:
			return false
		}
	}
	return true
}

// joinPieces renders a piece list for timeline entries
func joinPieces(pieces []Piece) string {
	names := make([]string, len(pieces))
	for idx, piece := range pieces {
		names[idx] = piece.String()
	}
	return strings.Join(names, ", ")
}
