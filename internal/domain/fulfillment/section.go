package fulfillment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SectionStatus represents the sub-state of a single garment section
type SectionStatus string

const (
	SectionStatusPendingInventoryCheck  SectionStatus = "PENDING_INVENTORY_CHECK"
	SectionStatusInventoryPassed        SectionStatus = "INVENTORY_PASSED"
	SectionStatusAwaitingMaterial       SectionStatus = "AWAITING_MATERIAL"
	SectionStatusPacketCreated          SectionStatus = "PACKET_CREATED"
	SectionStatusPacketVerified         SectionStatus = "PACKET_VERIFIED"
	SectionStatusReadyForProduction     SectionStatus = "READY_FOR_PRODUCTION"
	SectionStatusInProduction           SectionStatus = "IN_PRODUCTION"
	SectionStatusProductionCompleted    SectionStatus = "PRODUCTION_COMPLETED"
	SectionStatusReadyForDyeing         SectionStatus = "READY_FOR_DYEING"
	SectionStatusDyeingInProgress       SectionStatus = "DYEING_IN_PROGRESS"
	SectionStatusDyeingCompleted        SectionStatus = "DYEING_COMPLETED"
	SectionStatusReadyForClientApproval SectionStatus = "READY_FOR_CLIENT_APPROVAL"
	SectionStatusAwaitingClientApproval SectionStatus = "AWAITING_CLIENT_APPROVAL"
	SectionStatusClientApproved         SectionStatus = "CLIENT_APPROVED"
)

// IsValid checks if the status is a valid SectionStatus
func (s SectionStatus) IsValid() bool {
	switch s {
	case SectionStatusPendingInventoryCheck, SectionStatusInventoryPassed,
		SectionStatusAwaitingMaterial, SectionStatusPacketCreated,
		SectionStatusPacketVerified, SectionStatusReadyForProduction,
		SectionStatusInProduction, SectionStatusProductionCompleted,
		SectionStatusReadyForDyeing, SectionStatusDyeingInProgress,
		SectionStatusDyeingCompleted, SectionStatusReadyForClientApproval,
		SectionStatusAwaitingClientApproval, SectionStatusClientApproved:
		return true
	}
	return false
}

// String returns the string representation of SectionStatus
func (s SectionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Forced rollbacks (alteration, full reset) bypass this table and go through
// dedicated aggregate methods instead.
func (s SectionStatus) CanTransitionTo(target SectionStatus) bool {
	switch s {
	case SectionStatusPendingInventoryCheck:
		return target == SectionStatusInventoryPassed || target == SectionStatusAwaitingMaterial
	case SectionStatusAwaitingMaterial:
		return target == SectionStatusPendingInventoryCheck ||
			target == SectionStatusInventoryPassed ||
			target == SectionStatusAwaitingMaterial
	case SectionStatusInventoryPassed:
		return target == SectionStatusPacketCreated
	case SectionStatusPacketCreated:
		return target == SectionStatusPacketVerified
	case SectionStatusPacketVerified:
		return target == SectionStatusReadyForProduction
	case SectionStatusReadyForProduction:
		return target == SectionStatusInProduction
	case SectionStatusInProduction:
		return target == SectionStatusProductionCompleted
	case SectionStatusProductionCompleted:
		return target == SectionStatusReadyForDyeing
	case SectionStatusReadyForDyeing:
		return target == SectionStatusDyeingInProgress
	case SectionStatusDyeingInProgress:
		// A dyeing rejection releases the section back to pending so a later
		// rerun can re-reserve materials for it.
		return target == SectionStatusDyeingCompleted || target == SectionStatusPendingInventoryCheck
	case SectionStatusDyeingCompleted:
		return target == SectionStatusReadyForClientApproval
	case SectionStatusReadyForClientApproval:
		return target == SectionStatusAwaitingClientApproval
	case SectionStatusAwaitingClientApproval:
		return target == SectionStatusClientApproved || target == SectionStatusReadyForClientApproval
	case SectionStatusClientApproved:
		return false // Terminal for the section
	}
	return false
}

// HasClearedInventory reports whether the section has passed its inventory
// check (it is at INVENTORY_PASSED or any later stage)
func (s SectionStatus) HasClearedInventory() bool {
	return s.IsValid() &&
		s != SectionStatusPendingInventoryCheck &&
		s != SectionStatusAwaitingMaterial
}

// ProductionStarted reports whether floor work on the section has begun
// (it is at IN_PRODUCTION or any later stage)
func (s SectionStatus) ProductionStarted() bool {
	switch s {
	case SectionStatusInProduction, SectionStatusProductionCompleted,
		SectionStatusReadyForDyeing, SectionStatusDyeingInProgress,
		SectionStatusDyeingCompleted, SectionStatusReadyForClientApproval,
		SectionStatusAwaitingClientApproval, SectionStatusClientApproved:
		return true
	}
	return false
}

// MaterialStatus marks a material requirement line as satisfiable or short
type MaterialStatus string

const (
	MaterialStatusSufficient MaterialStatus = "SUFFICIENT"
	MaterialStatusShortage   MaterialStatus = "SHORTAGE"
)

// MaterialRequirement is one BOM line evaluated against the live ledger.
// It is a snapshot for display and audit, never the source of truth for stock.
type MaterialRequirement struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	RequiredQty     decimal.Decimal `json:"required_qty"`
	AvailableQty    decimal.Decimal `json:"available_qty"`
	ShortageQty     decimal.Decimal `json:"shortage_qty"`
	Unit            string          `json:"unit"`
	Piece           Piece           `json:"piece"`
	Status          MaterialStatus  `json:"status"`
}

// InventoryCheckResult is the outcome of evaluating one section against the
// BOM and the ledger
type InventoryCheckResult struct {
	Passed    bool                  `json:"passed"`
	CheckedAt time.Time             `json:"checked_at"`
	Materials []MaterialRequirement `json:"materials"`
	Shortages []MaterialRequirement `json:"shortages"`
}

// PickListEntry is one reserved material line assigned to a packet
type PickListEntry struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	Piece           Piece           `json:"piece"`
}

// StockDeduction records one ledger write caused by a section passing its check
type StockDeduction struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	MovementID      uuid.UUID       `json:"movement_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Piece           Piece           `json:"piece"`
	DeductedAt      time.Time       `json:"deducted_at"`
}

// QAStatus tracks the quality-assurance state of a section
type QAStatus string

const (
	QAStatusPending QAStatus = "QA_PENDING"
	QAStatusPassed  QAStatus = "QA_PASSED"
)

// ArchivedQAData preserves the QA evidence of a section across a full reset
type ArchivedQAData struct {
	QAStatus   QAStatus   `json:"qa_status"`
	VideoURL   string     `json:"video_url,omitempty"`
	ArchivedAt time.Time  `json:"archived_at"`
	ResetAt    *time.Time `json:"reset_at,omitempty"`
}

// SectionState is the full workflow state of one garment section
type SectionState struct {
	Status                SectionStatus         `json:"status"`
	CheckResult           *InventoryCheckResult `json:"check_result,omitempty"`
	PickList              []PickListEntry       `json:"pick_list,omitempty"`
	ProductionTaskID      *uuid.UUID            `json:"production_task_id,omitempty"`
	QAStatus              QAStatus              `json:"qa_status"`
	AlterationNotes       string                `json:"alteration_notes,omitempty"`
	IsAlteration          bool                  `json:"is_alteration,omitempty"`
	AlterationRequestedBy string                `json:"alteration_requested_by,omitempty"`
	AlterationRequestedAt *time.Time            `json:"alteration_requested_at,omitempty"`
	DyeingRound           int                   `json:"dyeing_round,omitempty"`
	ArchivedQAData        *ArchivedQAData       `json:"archived_qa_data,omitempty"`
}

// NewSectionState creates a section in its initial state
func NewSectionState() *SectionState {
	return &SectionState{
		Status:   SectionStatusPendingInventoryCheck,
		QAStatus: QAStatusPending,
	}
}

// advance walks the section through consecutive statuses, validating every hop
// against the transition table
func (s *SectionState) advance(piece Piece, targets ...SectionStatus) error {
	for _, target := range targets {
		if !s.Status.CanTransitionTo(target) {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Section %q cannot move from %s to %s", piece, s.Status, target))
		}
		s.Status = target
	}
	return nil
}

// SectionMap holds every section of an order item keyed by its canonical Piece.
// It implements Scanner/Valuer so GORM stores it as JSONB.
type SectionMap map[Piece]*SectionState

// Value implements driver.Valuer for JSONB storage
func (m SectionMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading from JSONB
func (m *SectionMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// MaterialRequirements is the flattened requirement history of the last check
type MaterialRequirements []MaterialRequirement

// Value implements driver.Valuer for JSONB storage
func (r MaterialRequirements) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for reading from JSONB
func (r *MaterialRequirements) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// StockDeductions is the audit trail of ledger writes an order item caused
type StockDeductions []StockDeduction

// Value implements driver.Valuer for JSONB storage
func (d StockDeductions) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading from JSONB
func (d *StockDeductions) Scan(value interface{}) error {
	return scanJSON(value, d)
}

// PickList is the material gathering list of a packet
type PickList []PickListEntry

// Value implements driver.Valuer for JSONB storage
func (p PickList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for reading from JSONB
func (p *PickList) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// PieceList is a JSONB-stored list of canonical section names
type PieceList []Piece

// Value implements driver.Valuer for JSONB storage
func (p PieceList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for reading from JSONB
func (p *PieceList) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Contains reports whether the list contains the given piece
func (p PieceList) Contains(piece Piece) bool {
	for _, candidate := range p {
		if candidate == piece {
			return true
		}
	}
	return false
}

// Remove returns a copy of the list without the given piece
func (p PieceList) Remove(piece Piece) PieceList {
	result := make(PieceList, 0, len(p))
	for _, candidate := range p {
		if candidate != piece {
			result = append(result, candidate)
		}
	}
	return result
}

// scanJSON decodes a JSONB column value into dest
func scanJSON(value interface{}, dest interface{}) error {
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
		return fmt.Errorf("cannot scan %T as JSON", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
