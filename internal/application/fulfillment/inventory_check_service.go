package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/inventory"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryCheckService is the section inventory check engine: it evaluates
// every pending section of an order item against the bill of materials and
// the live ledger, reserves stock for sections that clear and raises
// procurement demands for sections that don't.
type InventoryCheckService struct {
	scope          TransactionScope
	resolver       bom.Resolver
	eventPublisher shared.EventPublisher
}

// NewInventoryCheckService creates a new InventoryCheckService
func NewInventoryCheckService(scope TransactionScope, resolver bom.Resolver) *InventoryCheckService {
	return &InventoryCheckService{
		scope:    scope,
		resolver: resolver,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InventoryCheckService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// sectionOutcome is the result of evaluating one section inside a check
type sectionOutcome struct {
	piece        fulfillment.Piece
	passed       bool
	requirements []fulfillment.MaterialRequirement
	pickList     []fulfillment.PickListEntry
	deductions   []fulfillment.StockDeduction
	demands      []*procurement.Demand
}

// RunInventoryCheck runs a full check on the order item: all prior demands
// are deleted and re-derived, every section not yet past its material check
// is evaluated independently, and one packet is created (or the existing one
// extended) from the sections that pass. Sections already reserved keep their
// stock untouched, which makes repeated full checks idempotent.
func (s *InventoryCheckService) RunInventoryCheck(ctx context.Context, orderItemID uuid.UUID) (*InventoryCheckResponse, error) {
	var (
		item   *fulfillment.OrderItem
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.OrderItemRepo().FindByID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if !item.CanRunInventoryCheck() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot run inventory check on item in %s status", item.Status))
		}

		lines, err := s.resolver.Resolve(ctx, item.ProductID, item.CustomBOMID, item.Size)
		if err != nil {
			return err
		}

		// Full re-derivation: stale demands from earlier checks must not
		// accumulate
		if err := repos.DemandRepo().DeleteByOrderItemID(ctx, item.ID); err != nil {
			return err
		}

		var (
			passed, failed []fulfillment.Piece
			requirements   []fulfillment.MaterialRequirement
			pickList       fulfillment.PickList
			demands        []*procurement.Demand
		)
		for _, piece := range item.CheckableSections() {
			outcome, invEvents, err := s.checkSection(ctx, repos, item, piece, lines.ForPiece(piece.String()))
			if err != nil {
				return err
			}
			events = append(events, invEvents...)
			requirements = append(requirements, outcome.requirements...)
			if outcome.passed {
				if err := item.PassSection(piece, fulfillment.InventoryCheckResult{
					CheckedAt: time.Now(),
					Materials: outcome.requirements,
				}, outcome.pickList, outcome.deductions); err != nil {
					return err
				}
				passed = append(passed, piece)
				pickList = append(pickList, outcome.pickList...)
			} else {
				if err := item.FailSection(piece, fulfillment.InventoryCheckResult{
					CheckedAt: time.Now(),
					Materials: outcome.requirements,
					Shortages: shortagesOf(outcome.requirements),
				}); err != nil {
					return err
				}
				failed = append(failed, piece)
				demands = append(demands, outcome.demands...)
			}
		}

		if len(demands) > 0 {
			if err := repos.DemandRepo().SaveAll(ctx, demands); err != nil {
				return err
			}
		}

		if err := item.FinishInventoryCheck(requirements, passed, failed); err != nil {
			return err
		}

		if len(passed) > 0 {
			if err := s.assemblePacket(ctx, repos, item, passed, failed, pickList, &events); err != nil {
				return err
			}
		}

		if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		events = append(events, item.GetDomainEvents()...)
		item.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToInventoryCheckResponse(item)
	return &response, nil
}

// checkSection evaluates one section against the BOM and the ledger. Ledger
// rows are loaded FOR UPDATE so the read and the deduction form one
// serialized unit against concurrent checks on the same material.
func (s *InventoryCheckService) checkSection(ctx context.Context, repos TransactionalRepositories, item *fulfillment.OrderItem, piece fulfillment.Piece, pieceLines bom.Lines) (*sectionOutcome, []shared.DomainEvent, error) {
	outcome := &sectionOutcome{piece: piece}

	// A section with no BOM entries can never pass
	if len(pieceLines) == 0 {
		return outcome, nil, nil
	}

	type evaluated struct {
		line     bom.Line
		invItem  *inventory.InventoryItem
		required decimal.Decimal
		shortage decimal.Decimal
	}
	evaluations := make([]evaluated, 0, len(pieceLines))
	allSufficient := true
	for _, line := range pieceLines {
		invItem, err := repos.InventoryRepo().FindByIDForUpdate(ctx, line.InventoryItemID)
		if err != nil {
			return nil, nil, err
		}
		required := line.QuantityPerUnit.Mul(item.Quantity)
		shortage := required.Sub(invItem.AvailableQuantity)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		status := fulfillment.MaterialStatusSufficient
		if shortage.IsPositive() {
			status = fulfillment.MaterialStatusShortage
			allSufficient = false
		}
		outcome.requirements = append(outcome.requirements, fulfillment.MaterialRequirement{
			InventoryItemID: invItem.ID,
			SKU:             invItem.SKU,
			Name:            invItem.Name,
			RequiredQty:     required,
			AvailableQty:    invItem.AvailableQuantity,
			ShortageQty:     shortage,
			Unit:            invItem.Unit,
			Piece:           piece,
			Status:          status,
		})
		evaluations = append(evaluations, evaluated{line: line, invItem: invItem, required: required, shortage: shortage})
	}

	if !allSufficient {
		for _, eval := range evaluations {
			if !eval.shortage.IsPositive() {
				continue
			}
			demand, err := procurement.NewDemand(
				item.OrderID, item.ID, eval.invItem.ID,
				eval.invItem.SKU, eval.invItem.Name,
				eval.required, eval.invItem.AvailableQuantity, eval.shortage,
				eval.invItem.Unit, piece.String(),
			)
			if err != nil {
				return nil, nil, err
			}
			outcome.demands = append(outcome.demands, demand)
		}
		return outcome, nil, nil
	}

	// Every entry is covered: deduct now, while the row locks are held
	var events []shared.DomainEvent
	orderID, itemID := item.OrderID, item.ID
	for _, eval := range evaluations {
		ref := inventory.MovementReference{OrderID: &orderID, OrderItemID: &itemID, Piece: piece.String()}
		movement, err := eval.invItem.Deduct(eval.required, ref, fmt.Sprintf("Reserved for section %s", piece))
		if err != nil {
			return nil, nil, err
		}
		if err := repos.InventoryRepo().SaveWithLock(ctx, eval.invItem); err != nil {
			return nil, nil, err
		}
		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return nil, nil, err
		}
		events = append(events, eval.invItem.GetDomainEvents()...)
		eval.invItem.ClearDomainEvents()

		outcome.pickList = append(outcome.pickList, fulfillment.PickListEntry{
			InventoryItemID: eval.invItem.ID,
			SKU:             eval.invItem.SKU,
			Name:            eval.invItem.Name,
			Quantity:        eval.required,
			Unit:            eval.invItem.Unit,
			Piece:           piece,
		})
		outcome.deductions = append(outcome.deductions, fulfillment.StockDeduction{
			InventoryItemID: eval.invItem.ID,
			MovementID:      movement.ID,
			Quantity:        eval.required,
			Piece:           piece,
			DeductedAt:      movement.CreatedAt,
		})
	}
	outcome.passed = true
	return outcome, events, nil
}

// assemblePacket creates the item's packet on the first successful check or
// merges newly passed sections into the existing one. A packet is unique per
// order item across its whole lifetime.
func (s *InventoryCheckService) assemblePacket(ctx context.Context, repos TransactionalRepositories, item *fulfillment.OrderItem, passed, pending []fulfillment.Piece, pickList fulfillment.PickList, events *[]shared.DomainEvent) error {
	if item.PacketID == nil {
		packet, err := fulfillment.NewPacket(item.ID, item.OrderID, passed, pending, pickList)
		if err != nil {
			return err
		}
		if err := item.AttachPacket(packet.ID, passed); err != nil {
			return err
		}
		if err := repos.PacketRepo().Save(ctx, packet); err != nil {
			return err
		}
		*events = append(*events, packet.GetDomainEvents()...)
		packet.ClearDomainEvents()
		return nil
	}

	packet, err := repos.PacketRepo().FindByOrderItemID(ctx, item.ID)
	if err != nil {
		return err
	}
	if err := packet.Merge(passed, pickList); err != nil {
		return err
	}
	for _, piece := range passed {
		if err := item.ExtendPacket(piece); err != nil {
			return err
		}
	}
	if err := repos.PacketRepo().Save(ctx, packet); err != nil {
		return err
	}
	*events = append(*events, packet.GetDomainEvents()...)
	packet.ClearDomainEvents()
	return nil
}

func (s *InventoryCheckService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Event delivery is best-effort; the transaction has already committed
	_ = s.eventPublisher.Publish(ctx, events...)
}

// shortagesOf filters a requirement list down to its shortage entries
func shortagesOf(requirements []fulfillment.MaterialRequirement) []fulfillment.MaterialRequirement {
	shortages := make([]fulfillment.MaterialRequirement, 0)
	for _, req := range requirements {
		if req.Status == fulfillment.MaterialStatusShortage {
			shortages = append(shortages, req)
		}
	}
	return shortages
}
