package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/garmentflow/backend/internal/domain/bom"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/procurement"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RerunService re-evaluates only the still-blocked sections of an order item
// after procurement activity. Unlike the full check it does not wipe demands:
// a section whose demands are still open is skipped outright, and only
// sections whose demands have all arrived are recomputed against the ledger.
type RerunService struct {
	scope          TransactionScope
	checkService   *InventoryCheckService
	resolver       bom.Resolver
	eventPublisher shared.EventPublisher
}

// NewRerunService creates a new RerunService
func NewRerunService(scope TransactionScope, checkService *InventoryCheckService, resolver bom.Resolver) *RerunService {
	return &RerunService{
		scope:        scope,
		checkService: checkService,
		resolver:     resolver,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RerunService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RerunSectionInventoryCheck recomputes blocked sections one by one. For each
// eligible section: skip it while it still has blocking demands; otherwise
// evaluate it exactly like a full check. On pass the section's received
// demands are marked fulfilled and its materials merge into the item's
// existing packet; on fail it stays awaiting material with fresh shortage
// figures and fresh open demands, and its superseded received demands are
// cancelled.
func (s *RerunService) RerunSectionInventoryCheck(ctx context.Context, orderItemID uuid.UUID) (*RerunResponse, error) {
	var (
		item    *fulfillment.OrderItem
		skipped []fulfillment.Piece
		events  []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.OrderItemRepo().FindByID(ctx, orderItemID)
		if err != nil {
			return err
		}

		eligible := item.CheckableSections()
		if len(eligible) == 0 {
			return shared.NewDomainError("INVALID_STATE", "No sections are eligible for a rerun")
		}

		lines, err := s.resolver.Resolve(ctx, item.ProductID, item.CustomBOMID, item.Size)
		if err != nil {
			return err
		}

		demands, err := repos.DemandRepo().FindByOrderItemID(ctx, item.ID)
		if err != nil {
			return err
		}
		blocking, fulfillable := groupDemandsBySection(demands)

		var (
			passed, stillBlocked []fulfillment.Piece
			requirements         []fulfillment.MaterialRequirement
			pickList             fulfillment.PickList
			newDemands           []*procurement.Demand
		)
		for _, piece := range eligible {
			if len(blocking[piece.String()]) > 0 {
				skipped = append(skipped, piece)
				stillBlocked = append(stillBlocked, piece)
				continue
			}

			outcome, invEvents, err := s.checkService.checkSection(ctx, repos, item, piece, lines.ForPiece(piece.String()))
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
				for _, demand := range fulfillable[piece.String()] {
					if err := demand.MarkFulfilled(); err != nil {
						return err
					}
					if err := repos.DemandRepo().Save(ctx, demand); err != nil {
						return err
					}
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
				stillBlocked = append(stillBlocked, piece)
				newDemands = append(newDemands, outcome.demands...)
				// The received demands carried stale shortage figures; the
				// fresh demands raised above supersede them.
				for _, demand := range fulfillable[piece.String()] {
					if err := demand.Cancel(); err != nil {
						return err
					}
					if err := repos.DemandRepo().Save(ctx, demand); err != nil {
						return err
					}
				}
			}
		}

		if len(newDemands) > 0 {
			if err := repos.DemandRepo().SaveAll(ctx, newDemands); err != nil {
				return err
			}
		}

		if err := item.FinishRerun(requirements, passed, stillBlocked); err != nil {
			return err
		}

		if len(passed) > 0 {
			if err := s.mergeIntoPacket(ctx, repos, item, passed, stillBlocked, pickList, &events); err != nil {
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

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToRerunResponse(item, skipped)
	return &response, nil
}

// mergeIntoPacket extends the item's existing packet with the newly passed
// sections, or creates it if no section had ever passed before
func (s *RerunService) mergeIntoPacket(ctx context.Context, repos TransactionalRepositories, item *fulfillment.OrderItem, passed, pending []fulfillment.Piece, pickList fulfillment.PickList, events *[]shared.DomainEvent) error {
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
	if packet == nil {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Packet for order item %s not found", item.ID))
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

// groupDemandsBySection splits an item's demands into those that still block
// a rerun (open or ordered) and those a passing rerun should close (received)
func groupDemandsBySection(demands []*procurement.Demand) (blocking, fulfillable map[string][]*procurement.Demand) {
	blocking = make(map[string][]*procurement.Demand)
	fulfillable = make(map[string][]*procurement.Demand)
	for _, demand := range demands {
		switch {
		case demand.Status.IsBlocking():
			blocking[demand.AffectedSection] = append(blocking[demand.AffectedSection], demand)
		case demand.Status == procurement.DemandStatusReceived:
			fulfillable[demand.AffectedSection] = append(fulfillable[demand.AffectedSection], demand)
		}
	}
	return blocking, fulfillable
}
