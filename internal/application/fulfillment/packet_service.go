package fulfillment

import (
	"context"

	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PacketService handles the packet lifecycle after assembly: physical
// verification against the pick list and release to the production floor.
// Assembly itself happens inside the check and rerun engines.
type PacketService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewPacketService creates a new PacketService
func NewPacketService(scope TransactionScope) *PacketService {
	return &PacketService{scope: scope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PacketService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByOrderItemID returns the packet for an order item
func (s *PacketService) GetByOrderItemID(ctx context.Context, orderItemID uuid.UUID) (*PacketResponse, error) {
	var packet *fulfillment.Packet
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		packet, err = repos.PacketRepo().FindByOrderItemID(ctx, orderItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToPacketResponse(packet)
	return &response, nil
}

// Verify confirms the physical bundle matches the pick list and releases the
// packed sections to production
func (s *PacketService) Verify(ctx context.Context, orderItemID uuid.UUID, verifiedBy string) (*PacketResponse, error) {
	var (
		packet *fulfillment.Packet
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		packet, err = repos.PacketRepo().FindByOrderItemID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if err := packet.Verify(verifiedBy); err != nil {
			return err
		}

		item, err := repos.OrderItemRepo().FindByID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if err := item.VerifyPacket(); err != nil {
			return err
		}

		if err := repos.PacketRepo().Save(ctx, packet); err != nil {
			return err
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

	response := ToPacketResponse(packet)
	return &response, nil
}

// Release hands a verified packet to the production floor
func (s *PacketService) Release(ctx context.Context, orderItemID uuid.UUID) (*PacketResponse, error) {
	var packet *fulfillment.Packet
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		packet, err = repos.PacketRepo().FindByOrderItemID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if err := packet.Release(); err != nil {
			return err
		}
		return repos.PacketRepo().Save(ctx, packet)
	})
	if err != nil {
		return nil, err
	}
	response := ToPacketResponse(packet)
	return &response, nil
}
