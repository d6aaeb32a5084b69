package approval

import (
	"context"
	"time"

	appfulfillment "github.com/garmentflow/backend/internal/application/fulfillment"
	"github.com/garmentflow/backend/internal/domain/fulfillment"
	"github.com/garmentflow/backend/internal/domain/order"
	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/garmentflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ApprovalService drives the order-level client-approval gate and its branch
// operations: send to client, approve, re-video, alteration, rejection and
// the payment gate. Each operation is one atomic transaction spanning the
// order and its items.
type ApprovalService struct {
	scope          appfulfillment.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(scope appfulfillment.TransactionScope) *ApprovalService {
	return &ApprovalService{scope: scope}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ApprovalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SendToClient shares the QA evidence with the client: the order and every
// item that cleared QA move to awaiting client approval
func (s *ApprovalService) SendToClient(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var ord *order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.SendToClient(); err != nil {
			return err
		}

		items, err := repos.OrderItemRepo().FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Status != fulfillment.ItemStatusReadyForClientApproval {
				continue
			}
			if err := item.MarkAwaitingClientApproval(); err != nil {
				return err
			}
			if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// ClientApproved records the client's approval with its evidence and moves
// the order to the account-approval gate
func (s *ApprovalService) ClientApproved(ctx context.Context, orderID uuid.UUID, req ClientApprovedRequest) (*OrderResponse, error) {
	var ord *order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.ClientApproved(req.Screenshots, req.Notes); err != nil {
			return err
		}

		items, err := repos.OrderItemRepo().FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Status != fulfillment.ItemStatusAwaitingClientApproval {
				continue
			}
			if err := item.ApproveByClient(); err != nil {
				return err
			}
			if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// RequestAlteration sends the named sections back to production. Inventory
// and procurement state are untouched: materials already reserved remain
// valid. QA evidence on the affected items is discarded so QA re-records.
func (s *ApprovalService) RequestAlteration(ctx context.Context, orderID uuid.UUID, req RequestAlterationRequest) (*OrderResponse, error) {
	var (
		ord    *order.Order
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.MarkAlterationRequired(req.Notes); err != nil {
			return err
		}

		for _, itemReq := range req.Items {
			item, err := repos.OrderItemRepo().FindByID(ctx, itemReq.OrderItemID)
			if err != nil {
				return err
			}
			if item.OrderID != orderID {
				return shared.NewDomainError("INVALID_ORDER_ITEM", "Order item does not belong to this order")
			}
			pieces, err := fulfillment.NormalizePieces(itemReq.Sections)
			if err != nil {
				return err
			}
			if err := item.RequestAlteration(pieces, req.Notes, req.RequestedBy); err != nil {
				return err
			}
			if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			events = append(events, item.GetDomainEvents()...)
			item.ClearDomainEvents()
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToOrderResponse(ord)
	return &response, nil
}

// RequestReVideo asks QA to re-record sections of one item without touching
// production state; the order returns to ready-for-client-approval
func (s *ApprovalService) RequestReVideo(ctx context.Context, orderID uuid.UUID, req RequestReVideoRequest) (*OrderResponse, error) {
	var ord *order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.MarkReVideoRequested(); err != nil {
			return err
		}

		item, err := repos.OrderItemRepo().FindByID(ctx, req.OrderItemID)
		if err != nil {
			return err
		}
		if item.OrderID != orderID {
			return shared.NewDomainError("INVALID_ORDER_ITEM", "Order item does not belong to this order")
		}
		pieces, err := fulfillment.NormalizePieces(req.Sections)
		if err != nil {
			return err
		}
		if err := item.RequestReVideo(pieces, req.Notes); err != nil {
			return err
		}
		if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// ClientRejected cancels the order at the client's request
func (s *ApprovalService) ClientRejected(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var ord *order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.ClientRejected(reason); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// RecordPayment records one received payment against the order
func (s *ApprovalService) RecordPayment(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*OrderResponse, error) {
	var ord *order.Order
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.RecordPayment(valueobject.NewMoneyINR(req.Amount), req.ReceiptRef, req.Note); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// ApprovePayments is the account-approval gate. It fails closed while
// cumulative payments are short of the total; on success the order and every
// client-approved item become ready for dispatch.
func (s *ApprovalService) ApprovePayments(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var (
		ord    *order.Order
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		var err error
		ord, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := ord.ApprovePayments(); err != nil {
			return err
		}

		items, err := repos.OrderItemRepo().FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Status != fulfillment.ItemStatusClientApproved {
				continue
			}
			if err := item.MarkReadyForDispatch(); err != nil {
				return err
			}
			if err := repos.OrderItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, ord); err != nil {
			return err
		}
		events = append(events, ord.GetDomainEvents()...)
		ord.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToOrderResponse(ord)
	return &response, nil
}

// CaptureVideo records the QA walkthrough video for an order item
func (s *ApprovalService) CaptureVideo(ctx context.Context, orderItemID uuid.UUID, req CaptureVideoRequest) error {
	return s.scope.Execute(ctx, func(repos appfulfillment.TransactionalRepositories) error {
		item, err := repos.OrderItemRepo().FindByID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if err := item.CaptureQAVideo(fulfillment.VideoData{
			URL:        req.URL,
			CapturedAt: time.Now(),
			CapturedBy: req.CapturedBy,
			Notes:      req.Notes,
		}); err != nil {
			return err
		}
		return repos.OrderItemRepo().SaveWithLock(ctx, item)
	})
}
