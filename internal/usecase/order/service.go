package order

import (
	"context"

	"github.com/shopspring/decimal"

	domorder "example.com/shop-core/internal/domain/order"
)

type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*domorder.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForUser enforces ownership: reading someone else's order is forbidden,
// not merely not-found.
func (s *Service) GetForUser(ctx context.Context, userID, id int64) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrNotOwner
	}
	return o, nil
}

// ChangeStatus runs the audited transition path and persists the appended
// history entry.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status domorder.Status, reason string) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.ChangeStatus(status, reason)
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CancelForUser is the customer-facing cancel; it checks ownership first.
func (s *Service) CancelForUser(ctx context.Context, userID, id int64, reason string) (*domorder.Order, error) {
	o, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) MarkAsDelivered(ctx context.Context, id int64, trackingNumber *string) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.MarkAsDelivered(trackingNumber)
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) ApplyDiscount(ctx context.Context, id int64, amount decimal.Decimal) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.ApplyDiscount(amount); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) SetDeliveryFee(ctx context.Context, id int64, fee decimal.Decimal) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.SetDeliveryFee(fee); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) UpdateDeliveryInfo(ctx context.Context, id int64, u domorder.DeliveryUpdate) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Delivery.Update(u)
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) StartPreparingItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).StartPreparing)
}

func (s *Service) ShipItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).Ship)
}

func (s *Service) DeliverItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).CompleteDelivery)
}

func (s *Service) CancelItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).Cancel)
}

func (s *Service) RefundItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).Refund)
}

func (s *Service) ExchangeItem(ctx context.Context, orderID, itemID int64) (*domorder.Order, error) {
	return s.mutateItem(ctx, orderID, itemID, (*domorder.Item).Exchange)
}

// mutateItem applies one item transition, then re-derives the order status
// from the item set before saving.
func (s *Service) mutateItem(ctx context.Context, orderID, itemID int64, fn func(*domorder.Item) error) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	it, err := o.Item(itemID)
	if err != nil {
		return nil, err
	}
	if err := fn(it); err != nil {
		return nil, err
	}
	o.CalculateStatus()
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
