package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domorder "example.com/shop-core/internal/domain/order"
)

type mockOrderRepository struct {
	orders  map[int64]*domorder.Order
	nextID  int64
	saveErr error
	saves   int
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[int64]*domorder.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	result := make([]*domorder.Order, 0, len(m.orders))
	for _, o := range m.orders {
		result = append(result, o)
	}
	return result, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	var result []*domorder.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) Save(ctx context.Context, o *domorder.Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.orders[o.ID] = o
	return nil
}

func seedOrder(t *testing.T, repo *mockOrderRepository, userID int64, statuses ...domorder.ItemStatus) *domorder.Order {
	t.Helper()
	items := make([]*domorder.Item, 0, len(statuses))
	for i, st := range statuses {
		items = append(items, &domorder.Item{
			ID:         int64(i + 1),
			ProductID:  int64(i + 1),
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(10),
			TotalPrice: decimal.NewFromInt(10),
			Status:     st,
		})
	}
	delivery := domorder.DeliveryInfo{
		RecipientName:  "Kim Minsoo",
		RecipientPhone: "010-1234-5678",
		RoadAddress:    "123 Teheran-ro",
		ZipCode:        "06234",
	}
	o, err := domorder.New(userID, items, delivery, domorder.PaymentMethodCard)
	require.NoError(t, err)
	for i, st := range statuses {
		o.Items[i].Status = st
	}
	created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	return created
}

func TestGetForUser_Owner(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	o, err := svc.GetForUser(context.Background(), 100, seeded.ID)

	require.NoError(t, err)
	require.Equal(t, seeded.ID, o.ID)
}

func TestGetForUser_NotOwner(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	_, err := svc.GetForUser(context.Background(), 200, seeded.ID)

	require.ErrorIs(t, err, domorder.ErrNotOwner)
}

func TestGetForUser_NotFound(t *testing.T) {
	svc := NewService(newMockOrderRepository())

	_, err := svc.GetForUser(context.Background(), 100, 999)

	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}

func TestListByUser(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	seedOrder(t, repo, 200, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	orders, err := svc.ListByUser(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, int64(100), o.UserID)
	}
}

func TestChangeStatus_AppendsHistoryAndSaves(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	o, err := svc.ChangeStatus(context.Background(), seeded.ID, domorder.StatusConfirmed, "payment approved")

	require.NoError(t, err)
	require.Equal(t, domorder.StatusConfirmed, o.Status)
	require.Len(t, o.History, 1)
	require.Equal(t, "payment approved", o.History[0].Reason)
	require.Equal(t, 1, repo.saves)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	_, err := svc.ChangeStatus(context.Background(), seeded.ID, domorder.Status("BOGUS"), "")

	require.ErrorIs(t, err, domorder.ErrInvalidStatus)
	require.Equal(t, 0, repo.saves)
}

func TestCancel_PendingOrder(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered, domorder.ItemStatusPreparing)
	svc := NewService(repo)

	o, err := svc.Cancel(context.Background(), seeded.ID, "customer request")

	require.NoError(t, err)
	require.Equal(t, domorder.StatusCancelled, o.Status)
	for _, it := range o.Items {
		require.Equal(t, domorder.ItemStatusCancelled, it.Status)
	}
}

func TestCancel_RejectedWhenShipped(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusShipped)
	seeded.Status = domorder.StatusShipped
	svc := NewService(repo)

	_, err := svc.Cancel(context.Background(), seeded.ID, "too late")

	require.ErrorIs(t, err, domorder.ErrCannotCancel)
	require.Equal(t, 0, repo.saves)
}

func TestCancelForUser_ChecksOwnershipFirst(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	_, err := svc.CancelForUser(context.Background(), 200, seeded.ID, "not mine")

	require.ErrorIs(t, err, domorder.ErrNotOwner)
	require.Equal(t, domorder.StatusPending, seeded.Status)
}

func TestCancelForUser_Owner(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	o, err := svc.CancelForUser(context.Background(), 100, seeded.ID, "changed my mind")

	require.NoError(t, err)
	require.Equal(t, domorder.StatusCancelled, o.Status)
}

func TestMarkAsDelivered(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusShipped)
	svc := NewService(repo)
	tracking := "TRACK123"

	o, err := svc.MarkAsDelivered(context.Background(), seeded.ID, &tracking)

	require.NoError(t, err)
	require.Equal(t, domorder.StatusDelivered, o.Status)
	require.Equal(t, "TRACK123", *o.Delivery.TrackingNumber)
	require.Equal(t, 1, repo.saves)
}

func TestApplyDiscountAndDeliveryFee(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered, domorder.ItemStatusOrdered) // total 20
	svc := NewService(repo)

	o, err := svc.ApplyDiscount(context.Background(), seeded.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.True(t, o.FinalAmount.Equal(decimal.NewFromInt(15)))

	o, err = svc.SetDeliveryFee(context.Background(), seeded.ID, decimal.NewFromInt(3))
	require.NoError(t, err)
	require.True(t, o.FinalAmount.Equal(decimal.NewFromInt(18)))
}

func TestApplyDiscount_NegativeRejected(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	_, err := svc.ApplyDiscount(context.Background(), seeded.ID, decimal.NewFromInt(-1))

	require.ErrorIs(t, err, domorder.ErrInvalidAmount)
	require.Equal(t, 0, repo.saves)
}

func TestUpdateDeliveryInfo(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)
	newName := "Lee Jiwon"

	o, err := svc.UpdateDeliveryInfo(context.Background(), seeded.ID, domorder.DeliveryUpdate{
		RecipientName: &newName,
	})

	require.NoError(t, err)
	require.Equal(t, "Lee Jiwon", o.Delivery.RecipientName)
	require.Equal(t, "010-1234-5678", o.Delivery.RecipientPhone)
}

func TestItemTransitions_RecalculateOrderStatus(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	o, err := svc.StartPreparingItem(context.Background(), seeded.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.ItemStatusPreparing, o.Items[0].Status)
	require.Equal(t, domorder.StatusPreparing, o.Status, "order follows the furthest item")

	o, err = svc.ShipItem(context.Background(), seeded.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusShipped, o.Status)

	o, err = svc.DeliverItem(context.Background(), seeded.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusDelivered, o.Status)

	o, err = svc.RefundItem(context.Background(), seeded.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.ItemStatusRefunded, o.Items[0].Status)
	// The sibling is still ORDERED, so refunded ranks at delivered level.
	require.Equal(t, domorder.StatusDelivered, o.Status)
}

func TestCancelItem_AllItemsCancelledCancelsOrder(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	o, err := svc.CancelItem(context.Background(), seeded.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusPending, o.Status, "one active item keeps the order alive")

	o, err = svc.CancelItem(context.Background(), seeded.ID, 2)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusCancelled, o.Status)
}

func TestItemTransition_InvalidFromState(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	// ORDERED cannot ship directly.
	_, err := svc.ShipItem(context.Background(), seeded.ID, 1)

	require.ErrorIs(t, err, domorder.ErrInvalidTransition)
	require.Equal(t, 0, repo.saves)
}

func TestItemTransition_ItemNotFound(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusOrdered)
	svc := NewService(repo)

	_, err := svc.StartPreparingItem(context.Background(), seeded.ID, 999)

	require.ErrorIs(t, err, domorder.ErrOrderItemNotFound)
}

func TestExchangeItem(t *testing.T) {
	repo := newMockOrderRepository()
	seeded := seedOrder(t, repo, 100, domorder.ItemStatusDelivered)
	svc := NewService(repo)

	o, err := svc.ExchangeItem(context.Background(), seeded.ID, 1)

	require.NoError(t, err)
	require.Equal(t, domorder.ItemStatusExchanged, o.Items[0].Status)
	require.Equal(t, domorder.StatusExchanged, o.Status)
}
