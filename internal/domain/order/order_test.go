package order

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testDelivery() DeliveryInfo {
	return DeliveryInfo{
		RecipientName:  "Kim Minsoo",
		RecipientPhone: "010-1234-5678",
		RoadAddress:    "123 Teheran-ro",
		ZipCode:        "06234",
	}
}

func testOrder(t *testing.T, statuses ...ItemStatus) *Order {
	t.Helper()
	items := make([]*Item, 0, len(statuses))
	for i, st := range statuses {
		items = append(items, &Item{
			ID:         int64(i + 1),
			ProductID:  int64(i + 1),
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(10),
			TotalPrice: decimal.NewFromInt(10),
			Status:     st,
		})
	}
	o, err := New(100, items, testDelivery(), PaymentMethodCard)
	require.NoError(t, err)
	// New starts from PENDING regardless of the seeded item statuses.
	return o
}

func TestNew_InitialState(t *testing.T) {
	it, err := NewItem(testProduct(1, "Laptop", "999.99", 10), 2)
	require.NoError(t, err)

	o, err := New(100, []*Item{it}, testDelivery(), PaymentMethodCard)

	require.NoError(t, err)
	require.Equal(t, int64(100), o.UserID)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, PaymentMethodCard, o.Payment.Method)
	require.Equal(t, PaymentStatusPending, o.Payment.Status)
	require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("1999.98")))
	require.True(t, o.FinalAmount.Equal(o.TotalAmount))
	require.True(t, o.DiscountAmount.IsZero())
	require.True(t, o.DeliveryFee.IsZero())
	require.Empty(t, o.History)
}

func TestNew_OrderNumberFormat(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	require.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), o.Number)
}

func TestNew_OrderNumbersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		o := testOrder(t, ItemStatusOrdered)
		require.False(t, seen[o.Number], "duplicate order number %s", o.Number)
		seen[o.Number] = true
	}
}

func TestNew_EmptyItems(t *testing.T) {
	_, err := New(100, nil, testDelivery(), PaymentMethodCard)

	require.ErrorIs(t, err, ErrEmptyOrderItems)
}

func TestNew_InvalidPaymentMethod(t *testing.T) {
	it := &Item{TotalPrice: decimal.NewFromInt(10)}

	_, err := New(100, []*Item{it}, testDelivery(), PaymentMethod("CRYPTO"))

	require.ErrorIs(t, err, ErrInvalidPayment)
}

func TestChangeStatus_AppendsHistory(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	o.ChangeStatus(StatusConfirmed, "payment approved")
	o.ChangeStatus(StatusPreparing, "picking started")

	require.Equal(t, StatusPreparing, o.Status)
	require.Len(t, o.History, 2)
	require.Equal(t, StatusPending, o.History[0].From)
	require.Equal(t, StatusConfirmed, o.History[0].To)
	require.Equal(t, "payment approved", o.History[0].Reason)
	require.Equal(t, StatusConfirmed, o.History[1].From)
	require.Equal(t, StatusPreparing, o.History[1].To)
	require.False(t, o.History[1].ChangedAt.IsZero())
}

func TestCalculateStatus_Aggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ItemStatus
		want     Status
	}{
		{
			name:     "all ordered stays pending",
			statuses: []ItemStatus{ItemStatusOrdered, ItemStatusOrdered},
			want:     StatusPending,
		},
		{
			name:     "one preparing pulls order to preparing",
			statuses: []ItemStatus{ItemStatusOrdered, ItemStatusPreparing},
			want:     StatusPreparing,
		},
		{
			name:     "one shipped dominates preparing",
			statuses: []ItemStatus{ItemStatusPreparing, ItemStatusShipped, ItemStatusOrdered},
			want:     StatusShipped,
		},
		{
			name:     "delivered dominates everything",
			statuses: []ItemStatus{ItemStatusOrdered, ItemStatusDelivered},
			want:     StatusDelivered,
		},
		{
			name:     "all cancelled cancels the order",
			statuses: []ItemStatus{ItemStatusCancelled, ItemStatusCancelled},
			want:     StatusCancelled,
		},
		{
			name:     "cancelled items are ignored in the aggregation",
			statuses: []ItemStatus{ItemStatusCancelled, ItemStatusPreparing},
			want:     StatusPreparing,
		},
		{
			name:     "all refunded maps to refunded",
			statuses: []ItemStatus{ItemStatusRefunded, ItemStatusRefunded},
			want:     StatusRefunded,
		},
		{
			name:     "all exchanged maps to exchanged",
			statuses: []ItemStatus{ItemStatusExchanged, ItemStatusExchanged},
			want:     StatusExchanged,
		},
		{
			name:     "refunded mixed with delivered ranks delivered",
			statuses: []ItemStatus{ItemStatusRefunded, ItemStatusDelivered},
			want:     StatusDelivered,
		},
		{
			name:     "refunded beside cancelled maps to refunded",
			statuses: []ItemStatus{ItemStatusRefunded, ItemStatusCancelled},
			want:     StatusRefunded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOrder(t, tt.statuses...)
			for i, st := range tt.statuses {
				o.Items[i].Status = st
			}

			got := o.CalculateStatus()

			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want, o.Status)
			// No history entry for the derived assignment.
			require.Empty(t, o.History)
		})
	}
}

func TestCalculateStatus_Idempotent(t *testing.T) {
	o := testOrder(t, ItemStatusShipped, ItemStatusPreparing)
	o.Items[0].Status = ItemStatusShipped
	o.Items[1].Status = ItemStatusPreparing

	first := o.CalculateStatus()
	second := o.CalculateStatus()

	require.Equal(t, first, second)
	require.Equal(t, StatusShipped, second)
}

func TestCalculateStatus_NoItemsLeavesStatusAlone(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)
	o.ChangeStatus(StatusConfirmed, "")
	o.Items = nil

	got := o.CalculateStatus()

	require.Equal(t, StatusConfirmed, got)
}

func TestCancel_CascadesToItems(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered, ItemStatusPreparing)

	err := o.Cancel("customer request")

	require.NoError(t, err)
	require.Equal(t, StatusCancelled, o.Status)
	for _, it := range o.Items {
		require.Equal(t, ItemStatusCancelled, it.Status)
	}
	require.Len(t, o.History, 1)
	require.Equal(t, "customer request", o.History[0].Reason)
	require.Equal(t, StatusCancelled, o.History[0].To)
}

func TestCancel_RejectedAfterConfirmedWindow(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)
	o.Status = StatusShipped

	err := o.Cancel("too late")

	require.ErrorIs(t, err, ErrCannotCancel)
	require.Equal(t, StatusShipped, o.Status)
	require.Empty(t, o.History)
}

func TestCancel_DeliveredItemAbortsWholeCascade(t *testing.T) {
	// Order-level status still allows cancelling, but one delivered item
	// must abort the cascade before any sibling is touched.
	o := testOrder(t, ItemStatusOrdered, ItemStatusDelivered)
	o.Items[1].Status = ItemStatusDelivered

	err := o.Cancel("customer request")

	require.ErrorIs(t, err, ErrCannotCancel)
	require.Equal(t, ItemStatusOrdered, o.Items[0].Status, "sibling must stay untouched")
	require.Equal(t, ItemStatusDelivered, o.Items[1].Status)
	require.Equal(t, StatusPending, o.Status)
	require.Empty(t, o.History)
}

func TestCanCancel(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	require.True(t, o.CanCancel())
	o.Status = StatusConfirmed
	require.True(t, o.CanCancel())
	o.Status = StatusPreparing
	require.False(t, o.CanCancel())
	o.Status = StatusDelivered
	require.False(t, o.CanCancel())
}

func TestApplyDiscount_RecomputesFinalAmount(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered, ItemStatusOrdered) // total 20

	err := o.ApplyDiscount(decimal.NewFromInt(5))

	require.NoError(t, err)
	require.True(t, o.FinalAmount.Equal(decimal.NewFromInt(15)))

	err = o.SetDeliveryFee(decimal.NewFromInt(3))

	require.NoError(t, err)
	require.True(t, o.FinalAmount.Equal(decimal.NewFromInt(18)), "final = total - discount + fee")
}

func TestApplyDiscount_NegativeRejected(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	err := o.ApplyDiscount(decimal.NewFromInt(-1))

	require.ErrorIs(t, err, ErrInvalidAmount)
	require.True(t, o.FinalAmount.Equal(o.TotalAmount))
}

func TestSetDeliveryFee_NegativeRejected(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	err := o.SetDeliveryFee(decimal.NewFromInt(-1))

	require.ErrorIs(t, err, ErrInvalidAmount)
	require.True(t, o.DeliveryFee.IsZero())
}

func TestSyncAmounts_TracksLiveItems(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered, ItemStatusOrdered) // total 20
	require.NoError(t, o.ApplyDiscount(decimal.NewFromInt(2)))

	// A later item price correction flows into the totals on the next
	// financial mutation.
	o.Items[0].TotalPrice = decimal.NewFromInt(50)
	require.NoError(t, o.SetDeliveryFee(decimal.NewFromInt(1)))

	require.True(t, o.TotalAmount.Equal(decimal.NewFromInt(60)))
	require.True(t, o.FinalAmount.Equal(decimal.NewFromInt(59)))
}

func TestMarkAsDelivered(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)
	tracking := "1Z999AA10123456784"

	o.MarkAsDelivered(&tracking)

	require.Equal(t, StatusDelivered, o.Status)
	require.Equal(t, &tracking, o.Delivery.TrackingNumber)
	require.NotNil(t, o.Delivery.DeliveredAt)
	// Direct assignment, no audit entry.
	require.Empty(t, o.History)
}

func TestMarkAsDelivered_NilTrackingNumber(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered)

	o.MarkAsDelivered(nil)

	require.Equal(t, StatusDelivered, o.Status)
	require.Nil(t, o.Delivery.TrackingNumber)
	require.NotNil(t, o.Delivery.DeliveredAt)
}

func TestItemLookup(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered, ItemStatusOrdered)

	it, err := o.Item(2)
	require.NoError(t, err)
	require.Equal(t, int64(2), it.ID)

	_, err = o.Item(999)
	require.ErrorIs(t, err, ErrOrderItemNotFound)
}

func TestCalculateTotalAmount_IsPureQuery(t *testing.T) {
	o := testOrder(t, ItemStatusOrdered, ItemStatusOrdered)
	o.Items[0].TotalPrice = decimal.NewFromInt(99)

	got := o.CalculateTotalAmount()

	require.True(t, got.Equal(decimal.NewFromInt(109)))
	// The stored total only moves via syncAmounts.
	require.True(t, o.TotalAmount.Equal(decimal.NewFromInt(20)))
}
