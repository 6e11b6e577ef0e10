package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, f *fixture, owner services.OwnerKey, productID uint, qty int) *models.Order {
	t.Helper()
	cartWith(t, f, owner, productID, qty)
	res, err := f.checkout.Checkout(context.Background(), owner, validCustomer(), services.CheckoutOptions{})
	require.NoError(t, err)
	return res.Order
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the lifecycle", func(t *testing.T) {
		f := newFixture(t)
		orders := services.NewOrderService(f.store)
		id := f.product("pour-over", 100000, 5)
		order := placeOrder(t, f, services.AnonymousOwner("a"), id, 1)

		for _, status := range []string{
			models.OrderStatusConfirmed,
			models.OrderStatusShipping,
			models.OrderStatusCompleted,
		} {
			updated, err := orders.UpdateOrderStatus(ctx, order.OrderCode, status, "")
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}

		updated, err := orders.UpdateOrderStatus(ctx, order.OrderCode, "", models.PaymentStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	})

	t.Run("cancel returns stock", func(t *testing.T) {
		f := newFixture(t)
		orders := services.NewOrderService(f.store)
		id := f.product("pour-over", 100000, 5)
		order := placeOrder(t, f, services.AnonymousOwner("a"), id, 2)
		assert.Equal(t, 3, f.stock(t, id))

		updated, err := orders.UpdateOrderStatus(ctx, order.OrderCode, models.OrderStatusCancelled, "")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, updated.Status)
		assert.Equal(t, 5, f.stock(t, id))
	})

	t.Run("rejects invalid moves", func(t *testing.T) {
		f := newFixture(t)
		orders := services.NewOrderService(f.store)
		id := f.product("pour-over", 100000, 5)
		order := placeOrder(t, f, services.AnonymousOwner("a"), id, 1)

		_, err := orders.UpdateOrderStatus(ctx, order.OrderCode, models.OrderStatusCompleted, "")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
		_, err = orders.UpdateOrderStatus(ctx, order.OrderCode, models.OrderStatusPending, "")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
		_, err = orders.UpdateOrderStatus(ctx, order.OrderCode, "", models.PaymentStatusRefunded)
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
		_, err = orders.UpdateOrderStatus(ctx, "DH000000", models.OrderStatusConfirmed, "")
		assert.ErrorIs(t, err, services.ErrOrderNotFound)
	})

	t.Run("codes are case-insensitive", func(t *testing.T) {
		f := newFixture(t)
		orders := services.NewOrderService(f.store)
		id := f.product("pour-over", 100000, 5)
		order := placeOrder(t, f, services.AnonymousOwner("a"), id, 1)

		found, err := orders.GetOrder(ctx, " dh"+order.OrderCode[2:])
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})
}

func TestExportOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := services.NewOrderService(f.store)
	id := f.product("pour-over", 100000, 10)

	placeOrder(t, f, services.AnonymousOwner("a"), id, 1)
	f.now = testNow.Add(48 * time.Hour)
	placeOrder(t, f, services.AnonymousOwner("b"), id, 1)

	list, err := orders.ExportOrders(ctx, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = orders.ExportOrders(ctx, testNow.Add(-time.Hour), testNow.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetOwnedOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := services.NewOrderService(f.store)
	id := f.product("filter papers", 20000, 10)

	guestOrder := placeOrder(t, f, services.AnonymousOwner("guest-a"), id, 1)
	userOrder := placeOrder(t, f, services.UserOwner(7), id, 1)

	got, err := orders.GetOwnedOrder(ctx, guestOrder.OrderCode, services.AnonymousOwner("guest-a"))
	require.NoError(t, err)
	assert.Equal(t, guestOrder.ID, got.ID)

	got, err = orders.GetOwnedOrder(ctx, userOrder.OrderCode, services.UserOwner(7))
	require.NoError(t, err)
	assert.Equal(t, userOrder.ID, got.ID)

	tests := []struct {
		name  string
		code  string
		owner services.OwnerKey
	}{
		{"other guest", guestOrder.OrderCode, services.AnonymousOwner("guest-b")},
		{"user reading guest order", guestOrder.OrderCode, services.UserOwner(7)},
		{"other user", userOrder.OrderCode, services.UserOwner(8)},
		{"guest reading user order", userOrder.OrderCode, services.AnonymousOwner("guest-a")},
		{"unknown code", "DH000000", services.UserOwner(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orders.GetOwnedOrder(ctx, tt.code, tt.owner)
			assert.ErrorIs(t, err, services.ErrOrderNotFound)
		})
	}
}

func TestListUserOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := services.NewOrderService(f.store)
	id := f.product("dripper", 150000, 10)

	first := placeOrder(t, f, services.UserOwner(4), id, 1)
	placeOrder(t, f, services.UserOwner(5), id, 1)
	placeOrder(t, f, services.AnonymousOwner("guest-a"), id, 1)
	second := placeOrder(t, f, services.UserOwner(4), id, 2)

	list, err := orders.ListUserOrders(ctx, 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.OrderCode, list[0].OrderCode)
	assert.Equal(t, first.OrderCode, list[1].OrderCode)
	assert.Len(t, list[0].Items, 1)

	none, err := orders.ListUserOrders(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
