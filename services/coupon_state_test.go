package services_test

import (
	"context"
	"testing"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	capped := percent("SAVE10", 10)
	capped.MaxDiscount = int64Ptr(20000)
	stored := f.coupon(t, capped)
	owner := services.AnonymousOwner("tok")

	t.Run("none stays none", func(t *testing.T) {
		next, _, err := services.Recompute(ctx, services.NoCoupon(), 100000, owner, testNow, f.evaluator)
		require.NoError(t, err)
		assert.Equal(t, services.CouponNone, next.Kind)
	})

	t.Run("pending becomes applied", func(t *testing.T) {
		next, ev, err := services.Recompute(ctx, services.PendingCoupon("save10"), 500000, owner, testNow, f.evaluator)
		require.NoError(t, err)
		assert.True(t, ev.Valid)
		assert.Equal(t, services.CouponApplied, next.Kind)
		assert.Equal(t, "SAVE10", next.Code)
		assert.Equal(t, int64(20000), next.Discount)
		require.NotNil(t, next.CouponID)
		assert.Equal(t, stored.ID, *next.CouponID)
	})

	t.Run("applied drops to none when invalid", func(t *testing.T) {
		cart := &models.Cart{CouponCode: "SAVE10", CouponDiscountType: models.DiscountTypePercent, ComputedDiscount: 5000}
		next, ev, err := services.Recompute(ctx, services.CouponStateOf(cart), 0, owner, testNow, f.evaluator)
		require.NoError(t, err)
		assert.Equal(t, services.ReasonNoDiscount, ev.Reason)
		assert.Equal(t, services.CouponNone, next.Kind)

		next.ApplyTo(cart)
		assert.Empty(t, cart.CouponCode)
		assert.Nil(t, cart.CouponID)
		assert.Zero(t, cart.ComputedDiscount)
	})
}

func TestCouponStateOf(t *testing.T) {
	assert.Equal(t, services.CouponNone, services.CouponStateOf(&models.Cart{}).Kind)

	id := uint(5)
	s := services.CouponStateOf(&models.Cart{CouponCode: "X", CouponID: &id, ComputedDiscount: 10})
	assert.Equal(t, services.CouponApplied, s.Kind)
	assert.Equal(t, int64(10), s.Discount)
}
