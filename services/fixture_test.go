package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/repository/memstore"
	"github.com/Govind-619/Storefront/services"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	now       time.Time
	store     *memstore.Store
	evaluator *services.CouponEvaluator
	carts     *services.CartEngine
	checkout  *services.CheckoutEngine
}

func newFixture(t *testing.T, deps ...func(*services.CheckoutDeps)) *fixture {
	t.Helper()
	f := &fixture{now: testNow, store: memstore.New()}
	f.store.SetClock(func() time.Time { return f.now })
	f.evaluator = services.NewCouponEvaluator(f.store, f.store)
	clock := services.WithClock(func() time.Time { return f.now })

	d := services.CheckoutDeps{Carts: f.store, Orders: f.store, Coupons: f.evaluator}
	for _, fn := range deps {
		fn(&d)
	}
	f.carts = services.NewCartEngine(f.store, f.store, f.evaluator, clock)
	f.checkout = services.NewCheckoutEngine(d, clock)
	return f
}

func (f *fixture) product(name string, price int64, stock int) uint {
	return f.store.AddProduct(models.Product{
		Name:     name,
		Slug:     name,
		SKU:      "SKU-" + name,
		Price:    price,
		Quantity: stock,
	})
}

func (f *fixture) coupon(t *testing.T, c models.Coupon) *models.Coupon {
	t.Helper()
	c.Active = true
	require.NoError(t, f.store.CreateCoupon(context.Background(), &c))
	return &c
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func percent(code string, value float64) models.Coupon {
	return models.Coupon{Code: code, DiscountType: models.DiscountTypePercent, DiscountValue: value}
}

func amount(code string, value float64) models.Coupon {
	return models.Coupon{Code: code, DiscountType: models.DiscountTypeAmount, DiscountValue: value}
}

func validCustomer() services.CustomerInfo {
	return services.CustomerInfo{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Email:    "a@example.com",
		Province: "Ha Noi",
		District: "Ba Dinh",
		Address:  "1 Kim Ma",
	}
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
