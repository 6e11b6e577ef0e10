package services

import (
	"context"
	"time"

	"github.com/Govind-619/Storefront/models"
)

// ProductStore is the read side of inventory
type ProductStore interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

// CartStore persists carts with optimistic versioning.
// SaveCart and DeleteCart return ErrCartConflict when cart.Version is stale;
// SaveCart bumps cart.Version on success. SaveMerged saves target and deletes
// source in one step, both version checked.
type CartStore interface {
	FindCart(ctx context.Context, owner OwnerKey) (*models.Cart, error)
	CreateCart(ctx context.Context, owner OwnerKey, currency string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	SaveMerged(ctx context.Context, target, source *models.Cart) error
	DeleteCart(ctx context.Context, cart *models.Cart) error
}

// CouponStore looks up coupons by normalized code and backs coupon admin
type CouponStore interface {
	FindCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id uint) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	UpdateCoupon(ctx context.Context, coupon *models.Coupon) error
	DeleteCoupon(ctx context.Context, id uint) error
	CountRedemptions(ctx context.Context, couponID, userID uint) (int, error)
}

// OrderHistory answers first-order questions for coupon rules
type OrderHistory interface {
	CountOrdersByUser(ctx context.Context, userID uint) (int, error)
}

// PlaceOrderCommand is everything the store needs to commit a checkout atomically
type PlaceOrderCommand struct {
	Order       *models.Order
	CartID      uint
	CartVersion int
	CouponID    *uint
}

// OrderTransition moves an order from one known state to another.
// The store applies it only if the order is still in the From state.
type OrderTransition struct {
	OrderID         uint
	FromStatus      string
	ToStatus        string
	FromPayment     string
	ToPayment       string
	PaymentRef      string
	RestockOnCancel bool
}

// OrderStore commits checkouts and serves order administration
type OrderStore interface {
	OrderHistory
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*models.Order, error)
	FindOrderByCode(ctx context.Context, code string) (*models.Order, error)
	TransitionOrder(ctx context.Context, t OrderTransition) (*models.Order, error)
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
	FindPaymentByGatewayOrder(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
}

// EventPublisher announces committed orders
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// PaymentGateway creates provider-side orders and checks callback signatures
type PaymentGateway interface {
	CreateOrder(ctx context.Context, receipt string, amount int64, currency string) (string, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// IdempotencyStore remembers which order a checkout key produced
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (orderCode string, found bool, err error)
	Remember(ctx context.Context, key, orderCode string) error
}

// Notifier tells the customer their order was placed
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}
