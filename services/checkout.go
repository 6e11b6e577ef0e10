package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
)

const maxOrderCodeAttempts = 5

// CustomerInfo is the delivery contact entered at checkout
type CustomerInfo struct {
	FullName string
	Phone    string
	Email    string
	Province string
	District string
	Address  string
	Note     string
}

// Validate reports the first empty required field
func (c CustomerInfo) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", c.FullName},
		{"phone", c.Phone},
		{"province", c.Province},
		{"district", c.District},
		{"address", c.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}

func (c CustomerInfo) toModel() models.Customer {
	return models.Customer{
		FullName: strings.TrimSpace(c.FullName),
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		Province: strings.TrimSpace(c.Province),
		District: strings.TrimSpace(c.District),
		Address:  strings.TrimSpace(c.Address),
		Note:     strings.TrimSpace(c.Note),
	}
}

// CheckoutOptions are the per-request knobs of a checkout
type CheckoutOptions struct {
	PaymentMethod  string
	IdempotencyKey string
}

// CheckoutResult is the committed order plus what happened after commit.
// PaymentErr is set when the order exists but the payment provider failed.
type CheckoutResult struct {
	Order          *models.Order
	Replayed       bool
	GatewayOrderID string
	PaymentErr     error
}

// CheckoutDeps wires a CheckoutEngine. Events, Notifier, Payments and
// Idempotency are optional.
type CheckoutDeps struct {
	Carts         CartStore
	Orders        OrderStore
	Coupons       CouponValidator
	Events        EventPublisher
	Notifier      Notifier
	Payments      PaymentGateway
	Idempotency   IdempotencyStore
	CodeGenerator func() string
}

// CheckoutEngine turns a cart into an order
type CheckoutEngine struct {
	deps CheckoutDeps
	opts engineOptions
}

func NewCheckoutEngine(deps CheckoutDeps, opts ...EngineOption) *CheckoutEngine {
	if deps.CodeGenerator == nil {
		deps.CodeGenerator = utils.GenerateOrderCode
	}
	return &CheckoutEngine{deps: deps, opts: buildOptions(opts)}
}

func (e *CheckoutEngine) paymentMethod(method string) (string, error) {
	switch method = strings.ToLower(strings.TrimSpace(method)); method {
	case "":
		return models.PaymentMethodCOD, nil
	case models.PaymentMethodCOD, models.PaymentMethodBankTransfer:
		return method, nil
	case models.PaymentMethodOnline:
		if e.deps.Payments == nil {
			return "", ErrPaymentNotSupported
		}
		return method, nil
	default:
		return "", ErrInvalidPayment
	}
}

// Checkout validates the customer, re-prices the cart and commits the order.
// Stock, coupon usage and cart deletion are committed together or not at all.
func (e *CheckoutEngine) Checkout(ctx context.Context, owner OwnerKey, customer CustomerInfo, opts CheckoutOptions) (*CheckoutResult, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, ErrOwnerRequired
	}
	method, err := e.paymentMethod(opts.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if res, err := e.replay(ctx, opts.IdempotencyKey); res != nil || err != nil {
		return res, err
	}

	order, err := e.commit(ctx, owner, customer, method)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Order %s placed by %s: total %d, discount %d", order.OrderCode, owner, order.Total, order.Discount)

	result := &CheckoutResult{Order: order}
	if method == models.PaymentMethodOnline {
		e.startPayment(ctx, result)
	}
	e.afterCommit(ctx, order, opts.IdempotencyKey)
	return result, nil
}

func (e *CheckoutEngine) replay(ctx context.Context, key string) (*CheckoutResult, error) {
	if key == "" || e.deps.Idempotency == nil {
		return nil, nil
	}
	code, found, err := e.deps.Idempotency.Lookup(ctx, key)
	if err != nil {
		// The store being down should not block checkout.
		utils.LogError("Idempotency lookup failed for key %s: %v", key, err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	order, err := e.deps.Orders.FindOrderByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load replayed order: %w", err)
	}
	utils.LogInfo("Checkout replayed for idempotency key %s: order %s", key, code)
	return &CheckoutResult{Order: order, Replayed: true, GatewayOrderID: order.PaymentRef}, nil
}

func (e *CheckoutEngine) commit(ctx context.Context, owner OwnerKey, customer CustomerInfo, method string) (*models.Order, error) {
	for attempt := 0; attempt < MaxMutationRetries; attempt++ {
		cart, err := e.deps.Carts.FindCart(ctx, owner)
		if errors.Is(err, ErrCartNotFound) {
			return nil, ErrCartEmpty
		}
		if err != nil {
			return nil, fmt.Errorf("find cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil, ErrCartEmpty
		}

		prev := CouponStateOf(cart)
		state, ev, err := Recompute(ctx, prev, cart.Subtotal(), owner, e.opts.now(), e.deps.Coupons)
		if err != nil {
			return nil, err
		}
		state.ApplyTo(cart)

		if prev.Kind == CouponApplied && state.Kind == CouponNone {
			// Persist the corrected total so the customer sees it before retrying.
			if err := e.deps.Carts.SaveCart(ctx, cart); errors.Is(err, ErrCartConflict) {
				continue
			} else if err != nil {
				return nil, fmt.Errorf("save cart: %w", err)
			}
			return nil, &CouponRejectedError{Code: prev.Code, Reason: ev.Reason}
		}

		order := buildOrder(cart, owner, customer, method, ev)
		placed, err := e.place(ctx, PlaceOrderCommand{
			Order:       order,
			CartID:      cart.ID,
			CartVersion: cart.Version,
			CouponID:    cart.CouponID,
		})
		if errors.Is(err, ErrCartConflict) {
			utils.LogDebug("Cart %d changed during checkout, retry %d", cart.ID, attempt+1)
			continue
		}
		return placed, err
	}
	return nil, ErrCartConflict
}

func (e *CheckoutEngine) place(ctx context.Context, cmd PlaceOrderCommand) (*models.Order, error) {
	for i := 0; i < maxOrderCodeAttempts; i++ {
		cmd.Order.OrderCode = e.deps.CodeGenerator()
		order, err := e.deps.Orders.PlaceOrder(ctx, cmd)
		if errors.Is(err, ErrDuplicateOrderCode) {
			continue
		}
		return order, err
	}
	return nil, ErrDuplicateOrderCode
}

func buildOrder(cart *models.Cart, owner OwnerKey, customer CustomerInfo, method string, ev Evaluation) *models.Order {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	order := &models.Order{
		UserID:        owner.UserIDPtr(),
		CartToken:     owner.TokenPtr(),
		Customer:      customer.toModel(),
		Items:         items,
		Subtotal:      cart.Subtotal(),
		Discount:      cart.ComputedDiscount,
		Total:         cart.TotalPayable(),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: method,
		Currency:      cart.Currency,
	}
	if cart.CouponCode != "" {
		order.CouponID = cart.CouponID
		order.CouponCode = cart.CouponCode
		order.CouponDiscountType = cart.CouponDiscountType
		if ev.Coupon != nil {
			order.CouponDiscountValue = ev.Coupon.DiscountValue
		}
	}
	return order
}

func (e *CheckoutEngine) startPayment(ctx context.Context, result *CheckoutResult) {
	order := result.Order
	gatewayID, err := e.deps.Payments.CreateOrder(ctx, order.OrderCode, order.Total, order.Currency)
	if err != nil {
		utils.LogError("Payment gateway failed for order %s: %v", order.OrderCode, err)
		result.PaymentErr = &PaymentGatewayError{OrderCode: order.OrderCode, Err: err}
		updated, terr := e.deps.Orders.TransitionOrder(ctx, OrderTransition{
			OrderID:     order.ID,
			FromStatus:  models.OrderStatusPending,
			ToStatus:    models.OrderStatusPending,
			FromPayment: models.PaymentStatusPending,
			ToPayment:   models.PaymentStatusFailed,
		})
		if terr != nil {
			utils.LogError("Failed to mark payment failed for order %s: %v", order.OrderCode, terr)
			return
		}
		result.Order = updated
		return
	}

	if err := e.deps.Orders.SavePayment(ctx, &models.Payment{
		OrderID:        order.ID,
		GatewayOrderID: gatewayID,
		Amount:         order.Total,
		Currency:       order.Currency,
		Status:         models.PaymentStatusPending,
	}); err != nil {
		utils.LogError("Failed to record payment for order %s: %v", order.OrderCode, err)
	}

	updated, err := e.deps.Orders.TransitionOrder(ctx, OrderTransition{
		OrderID:     order.ID,
		FromStatus:  models.OrderStatusPending,
		ToStatus:    models.OrderStatusPending,
		FromPayment: models.PaymentStatusPending,
		ToPayment:   models.PaymentStatusPending,
		PaymentRef:  gatewayID,
	})
	if err != nil {
		utils.LogError("Failed to store payment ref for order %s: %v", order.OrderCode, err)
	} else {
		result.Order = updated
	}
	result.GatewayOrderID = gatewayID
}

// afterCommit runs the best-effort side effects of a placed order
func (e *CheckoutEngine) afterCommit(ctx context.Context, order *models.Order, key string) {
	if e.deps.Events != nil {
		if err := e.deps.Events.PublishOrderCreated(ctx, order); err != nil {
			utils.LogError("Failed to publish order %s: %v", order.OrderCode, err)
		}
	}
	if e.deps.Notifier != nil && order.Customer.Email != "" {
		if err := e.deps.Notifier.SendOrderConfirmation(ctx, order); err != nil {
			utils.LogError("Failed to send confirmation for order %s: %v", order.OrderCode, err)
		}
	}
	if key != "" && e.deps.Idempotency != nil {
		if err := e.deps.Idempotency.Remember(ctx, key, order.OrderCode); err != nil {
			utils.LogError("Failed to store idempotency key %s: %v", key, err)
		}
	}
}

// VerifyPayment checks a provider callback and marks the order paid
func (e *CheckoutEngine) VerifyPayment(ctx context.Context, orderCode, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	if e.deps.Payments == nil {
		return nil, ErrPaymentNotSupported
	}
	order, err := e.deps.Orders.FindOrderByCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if order.PaymentRef == "" || order.PaymentRef != gatewayOrderID {
		return nil, ErrInvalidSignature
	}
	if !e.deps.Payments.VerifySignature(gatewayOrderID, paymentID, signature) {
		utils.LogError("Invalid payment signature for order %s", orderCode)
		return nil, ErrInvalidSignature
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidTransition
	}

	updated, err := e.deps.Orders.TransitionOrder(ctx, OrderTransition{
		OrderID:     order.ID,
		FromStatus:  order.Status,
		ToStatus:    models.OrderStatusConfirmed,
		FromPayment: order.PaymentStatus,
		ToPayment:   models.PaymentStatusPaid,
	})
	if err != nil {
		return nil, err
	}

	payment, err := e.deps.Orders.FindPaymentByGatewayOrder(ctx, gatewayOrderID)
	if err == nil {
		payment.GatewayPayment = paymentID
		payment.Status = models.PaymentStatusPaid
		if err := e.deps.Orders.SavePayment(ctx, payment); err != nil {
			utils.LogError("Failed to update payment %s: %v", gatewayOrderID, err)
		}
	} else {
		utils.LogError("Payment record %s not found: %v", gatewayOrderID, err)
	}

	utils.LogInfo("Order %s paid via %s", orderCode, paymentID)
	return updated, nil
}
