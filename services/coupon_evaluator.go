package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/shopspring/decimal"
)

// RejectReason is a stable code for why a coupon did not apply
type RejectReason string

const (
	ReasonNone             RejectReason = ""
	ReasonNotFound         RejectReason = "not_found"
	ReasonNotStarted       RejectReason = "not_started"
	ReasonExpired          RejectReason = "expired"
	ReasonExhausted        RejectReason = "exhausted"
	ReasonLoginRequired    RejectReason = "login_required"
	ReasonPerUserLimit     RejectReason = "per_user_limit"
	ReasonNotFirstOrder    RejectReason = "not_first_order"
	ReasonBelowMinSubtotal RejectReason = "below_min_subtotal"
	ReasonAboveMaxSubtotal RejectReason = "above_max_subtotal"
	ReasonNoDiscount       RejectReason = "no_discount"
)

var reasonMessages = map[RejectReason]string{
	ReasonNotFound:         "coupon not found or inactive",
	ReasonNotStarted:       "coupon is not active yet",
	ReasonExpired:          "coupon has expired",
	ReasonExhausted:        "coupon usage limit reached",
	ReasonLoginRequired:    "coupon requires login",
	ReasonPerUserLimit:     "coupon already used the maximum number of times",
	ReasonNotFirstOrder:    "coupon is only valid on a first order",
	ReasonBelowMinSubtotal: "cart subtotal is below the coupon minimum",
	ReasonAboveMaxSubtotal: "cart subtotal is above the coupon maximum",
	ReasonNoDiscount:       "coupon gives no discount on this cart",
}

// Message is the human readable text for the reason
func (r RejectReason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// Evaluation is the outcome of pricing one code against one cart
type Evaluation struct {
	Valid    bool
	Reason   RejectReason
	Discount int64
	Coupon   *models.Coupon
}

func rejected(reason RejectReason) Evaluation {
	return Evaluation{Reason: reason}
}

// UsageHistory is what a rule needs to know about the owner's past orders
type UsageHistory struct {
	Redemptions int // orders by this user that used this coupon
	Orders      int // orders by this user, any coupon
}

// RuleInput is the cart-side input to EvaluateRule
type RuleInput struct {
	Subtotal int64
	Owner    OwnerKey
	History  UsageHistory
	Now      time.Time
}

// NormalizeCode trims and uppercases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EvaluateRule checks a found, active coupon against the cart. Checks run in a
// fixed order and stop at the first failure.
func EvaluateRule(c *models.Coupon, in RuleInput) Evaluation {
	if c == nil || !c.Active {
		return rejected(ReasonNotFound)
	}

	if c.StartsAt != nil && in.Now.Before(*c.StartsAt) {
		return rejected(ReasonNotStarted)
	}
	if c.EndsAt != nil && in.Now.After(*c.EndsAt) {
		return rejected(ReasonExpired)
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return rejected(ReasonExhausted)
	}

	if c.RequireLoggedIn && !in.Owner.IsUser() {
		return rejected(ReasonLoginRequired)
	}
	if c.PerUserLimit != nil && in.Owner.IsUser() && in.History.Redemptions >= *c.PerUserLimit {
		return rejected(ReasonPerUserLimit)
	}
	if c.OnlyFirstOrder {
		if !in.Owner.IsUser() {
			return rejected(ReasonLoginRequired)
		}
		if in.History.Orders > 0 {
			return rejected(ReasonNotFirstOrder)
		}
	}

	if c.MinSubtotal != nil && in.Subtotal < *c.MinSubtotal {
		return rejected(ReasonBelowMinSubtotal)
	}
	if c.MaxSubtotal != nil && in.Subtotal > *c.MaxSubtotal {
		return rejected(ReasonAboveMaxSubtotal)
	}

	discount := computeDiscount(c, in.Subtotal)
	if discount <= 0 {
		return rejected(ReasonNoDiscount)
	}

	return Evaluation{Valid: true, Discount: discount, Coupon: c}
}

// computeDiscount rounds percent discounts half away from zero
func computeDiscount(c *models.Coupon, subtotal int64) int64 {
	value := decimal.NewFromFloat(c.DiscountValue)
	switch c.DiscountType {
	case models.DiscountTypePercent:
		d := decimal.NewFromInt(subtotal).Mul(value).Div(decimal.NewFromInt(100)).Round(0).IntPart()
		if c.MaxDiscount != nil && d > *c.MaxDiscount {
			d = *c.MaxDiscount
		}
		return d
	case models.DiscountTypeAmount:
		d := value.Round(0).IntPart()
		if d > subtotal {
			d = subtotal
		}
		return d
	default:
		return 0
	}
}

// CouponValidator prices a code for a cart
type CouponValidator interface {
	Evaluate(ctx context.Context, code string, subtotal int64, owner OwnerKey, now time.Time) (Evaluation, error)
}

// CouponEvaluator looks a code up and runs EvaluateRule on it
type CouponEvaluator struct {
	coupons CouponStore
	orders  OrderHistory
}

func NewCouponEvaluator(coupons CouponStore, orders OrderHistory) *CouponEvaluator {
	return &CouponEvaluator{coupons: coupons, orders: orders}
}

// Evaluate returns a rejection for unknown codes; only store failures are errors
func (e *CouponEvaluator) Evaluate(ctx context.Context, code string, subtotal int64, owner OwnerKey, now time.Time) (Evaluation, error) {
	coupon, err := e.coupons.FindCouponByCode(ctx, NormalizeCode(code))
	if errors.Is(err, ErrCouponNotFound) {
		return rejected(ReasonNotFound), nil
	}
	if err != nil {
		return Evaluation{}, fmt.Errorf("find coupon: %w", err)
	}

	history, err := e.history(ctx, coupon, owner)
	if err != nil {
		return Evaluation{}, err
	}

	return EvaluateRule(coupon, RuleInput{
		Subtotal: subtotal,
		Owner:    owner,
		History:  history,
		Now:      now,
	}), nil
}

func (e *CouponEvaluator) history(ctx context.Context, c *models.Coupon, owner OwnerKey) (UsageHistory, error) {
	var h UsageHistory
	userID, ok := owner.UserID()
	if !ok {
		return h, nil
	}
	if c.PerUserLimit != nil {
		n, err := e.coupons.CountRedemptions(ctx, c.ID, userID)
		if err != nil {
			return h, fmt.Errorf("count redemptions: %w", err)
		}
		h.Redemptions = n
	}
	if c.OnlyFirstOrder && e.orders != nil {
		n, err := e.orders.CountOrdersByUser(ctx, userID)
		if err != nil {
			return h, fmt.Errorf("count orders: %w", err)
		}
		h.Orders = n
	}
	return h, nil
}
