package services

import (
	"context"
	"time"

	"github.com/Govind-619/Storefront/models"
)

// CouponStateKind tags the coupon slot of a cart
type CouponStateKind int

const (
	CouponNone CouponStateKind = iota
	CouponPending
	CouponApplied
)

// CouponState is the coupon slot of a cart. Pending only lives between a
// mutation and its recompute; carts are stored as None or Applied.
type CouponState struct {
	Kind         CouponStateKind
	Code         string
	DiscountType string
	Discount     int64
	CouponID     *uint
}

// NoCoupon is the empty state
func NoCoupon() CouponState { return CouponState{Kind: CouponNone} }

// PendingCoupon holds a code that has not been evaluated yet
func PendingCoupon(code string) CouponState {
	return CouponState{Kind: CouponPending, Code: NormalizeCode(code)}
}

// CouponStateOf reads the coupon slot off a stored cart
func CouponStateOf(cart *models.Cart) CouponState {
	if cart.CouponCode == "" {
		return NoCoupon()
	}
	return CouponState{
		Kind:         CouponApplied,
		Code:         cart.CouponCode,
		DiscountType: cart.CouponDiscountType,
		Discount:     cart.ComputedDiscount,
		CouponID:     cart.CouponID,
	}
}

// ApplyTo writes the state onto the cart columns
func (s CouponState) ApplyTo(cart *models.Cart) {
	if s.Kind == CouponNone {
		cart.CouponCode = ""
		cart.CouponDiscountType = ""
		cart.CouponID = nil
		cart.ComputedDiscount = 0
		return
	}
	cart.CouponCode = s.Code
	cart.CouponDiscountType = s.DiscountType
	cart.CouponID = s.CouponID
	cart.ComputedDiscount = s.Discount
}

// Recompute re-evaluates the coupon slot for the given subtotal. None stays
// None; Pending and Applied become Applied on success and None otherwise. The
// evaluation is returned so callers can report the reason.
func Recompute(ctx context.Context, s CouponState, subtotal int64, owner OwnerKey, now time.Time, v CouponValidator) (CouponState, Evaluation, error) {
	if s.Kind == CouponNone || s.Code == "" {
		return NoCoupon(), Evaluation{}, nil
	}

	ev, err := v.Evaluate(ctx, s.Code, subtotal, owner, now)
	if err != nil {
		return s, Evaluation{}, err
	}
	if !ev.Valid {
		return NoCoupon(), ev, nil
	}

	id := ev.Coupon.ID
	return CouponState{
		Kind:         CouponApplied,
		Code:         ev.Coupon.Code,
		DiscountType: ev.Coupon.DiscountType,
		Discount:     ev.Discount,
		CouponID:     &id,
	}, ev, nil
}
