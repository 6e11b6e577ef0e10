package services

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrOwnerRequired      = errors.New("cart owner required")
	ErrCouponCodeRequired = errors.New("coupon code required")
	ErrInvalidPayment     = errors.New("invalid payment method")
)

// Lookup errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrCartNotFound    = errors.New("cart not found")
)

// Business rejections
var (
	ErrOutOfStock          = errors.New("product out of stock")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrLoginRequired       = errors.New("login required")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrDuplicateCoupon     = errors.New("coupon code already exists")
	ErrDuplicateOrderCode  = errors.New("order code already exists")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrPaymentNotSupported = errors.New("online payment is not configured")
)

// ErrCartConflict means the cart changed between read and write
var ErrCartConflict = errors.New("cart was modified concurrently")

// MissingFieldError names the first required checkout field left empty
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing field: " + e.Field
}

// CouponRejectedError carries the reason a code did not apply
type CouponRejectedError struct {
	Code   string
	Reason RejectReason
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason.Message())
}

// InsufficientStockError is returned when checkout finds less stock than the cart holds
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// CouponValidationError lists invalid fields of an admin coupon payload
type CouponValidationError struct {
	Fields map[string]string
}

func (e *CouponValidationError) Error() string {
	return fmt.Sprintf("invalid coupon: %d field(s)", len(e.Fields))
}

// PaymentGatewayError wraps a failure of the external payment provider.
// The order is already committed when this is returned.
type PaymentGatewayError struct {
	OrderCode string
	Err       error
}

func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway failed for order %s: %v", e.OrderCode, e.Err)
}

func (e *PaymentGatewayError) Unwrap() error { return e.Err }
