package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
)

// MaxMutationRetries bounds how often a mutation is replayed after losing a
// version race on the cart row.
const MaxMutationRetries = 5

// PricedCart is a cart together with the totals derived from it
type PricedCart struct {
	Cart             *models.Cart
	Owner            OwnerKey
	Subtotal         int64
	ComputedDiscount int64
	TotalPayable     int64
}

func priced(cart *models.Cart, owner OwnerKey) *PricedCart {
	return &PricedCart{
		Cart:             cart,
		Owner:            owner,
		Subtotal:         cart.Subtotal(),
		ComputedDiscount: cart.ComputedDiscount,
		TotalPayable:     cart.TotalPayable(),
	}
}

// EngineOption customizes a CartEngine or CheckoutEngine
type EngineOption func(*engineOptions)

type engineOptions struct {
	now      func() time.Time
	currency string
}

// WithClock overrides time.Now, used by coupon time windows
func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) { o.now = now }
}

// WithCurrency sets the currency for newly created carts
func WithCurrency(currency string) EngineOption {
	return func(o *engineOptions) { o.currency = currency }
}

func buildOptions(opts []EngineOption) engineOptions {
	o := engineOptions{now: time.Now, currency: "VND"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CartEngine runs every cart mutation as load, mutate, recompute coupon, save.
type CartEngine struct {
	carts    CartStore
	products ProductStore
	coupons  CouponValidator
	opts     engineOptions
}

func NewCartEngine(carts CartStore, products ProductStore, coupons CouponValidator, opts ...EngineOption) *CartEngine {
	return &CartEngine{
		carts:    carts,
		products: products,
		coupons:  coupons,
		opts:     buildOptions(opts),
	}
}

type mutation func(ctx context.Context, cart *models.Cart) error

// loadOrCreate returns the owner's cart, creating an empty one on first access
func (e *CartEngine) loadOrCreate(ctx context.Context, owner OwnerKey) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, ErrOwnerRequired
	}
	cart, err := e.carts.FindCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	cart, err = e.carts.CreateCart(ctx, owner, e.opts.currency)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// recompute refreshes the coupon slot of cart against its current items
func (e *CartEngine) recompute(ctx context.Context, cart *models.Cart, owner OwnerKey) (Evaluation, error) {
	state, ev, err := Recompute(ctx, CouponStateOf(cart), cart.Subtotal(), owner, e.opts.now(), e.coupons)
	if err != nil {
		return ev, err
	}
	if cart.CouponCode != "" && state.Kind == CouponNone {
		utils.LogInfo("Coupon %s removed from cart %d (%s): %s", cart.CouponCode, cart.ID, owner, ev.Reason)
	}
	state.ApplyTo(cart)
	return ev, nil
}

func (e *CartEngine) mutate(ctx context.Context, owner OwnerKey, fn mutation) (*PricedCart, error) {
	for attempt := 0; attempt < MaxMutationRetries; attempt++ {
		cart, err := e.loadOrCreate(ctx, owner)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			if err := fn(ctx, cart); err != nil {
				return nil, err
			}
		}
		if _, err := e.recompute(ctx, cart, owner); err != nil {
			return nil, err
		}

		err = e.carts.SaveCart(ctx, cart)
		if errors.Is(err, ErrCartConflict) {
			utils.LogDebug("Cart %d version conflict, retry %d", cart.ID, attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		return priced(cart, owner), nil
	}
	return nil, ErrCartConflict
}

// GetCart returns the owner's cart with the coupon re-validated
func (e *CartEngine) GetCart(ctx context.Context, owner OwnerKey) (*PricedCart, error) {
	return e.mutate(ctx, owner, nil)
}

// AddItem adds qty of a product, merging into an existing line and clamping to stock
func (e *CartEngine) AddItem(ctx context.Context, owner OwnerKey, productID uint, qty int) (*PricedCart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	return e.mutate(ctx, owner, func(ctx context.Context, cart *models.Cart) error {
		product, err := e.products.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if product.Quantity <= 0 {
			return ErrOutOfStock
		}

		if idx := cart.FindItem(productID); idx >= 0 {
			cart.Items[idx].Quantity = minInt(cart.Items[idx].Quantity+qty, product.Quantity)
			return nil
		}

		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			Image:     product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  minInt(qty, product.Quantity),
			Position:  nextPosition(cart),
		})
		return nil
	})
}

// SetItemQuantity sets a line to qty; 0 removes it, otherwise it is clamped to stock
func (e *CartEngine) SetItemQuantity(ctx context.Context, owner OwnerKey, productID uint, qty int) (*PricedCart, error) {
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}
	return e.mutate(ctx, owner, func(ctx context.Context, cart *models.Cart) error {
		idx := cart.FindItem(productID)
		if idx < 0 {
			return ErrItemNotInCart
		}
		if qty == 0 {
			removeAt(cart, idx)
			return nil
		}

		product, err := e.products.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if product.Quantity <= 0 {
			removeAt(cart, idx)
			return nil
		}
		cart.Items[idx].Quantity = minInt(qty, product.Quantity)
		return nil
	})
}

// RemoveItem drops a line; removing a missing line is not an error
func (e *CartEngine) RemoveItem(ctx context.Context, owner OwnerKey, productID uint) (*PricedCart, error) {
	return e.mutate(ctx, owner, func(_ context.Context, cart *models.Cart) error {
		if idx := cart.FindItem(productID); idx >= 0 {
			removeAt(cart, idx)
		}
		return nil
	})
}

// ClearCart empties the cart and drops its coupon
func (e *CartEngine) ClearCart(ctx context.Context, owner OwnerKey) (*PricedCart, error) {
	return e.mutate(ctx, owner, func(_ context.Context, cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		NoCoupon().ApplyTo(cart)
		return nil
	})
}

// ApplyCoupon attaches a code to the cart. A rejected code leaves the
// previous coupon in place and returns *CouponRejectedError.
func (e *CartEngine) ApplyCoupon(ctx context.Context, owner OwnerKey, code string) (*PricedCart, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}

	var rejection *CouponRejectedError
	pc, err := e.mutate(ctx, owner, func(ctx context.Context, cart *models.Cart) error {
		rejection = nil
		next, ev, err := Recompute(ctx, PendingCoupon(code), cart.Subtotal(), owner, e.opts.now(), e.coupons)
		if err != nil {
			return err
		}
		if next.Kind != CouponApplied {
			rejection = &CouponRejectedError{Code: code, Reason: ev.Reason}
			return nil
		}
		next.ApplyTo(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		utils.LogInfo("Coupon %s rejected for %s: %s", code, owner, rejection.Reason)
		return nil, rejection
	}
	return pc, nil
}

// RemoveCoupon detaches whatever coupon the cart holds
func (e *CartEngine) RemoveCoupon(ctx context.Context, owner OwnerKey) (*PricedCart, error) {
	return e.mutate(ctx, owner, func(_ context.Context, cart *models.Cart) error {
		NoCoupon().ApplyTo(cart)
		return nil
	})
}

// MergeCarts folds a guest cart into a user's cart. Quantities are summed by
// product and clamped to current stock; lines whose product is gone or sold
// out are dropped. The guest cart is deleted in the same store call. A missing
// guest cart leaves the user's cart as it is.
func (e *CartEngine) MergeCarts(ctx context.Context, userOwner, anonOwner OwnerKey) (*PricedCart, error) {
	if !userOwner.IsUser() {
		return nil, ErrLoginRequired
	}
	if !anonOwner.IsAnonymous() {
		return nil, ErrOwnerRequired
	}

	for attempt := 0; attempt < MaxMutationRetries; attempt++ {
		guest, err := e.carts.FindCart(ctx, anonOwner)
		if errors.Is(err, ErrCartNotFound) {
			return e.GetCart(ctx, userOwner)
		}
		if err != nil {
			return nil, fmt.Errorf("find guest cart: %w", err)
		}

		cart, err := e.loadOrCreate(ctx, userOwner)
		if err != nil {
			return nil, err
		}

		for _, it := range guest.Items {
			if idx := cart.FindItem(it.ProductID); idx >= 0 {
				cart.Items[idx].Quantity += it.Quantity
				continue
			}
			it.ID = 0
			it.CartID = cart.ID
			it.Position = nextPosition(cart)
			cart.Items = append(cart.Items, it)
		}
		if cart.CouponCode == "" && guest.CouponCode != "" {
			PendingCoupon(guest.CouponCode).ApplyTo(cart)
		}

		if err := e.clampToStock(ctx, cart); err != nil {
			return nil, err
		}
		if _, err := e.recompute(ctx, cart, userOwner); err != nil {
			return nil, err
		}

		err = e.carts.SaveMerged(ctx, cart, guest)
		if errors.Is(err, ErrCartConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save merged cart: %w", err)
		}
		utils.LogInfo("Merged cart %s into %s", anonOwner, userOwner)
		return priced(cart, userOwner), nil
	}
	return nil, ErrCartConflict
}

func (e *CartEngine) clampToStock(ctx context.Context, cart *models.Cart) error {
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		product, err := e.products.GetProduct(ctx, it.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if product.Quantity <= 0 {
			continue
		}
		it.Quantity = minInt(it.Quantity, product.Quantity)
		kept = append(kept, it)
	}
	cart.Items = kept
	return nil
}

func nextPosition(cart *models.Cart) int {
	pos := 0
	for _, it := range cart.Items {
		if it.Position >= pos {
			pos = it.Position + 1
		}
	}
	return pos
}

func removeAt(cart *models.Cart, idx int) {
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
