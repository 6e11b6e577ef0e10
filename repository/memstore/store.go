// Package memstore keeps every table in process memory behind one mutex. It
// backs STORE=memory and the service tests, and mirrors the conditional
// updates of the gorm repositories.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
)

type Store struct {
	mu sync.Mutex

	now func() time.Time

	products    map[uint]*models.Product
	carts       map[uint]*models.Cart
	coupons     map[uint]*models.Coupon
	redemptions []models.CouponRedemption
	orders      map[uint]*models.Order
	payments    map[uint]*models.Payment

	nextProduct, nextCart, nextCoupon, nextOrder, nextPayment uint
}

func New() *Store {
	return &Store{
		now:      time.Now,
		products: map[uint]*models.Product{},
		carts:    map[uint]*models.Cart{},
		coupons:  map[uint]*models.Coupon{},
		orders:   map[uint]*models.Order{},
		payments: map[uint]*models.Payment{},
	}
}

// SetClock fixes CreatedAt timestamps in tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func copyCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return &out
}

func copyOrder(o *models.Order) *models.Order {
	out := *o
	out.Items = append([]models.OrderItem{}, o.Items...)
	return &out
}

// ---- products ----

// AddProduct inserts a product and returns its id
func (s *Store) AddProduct(p models.Product) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProduct++
	p.ID = s.nextProduct
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = &p
	return p.ID
}

// UpsertProduct inserts a product or replaces the one with the same SKU
func (s *Store) UpsertProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	for id, existing := range s.products {
		if existing.SKU == p.SKU {
			p.ID = id
			p.Sold = existing.Sold
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = s.now()
			cp := *p
			s.products[id] = &cp
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()
	p.ID = s.AddProduct(*p)
	return nil
}

// SetStock overwrites a product's stock
func (s *Store) SetStock(id uint, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Quantity = qty
	}
}

// DeleteProduct removes a product from inventory
func (s *Store) DeleteProduct(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

func (s *Store) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, services.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

// ---- carts ----

func (s *Store) findCartLocked(owner services.OwnerKey) *models.Cart {
	for _, c := range s.carts {
		if id, ok := owner.UserID(); ok {
			if c.UserID != nil && *c.UserID == id {
				return c
			}
			continue
		}
		if c.CartToken != nil && *c.CartToken == owner.Token() {
			return c
		}
	}
	return nil
}

func (s *Store) FindCart(_ context.Context, owner services.OwnerKey) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, services.ErrOwnerRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCartLocked(owner)
	if c == nil {
		return nil, services.ErrCartNotFound
	}
	return copyCart(c), nil
}

func (s *Store) CreateCart(_ context.Context, owner services.OwnerKey, currency string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findCartLocked(owner); c != nil {
		return copyCart(c), nil
	}
	s.nextCart++
	c := &models.Cart{
		ID:        s.nextCart,
		UserID:    owner.UserIDPtr(),
		CartToken: owner.TokenPtr(),
		Items:     []models.CartItem{},
		Currency:  currency,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	s.carts[c.ID] = c
	return copyCart(c), nil
}

func (s *Store) saveCartLocked(cart *models.Cart) error {
	stored, ok := s.carts[cart.ID]
	if !ok || stored.Version != cart.Version {
		return services.ErrCartConflict
	}
	next := copyCart(cart)
	for i := range next.Items {
		next.Items[i].CartID = cart.ID
	}
	next.Version = cart.Version + 1
	next.UpdatedAt = s.now()
	s.carts[cart.ID] = next
	return nil
}

func (s *Store) deleteCartLocked(id uint, version int) error {
	stored, ok := s.carts[id]
	if !ok || stored.Version != version {
		return services.ErrCartConflict
	}
	delete(s.carts, id)
	return nil
}

func (s *Store) SaveCart(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveCartLocked(cart); err != nil {
		return err
	}
	cart.Version++
	return nil
}

func (s *Store) SaveMerged(_ context.Context, target, source *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.carts[source.ID]
	if !ok || src.Version != source.Version {
		return services.ErrCartConflict
	}
	if err := s.saveCartLocked(target); err != nil {
		return err
	}
	delete(s.carts, source.ID)
	target.Version++
	return nil
}

func (s *Store) DeleteCart(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCartLocked(cart.ID, cart.Version)
}

// CartCount reports how many carts exist
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// ---- coupons ----

func (s *Store) FindCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.Code == code {
			out := *c
			return &out, nil
		}
	}
	return nil, services.ErrCouponNotFound
}

func (s *Store) GetCoupon(_ context.Context, id uint) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, services.ErrCouponNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) codeTakenLocked(code string, except uint) bool {
	for _, c := range s.coupons {
		if c.Code == code && c.ID != except {
			return true
		}
	}
	return false
}

func (s *Store) CreateCoupon(_ context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTakenLocked(coupon.Code, 0) {
		return services.ErrDuplicateCoupon
	}
	s.nextCoupon++
	coupon.ID = s.nextCoupon
	coupon.CreatedAt = s.now()
	coupon.UpdatedAt = coupon.CreatedAt
	stored := *coupon
	s.coupons[coupon.ID] = &stored
	return nil
}

func (s *Store) UpdateCoupon(_ context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.coupons[coupon.ID]
	if !ok {
		return services.ErrCouponNotFound
	}
	if s.codeTakenLocked(coupon.Code, coupon.ID) {
		return services.ErrDuplicateCoupon
	}
	stored := *coupon
	stored.UsedCount = existing.UsedCount
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	s.coupons[coupon.ID] = &stored
	return nil
}

func (s *Store) DeleteCoupon(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[id]; !ok {
		return services.ErrCouponNotFound
	}
	delete(s.coupons, id)
	return nil
}

func (s *Store) CountRedemptions(_ context.Context, couponID, userID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.redemptions {
		if r.CouponID == couponID && r.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ---- orders ----

// PlaceOrder checks every condition before touching anything, so a failure
// leaves the store exactly as it was.
func (s *Store) PlaceOrder(_ context.Context, cmd services.PlaceOrderCommand) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := cmd.Order
	for _, o := range s.orders {
		if o.OrderCode == order.OrderCode {
			return nil, services.ErrDuplicateOrderCode
		}
	}

	for _, item := range order.Items {
		p, ok := s.products[item.ProductID]
		if !ok || p.Quantity < item.Quantity {
			available := 0
			if ok {
				available = p.Quantity
			}
			return nil, &services.InsufficientStockError{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: available,
			}
		}
	}

	var coupon *models.Coupon
	if cmd.CouponID != nil {
		c, ok := s.coupons[*cmd.CouponID]
		if !ok || (c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit) {
			return nil, services.ErrCouponExhausted
		}
		coupon = c
	}

	if cart, ok := s.carts[cmd.CartID]; !ok || cart.Version != cmd.CartVersion {
		return nil, services.ErrCartConflict
	}

	for _, item := range order.Items {
		p := s.products[item.ProductID]
		p.Quantity -= item.Quantity
		p.Sold += item.Quantity
	}

	s.nextOrder++
	order.ID = s.nextOrder
	order.CreatedAt = s.now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = uint(i + 1)
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = copyOrder(order)

	if coupon != nil {
		coupon.UsedCount++
		if order.UserID != nil {
			s.redemptions = append(s.redemptions, models.CouponRedemption{
				ID:        uint(len(s.redemptions) + 1),
				CouponID:  coupon.ID,
				UserID:    *order.UserID,
				OrderID:   order.ID,
				CreatedAt: s.now(),
			})
		}
	}

	delete(s.carts, cmd.CartID)
	return copyOrder(order), nil
}

func (s *Store) FindOrderByCode(_ context.Context, code string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderCode == code {
			return copyOrder(o), nil
		}
	}
	return nil, services.ErrOrderNotFound
}

func (s *Store) TransitionOrder(_ context.Context, t services.OrderTransition) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[t.OrderID]
	if !ok || o.Status != t.FromStatus || o.PaymentStatus != t.FromPayment {
		return nil, services.ErrInvalidTransition
	}
	o.Status = t.ToStatus
	o.PaymentStatus = t.ToPayment
	if t.PaymentRef != "" {
		o.PaymentRef = t.PaymentRef
	}
	o.UpdatedAt = s.now()

	if t.RestockOnCancel && t.ToStatus == models.OrderStatusCancelled {
		for _, item := range o.Items {
			if p, ok := s.products[item.ProductID]; ok {
				p.Quantity += item.Quantity
				p.Sold -= item.Quantity
				if p.Sold < 0 {
					p.Sold = 0
				}
			}
		}
	}
	return copyOrder(o), nil
}

func (s *Store) ListOrdersBetween(_ context.Context, from, to time.Time) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListOrdersByUser returns the user's orders, newest first
func (s *Store) ListOrdersByUser(_ context.Context, userID uint) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CountOrdersByUser(_ context.Context, userID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID && o.Status != models.OrderStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (s *Store) SavePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == 0 {
		s.nextPayment++
		payment.ID = s.nextPayment
		payment.CreatedAt = s.now()
	}
	payment.UpdatedAt = s.now()
	stored := *payment
	s.payments[payment.ID] = &stored
	return nil
}

func (s *Store) FindPaymentByGatewayOrder(_ context.Context, gatewayOrderID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayOrderID == gatewayOrderID {
			out := *p
			return &out, nil
		}
	}
	return nil, services.ErrOrderNotFound
}

var (
	_ services.ProductStore = (*Store)(nil)
	_ services.CartStore    = (*Store)(nil)
	_ services.CouponStore  = (*Store)(nil)
	_ services.OrderStore   = (*Store)(nil)
)
