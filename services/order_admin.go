package services

import (
	"context"
	"strings"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
)

var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipping, models.OrderStatusCancelled},
	models.OrderStatusShipping:  {models.OrderStatusCompleted},
}

var paymentTransitions = map[string][]string{
	models.PaymentStatusPending: {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPaid:    {models.PaymentStatusRefunded},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderService serves order lookups and admin status changes
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// GetOrder finds an order by its public code
func (s *OrderService) GetOrder(ctx context.Context, code string) (*models.Order, error) {
	return s.orders.FindOrderByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// GetOwnedOrder finds an order the owner placed. Orders of anyone else
// read as not found so codes cannot be enumerated.
func (s *OrderService) GetOwnedOrder(ctx context.Context, code string, owner OwnerKey) (*models.Order, error) {
	order, err := s.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	if !placedBy(order, owner) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func placedBy(order *models.Order, owner OwnerKey) bool {
	if id, ok := owner.UserID(); ok {
		return order.UserID != nil && *order.UserID == id
	}
	return owner.IsAnonymous() && order.CartToken != nil && *order.CartToken == owner.Token()
}

// ListUserOrders returns a signed-in user's orders, newest first
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// UpdateOrderStatus moves an order along its lifecycle. Empty status or
// paymentStatus leaves that side unchanged. Cancelling returns stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, code, status, paymentStatus string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}

	t := OrderTransition{
		OrderID:     order.ID,
		FromStatus:  order.Status,
		ToStatus:    order.Status,
		FromPayment: order.PaymentStatus,
		ToPayment:   order.PaymentStatus,
	}
	changed := false

	if status != "" && status != order.Status {
		if !allowed(orderTransitions, order.Status, status) {
			return nil, ErrInvalidTransition
		}
		t.ToStatus = status
		t.RestockOnCancel = status == models.OrderStatusCancelled
		changed = true
	}
	if paymentStatus != "" && paymentStatus != order.PaymentStatus {
		if !allowed(paymentTransitions, order.PaymentStatus, paymentStatus) {
			return nil, ErrInvalidTransition
		}
		t.ToPayment = paymentStatus
		changed = true
	}
	if !changed {
		return nil, ErrInvalidTransition
	}

	updated, err := s.orders.TransitionOrder(ctx, t)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Order %s: status %s -> %s, payment %s -> %s",
		order.OrderCode, t.FromStatus, t.ToStatus, t.FromPayment, t.ToPayment)
	return updated, nil
}

// ExportOrders returns the orders created in [from, to)
func (s *OrderService) ExportOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return s.orders.ListOrdersBetween(ctx, from, to)
}
