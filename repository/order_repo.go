package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"gorm.io/gorm"
)

// OrderRepo commits checkouts and serves order reads
type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// PlaceOrder inserts the order, takes stock, counts the coupon use and deletes
// the cart in one transaction. Any failure rolls all of it back.
func (r *OrderRepo) PlaceOrder(ctx context.Context, cmd services.PlaceOrderCommand) (*models.Order, error) {
	order := cmd.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrDuplicateOrderCode
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				Updates(map[string]interface{}{
					"quantity": gorm.Expr("quantity - ?", item.Quantity),
					"sold":     gorm.Expr("sold + ?", item.Quantity),
				})
			if res.Error != nil {
				return fmt.Errorf("decrement stock %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return insufficientStock(tx, item)
			}
		}

		if cmd.CouponID != nil {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", *cmd.CouponID).
				UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
			if res.Error != nil {
				return fmt.Errorf("increment coupon usage: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return services.ErrCouponExhausted
			}
			if order.UserID != nil {
				redemption := models.CouponRedemption{
					CouponID: *cmd.CouponID,
					UserID:   *order.UserID,
					OrderID:  order.ID,
				}
				if err := tx.Create(&redemption).Error; err != nil {
					return fmt.Errorf("insert redemption: %w", err)
				}
			}
		}

		return deleteCartTx(tx, cmd.CartID, cmd.CartVersion)
	})
	if err != nil {
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		return nil, err
	}
	return order, nil
}

func insufficientStock(tx *gorm.DB, item models.OrderItem) error {
	var product models.Product
	available := 0
	if err := tx.Select("id", "quantity").First(&product, item.ProductID).Error; err == nil {
		available = product.Quantity
	}
	return &services.InsufficientStockError{
		ProductID: item.ProductID,
		Name:      item.Name,
		Requested: item.Quantity,
		Available: available,
	}
}

func (r *OrderRepo) FindOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_code = ?", code).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", code, err)
	}
	return &order, nil
}

// TransitionOrder applies the change only if the order is still in the From
// state, so a restock can never run twice.
func (r *OrderRepo) TransitionOrder(ctx context.Context, t services.OrderTransition) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         t.ToStatus,
			"payment_status": t.ToPayment,
		}
		if t.PaymentRef != "" {
			updates["payment_ref"] = t.PaymentRef
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ? AND payment_status = ?", t.OrderID, t.FromStatus, t.FromPayment).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update order %d: %w", t.OrderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return services.ErrInvalidTransition
		}

		if err := tx.Preload("Items").First(&order, t.OrderID).Error; err != nil {
			return err
		}

		if t.RestockOnCancel && t.ToStatus == models.OrderStatusCancelled {
			for _, item := range order.Items {
				err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Updates(map[string]interface{}{
						"quantity": gorm.Expr("quantity + ?", item.Quantity),
						"sold":     gorm.Expr("GREATEST(sold - ?, 0)", item.Quantity),
					}).Error
				if err != nil {
					return fmt.Errorf("restock product %d: %w", item.ProductID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}
	return orders, nil
}

// CountOrdersByUser counts orders that were not cancelled
func (r *OrderRepo) CountOrdersByUser(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND status <> ?", userID, models.OrderStatusCancelled).
		Count(&n).Error
	return int(n), err
}

func (r *OrderRepo) SavePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *OrderRepo) FindPaymentByGatewayOrder(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
