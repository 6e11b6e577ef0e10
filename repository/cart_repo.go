package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"gorm.io/gorm"
)

// CartRepo stores carts with a version column for optimistic locking
type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo {
	return &CartRepo{db: db}
}

func ownerScope(owner services.OwnerKey) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id, ok := owner.UserID(); ok {
			return db.Where("user_id = ?", id)
		}
		return db.Where("cart_token = ?", owner.Token())
	}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *CartRepo) FindCart(ctx context.Context, owner services.OwnerKey) (*models.Cart, error) {
	if owner.IsZero() {
		return nil, services.ErrOwnerRequired
	}
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Preload("Items", preloadItems).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart %s: %w", owner, err)
	}
	return &cart, nil
}

// CreateCart inserts an empty cart. Losing the insert race to another request
// returns the winner's cart.
func (r *CartRepo) CreateCart(ctx context.Context, owner services.OwnerKey, currency string) (*models.Cart, error) {
	cart := &models.Cart{
		UserID:    owner.UserIDPtr(),
		CartToken: owner.TokenPtr(),
		Items:     []models.CartItem{},
		Currency:  currency,
	}
	err := r.db.WithContext(ctx).Create(cart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.FindCart(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *CartRepo) SaveCart(ctx context.Context, cart *models.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveCartTx(tx, cart)
	})
	if err != nil {
		return err
	}
	cart.Version++
	return nil
}

func (r *CartRepo) SaveMerged(ctx context.Context, target, source *models.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveCartTx(tx, target); err != nil {
			return err
		}
		return deleteCartTx(tx, source.ID, source.Version)
	})
	if err != nil {
		return err
	}
	target.Version++
	return nil
}

func (r *CartRepo) DeleteCart(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCartTx(tx, cart.ID, cart.Version)
	})
}

// saveCartTx bumps the version if it still matches, then rewrites the lines
func saveCartTx(tx *gorm.DB, cart *models.Cart) error {
	res := tx.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{
			"coupon_code":          cart.CouponCode,
			"coupon_discount_type": cart.CouponDiscountType,
			"coupon_id":            cart.CouponID,
			"computed_discount":    cart.ComputedDiscount,
			"version":              gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update cart %d: %w", cart.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrCartConflict
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart items %d: %w", cart.ID, err)
	}
	if len(cart.Items) == 0 {
		return nil
	}
	for i := range cart.Items {
		cart.Items[i].ID = 0
		cart.Items[i].CartID = cart.ID
	}
	if err := tx.Create(&cart.Items).Error; err != nil {
		return fmt.Errorf("insert cart items %d: %w", cart.ID, err)
	}
	return nil
}

func deleteCartTx(tx *gorm.DB, id uint, version int) error {
	if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("delete cart items %d: %w", id, err)
	}
	res := tx.Where("id = ? AND version = ?", id, version).Delete(&models.Cart{})
	if res.Error != nil {
		return fmt.Errorf("delete cart %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrCartConflict
	}
	return nil
}
