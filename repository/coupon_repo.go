package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"gorm.io/gorm"
)

// CouponRepo stores coupons and their redemptions
type CouponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

func (r *CouponRepo) FindCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", code, err)
	}
	return &coupon, nil
}

func (r *CouponRepo) GetCoupon(ctx context.Context, id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).First(&coupon, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coupon %d: %w", id, err)
	}
	return &coupon, nil
}

func (r *CouponRepo) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	err := r.db.WithContext(ctx).Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return services.ErrDuplicateCoupon
	}
	return err
}

// UpdateCoupon writes every editable column. used_count is only ever changed
// by checkout.
func (r *CouponRepo) UpdateCoupon(ctx context.Context, coupon *models.Coupon) error {
	res := r.db.WithContext(ctx).Model(coupon).
		Select("*").
		Omit("id", "used_count", "created_at").
		Updates(coupon)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return services.ErrDuplicateCoupon
	}
	if res.Error != nil {
		return fmt.Errorf("update coupon %d: %w", coupon.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrCouponNotFound
	}
	return nil
}

func (r *CouponRepo) DeleteCoupon(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Coupon{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete coupon %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrCouponNotFound
	}
	return nil
}

func (r *CouponRepo) CountRedemptions(ctx context.Context, couponID, userID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&n).Error
	return int(n), err
}
