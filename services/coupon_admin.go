package services

import (
	"context"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
)

// CouponAdmin validates and stores coupon definitions
type CouponAdmin struct {
	coupons CouponStore
}

func NewCouponAdmin(coupons CouponStore) *CouponAdmin {
	return &CouponAdmin{coupons: coupons}
}

// ValidateCoupon normalizes the code and checks field consistency
func ValidateCoupon(c *models.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	fields := map[string]string{}

	if c.Code == "" {
		fields["code"] = "code is required"
	}
	switch c.DiscountType {
	case models.DiscountTypePercent:
		if c.DiscountValue > 100 {
			fields["discountValue"] = "percent discount cannot exceed 100"
		}
	case models.DiscountTypeAmount:
		if c.MaxDiscount != nil {
			fields["maxDiscount"] = "maxDiscount only applies to percent coupons"
		}
	default:
		fields["discountType"] = "discountType must be percent or amount"
	}
	if c.DiscountValue <= 0 {
		fields["discountValue"] = "discountValue must be greater than 0"
	}
	if c.MaxDiscount != nil && *c.MaxDiscount < 0 {
		fields["maxDiscount"] = "maxDiscount cannot be negative"
	}
	if c.MinSubtotal != nil && *c.MinSubtotal < 0 {
		fields["minSubtotal"] = "minSubtotal cannot be negative"
	}
	if c.MaxSubtotal != nil && *c.MaxSubtotal < 0 {
		fields["maxSubtotal"] = "maxSubtotal cannot be negative"
	}
	if c.MinSubtotal != nil && c.MaxSubtotal != nil && *c.MinSubtotal > *c.MaxSubtotal {
		fields["maxSubtotal"] = "maxSubtotal must not be below minSubtotal"
	}
	if c.StartsAt != nil && c.EndsAt != nil && !c.StartsAt.Before(*c.EndsAt) {
		fields["endsAt"] = "endsAt must be after startsAt"
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		fields["usageLimit"] = "usageLimit cannot be negative"
	}
	if c.PerUserLimit != nil && *c.PerUserLimit < 0 {
		fields["perUserLimit"] = "perUserLimit cannot be negative"
	}

	if len(fields) > 0 {
		return &CouponValidationError{Fields: fields}
	}
	return nil
}

// Create stores a new coupon; UsedCount always starts at zero
func (a *CouponAdmin) Create(ctx context.Context, c *models.Coupon) (*models.Coupon, error) {
	if err := ValidateCoupon(c); err != nil {
		return nil, err
	}
	c.ID = 0
	c.UsedCount = 0
	if err := a.coupons.CreateCoupon(ctx, c); err != nil {
		return nil, err
	}
	utils.LogInfo("Coupon %s created (%s %v)", c.Code, c.DiscountType, c.DiscountValue)
	return c, nil
}

// Update replaces the editable fields of a coupon. UsedCount is kept.
func (a *CouponAdmin) Update(ctx context.Context, id uint, in *models.Coupon) (*models.Coupon, error) {
	existing, err := a.coupons.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateCoupon(in); err != nil {
		return nil, err
	}

	in.ID = existing.ID
	in.UsedCount = existing.UsedCount
	in.CreatedAt = existing.CreatedAt
	if err := a.coupons.UpdateCoupon(ctx, in); err != nil {
		return nil, err
	}
	utils.LogInfo("Coupon %d updated (%s)", id, in.Code)
	return in, nil
}

// Delete removes a coupon. Carts holding it drop it on their next recompute.
func (a *CouponAdmin) Delete(ctx context.Context, id uint) error {
	if err := a.coupons.DeleteCoupon(ctx, id); err != nil {
		return err
	}
	utils.LogInfo("Coupon %d deleted", id)
	return nil
}
