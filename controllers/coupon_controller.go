package controllers

import (
	"strconv"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

type couponRequest struct {
	Code              string     `json:"code" binding:"required"`
	DiscountType      string     `json:"discountType" binding:"required"`
	DiscountValue     float64    `json:"discountValue" binding:"required"`
	MaxDiscount       *int64     `json:"maxDiscount"`
	MinSubtotal       *int64     `json:"minSubtotal"`
	MaxSubtotal       *int64     `json:"maxSubtotal"`
	StartsAt          *time.Time `json:"startsAt"`
	EndsAt            *time.Time `json:"endsAt"`
	UsageLimit        *int       `json:"usageLimit"`
	PerUserLimit      *int       `json:"perUserLimit"`
	OnlyFirstOrder    bool       `json:"onlyFirstOrder"`
	RequireLoggedIn   bool       `json:"requireLoggedIn"`
	IncludeSkus       []string   `json:"includeSkus"`
	ExcludeSkus       []string   `json:"excludeSkus"`
	IncludeCategories []string   `json:"includeCategories"`
	ExcludeCategories []string   `json:"excludeCategories"`
	Stackable         bool       `json:"stackable"`
	ExcludeOnSale     bool       `json:"excludeOnSale"`
	Active            *bool      `json:"active"`
	Note              string     `json:"note"`
}

func (r couponRequest) toModel() *models.Coupon {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &models.Coupon{
		Code:              r.Code,
		DiscountType:      r.DiscountType,
		DiscountValue:     r.DiscountValue,
		MaxDiscount:       r.MaxDiscount,
		MinSubtotal:       r.MinSubtotal,
		MaxSubtotal:       r.MaxSubtotal,
		StartsAt:          r.StartsAt,
		EndsAt:            r.EndsAt,
		UsageLimit:        r.UsageLimit,
		PerUserLimit:      r.PerUserLimit,
		OnlyFirstOrder:    r.OnlyFirstOrder,
		RequireLoggedIn:   r.RequireLoggedIn,
		IncludeSkus:       r.IncludeSkus,
		ExcludeSkus:       r.ExcludeSkus,
		IncludeCategories: r.IncludeCategories,
		ExcludeCategories: r.ExcludeCategories,
		Stackable:         r.Stackable,
		ExcludeOnSale:     r.ExcludeOnSale,
		Active:            active,
		Note:              r.Note,
	}
}

func couponIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return 0, false
	}
	return uint(id), true
}

// CreateCoupon handles POST /admin/coupons
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid coupon details", err.Error())
		return
	}

	coupon, err := h.CouponAdmin.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, "CreateCoupon", err)
		return
	}
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// UpdateCoupon handles PATCH /admin/coupons/:id
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := couponIDParam(c)
	if !ok {
		return
	}
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid coupon details", err.Error())
		return
	}

	coupon, err := h.CouponAdmin.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, "UpdateCoupon", err)
		return
	}
	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := couponIDParam(c)
	if !ok {
		return
	}
	if err := h.CouponAdmin.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteCoupon", err)
		return
	}
	utils.Success(c, "Coupon deleted successfully", nil)
}
