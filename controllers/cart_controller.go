package controllers

import (
	"strings"

	"github.com/Govind-619/Storefront/middleware"
	"github.com/Govind-619/Storefront/services"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

type removeItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type mergeRequest struct {
	FromCartToken string `json:"fromCartToken"`
}

// GetCart returns the caller's cart, re-validating its coupon
func (h *Handler) GetCart(c *gin.Context) {
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "GetCart", err)
		return
	}
	pc, err := h.CartEngine.GetCart(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "GetCart", err)
		return
	}
	utils.Success(c, "Cart retrieved", cartResponse(pc))
}

// AddToCart handles POST /cart/add
func (h *Handler) AddToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "productId and quantity are required", err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "AddToCart", err)
		return
	}

	pc, err := h.CartEngine.AddItem(c.Request.Context(), owner, req.ProductID, *req.Quantity)
	if err != nil {
		respondError(c, "AddToCart", err)
		return
	}
	utils.LogInfo("Added product %d x%d to cart of %s", req.ProductID, *req.Quantity, owner)
	utils.Success(c, "Item added to cart", cartResponse(pc))
}

// SetItemQuantity handles PATCH /cart/item
func (h *Handler) SetItemQuantity(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "productId and quantity are required", err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "SetItemQuantity", err)
		return
	}

	pc, err := h.CartEngine.SetItemQuantity(c.Request.Context(), owner, req.ProductID, *req.Quantity)
	if err != nil {
		respondError(c, "SetItemQuantity", err)
		return
	}
	utils.Success(c, "Cart updated", cartResponse(pc))
}

// RemoveItem handles DELETE /cart/item
func (h *Handler) RemoveItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "productId is required", err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "RemoveItem", err)
		return
	}

	pc, err := h.CartEngine.RemoveItem(c.Request.Context(), owner, req.ProductID)
	if err != nil {
		respondError(c, "RemoveItem", err)
		return
	}
	utils.Success(c, "Item removed", cartResponse(pc))
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(c *gin.Context) {
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "ClearCart", err)
		return
	}
	pc, err := h.CartEngine.ClearCart(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "ClearCart", err)
		return
	}
	utils.Success(c, "Cart cleared", cartResponse(pc))
}

// ApplyCoupon handles POST /cart/apply-coupon
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "ApplyCoupon", err)
		return
	}

	pc, err := h.CartEngine.ApplyCoupon(c.Request.Context(), owner, req.Code)
	if err != nil {
		respondError(c, "ApplyCoupon", err)
		return
	}
	utils.Success(c, "Coupon applied", cartResponse(pc))
}

// RemoveCoupon handles DELETE /cart/coupon
func (h *Handler) RemoveCoupon(c *gin.Context) {
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "RemoveCoupon", err)
		return
	}
	pc, err := h.CartEngine.RemoveCoupon(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "RemoveCoupon", err)
		return
	}
	utils.Success(c, "Coupon removed", cartResponse(pc))
}

// MergeCarts handles POST /cart/merge for a signed-in user
func (h *Handler) MergeCarts(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, "MergeCarts", services.ErrLoginRequired)
		return
	}

	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	from := strings.TrimSpace(req.FromCartToken)
	if from == "" {
		from = middleware.CurrentCartToken(c)
	}
	if from == "" {
		utils.BadRequest(c, "fromCartToken is required", nil)
		return
	}

	pc, err := h.CartEngine.MergeCarts(c.Request.Context(), services.UserOwner(userID), services.AnonymousOwner(from))
	if err != nil {
		respondError(c, "MergeCarts", err)
		return
	}
	utils.Success(c, "Guest cart merged", cartResponse(pc))
}
