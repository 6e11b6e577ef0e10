package controllers

import (
	"net/http"

	"github.com/Govind-619/Storefront/services"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"omitempty,email"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Address       string `json:"address"`
	Note          string `json:"note"`
	PaymentMethod string `json:"paymentMethod"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// Checkout handles POST /cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid checkout details", err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, "Checkout", err)
		return
	}

	result, err := h.CheckoutEngine.Checkout(c.Request.Context(), owner, services.CustomerInfo{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Province: req.Province,
		District: req.District,
		Address:  req.Address,
		Note:     req.Note,
	}, services.CheckoutOptions{
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, "Checkout", err)
		return
	}

	data := gin.H{"order": orderResponse(result.Order)}
	if result.GatewayOrderID != "" {
		data["payment"] = gin.H{"gatewayOrderId": result.GatewayOrderID, "amount": result.Order.Total}
	}
	if result.PaymentErr != nil {
		data["payment"] = gin.H{"error": toAppError(result.PaymentErr).Message}
	}

	if result.Replayed {
		utils.Success(c, "Order already placed", data)
		return
	}
	c.JSON(http.StatusCreated, utils.StandardResponse{
		Status:  "success",
		Message: "Order placed successfully",
		Data:    data,
	})
}

// VerifyPayment handles POST /orders/:code/payment/verify
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := h.CheckoutEngine.VerifyPayment(c.Request.Context(), c.Param("code"),
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respondError(c, "VerifyPayment", err)
		return
	}
	utils.Success(c, "Payment verified", gin.H{"order": orderResponse(order)})
}
