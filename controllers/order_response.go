package controllers

import (
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
)

type CartItemResponse struct {
	ProductID uint   `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type CartCouponResponse struct {
	Code         string `json:"code"`
	DiscountType string `json:"discountType"`
}

type CartResponse struct {
	CartToken        *string             `json:"cartToken"`
	Items            []CartItemResponse  `json:"items"`
	Coupon           *CartCouponResponse `json:"coupon"`
	Subtotal         int64               `json:"subtotal"`
	ComputedDiscount int64               `json:"computedDiscount"`
	TotalPayable     int64               `json:"totalPayable"`
	Currency         string              `json:"currency"`
}

func cartResponse(pc *services.PricedCart) CartResponse {
	cart := pc.Cart
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.UnitPrice * int64(it.Quantity),
		})
	}

	resp := CartResponse{
		CartToken:        cart.CartToken,
		Items:            items,
		Subtotal:         pc.Subtotal,
		ComputedDiscount: pc.ComputedDiscount,
		TotalPayable:     pc.TotalPayable,
		Currency:         cart.Currency,
	}
	if cart.CouponCode != "" {
		resp.Coupon = &CartCouponResponse{Code: cart.CouponCode, DiscountType: cart.CouponDiscountType}
	}
	return resp
}

type OrderItemResponse struct {
	ProductID uint   `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type OrderCouponResponse struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type CustomerResponse struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Province string `json:"province"`
	District string `json:"district"`
	Address  string `json:"address"`
	Note     string `json:"note,omitempty"`
}

type OrderResponse struct {
	OrderCode     string               `json:"orderCode"`
	Customer      CustomerResponse     `json:"customer"`
	Items         []OrderItemResponse  `json:"items"`
	Subtotal      int64                `json:"subtotal"`
	Discount      int64                `json:"discount"`
	Total         int64                `json:"total"`
	Coupon        *OrderCouponResponse `json:"coupon"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
	PaymentRef    string               `json:"paymentRef,omitempty"`
	Currency      string               `json:"currency"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func orderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		})
	}

	resp := OrderResponse{
		OrderCode: o.OrderCode,
		Customer: CustomerResponse{
			FullName: o.Customer.FullName,
			Phone:    o.Customer.Phone,
			Email:    o.Customer.Email,
			Province: o.Customer.Province,
			District: o.Customer.District,
			Address:  o.Customer.Address,
			Note:     o.Customer.Note,
		},
		Items:         items,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Total:         o.Total,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		PaymentRef:    o.PaymentRef,
		Currency:      o.Currency,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.CouponCode != "" {
		resp.Coupon = &OrderCouponResponse{
			Code:          o.CouponCode,
			DiscountType:  o.CouponDiscountType,
			DiscountValue: o.CouponDiscountValue,
		}
	}
	return resp
}
