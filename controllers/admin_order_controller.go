package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

type updateOrderStatusRequest struct {
	Status        string `json:"status" binding:"omitempty,oneof=pending confirmed shipping completed cancelled"`
	PaymentStatus string `json:"paymentStatus" binding:"omitempty,oneof=pending paid failed refunded"`
}

// UpdateOrderStatus handles PATCH /admin/orders/:code
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid status", err.Error())
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		utils.BadRequest(c, "status or paymentStatus is required", nil)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), c.Param("code"), req.Status, req.PaymentStatus)
	if err != nil {
		respondError(c, "UpdateOrderStatus", err)
		return
	}
	utils.Success(c, "Order status updated", gin.H{"order": orderResponse(order)})
}

// ExportOrders handles GET /admin/orders/export?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both days are inclusive; the default range is the last 30 days.
func (h *Handler) ExportOrders(c *gin.Context) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -29)
	to := today

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			utils.BadRequest(c, "Invalid from date, expected YYYY-MM-DD", err.Error())
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			utils.BadRequest(c, "Invalid to date, expected YYYY-MM-DD", err.Error())
			return
		}
		to = t
	}
	if to.Before(from) {
		utils.BadRequest(c, "to must not be before from", nil)
		return
	}

	orders, err := h.OrderService.ExportOrders(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		respondError(c, "ExportOrders", err)
		return
	}

	var buf bytes.Buffer
	if err := utils.RenderOrdersWorkbook(&buf, orders, from, to); err != nil {
		respondError(c, "ExportOrders", err)
		return
	}
	utils.LogInfo("Exported %d orders from %s to %s", len(orders), from.Format("2006-01-02"), to.Format("2006-01-02"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s_%s.xlsx",
		from.Format("20060102"), to.Format("20060102")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// AdminGetOrder handles GET /admin/orders/:code
func (h *Handler) AdminGetOrder(c *gin.Context) {
	order, err := h.OrderService.GetOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, "AdminGetOrder", err)
		return
	}
	utils.Success(c, "Order retrieved", gin.H{"order": orderResponse(order)})
}

// AdminDownloadInvoice handles GET /admin/orders/:code/invoice
func (h *Handler) AdminDownloadInvoice(c *gin.Context) {
	order, err := h.OrderService.GetOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, "AdminDownloadInvoice", err)
		return
	}
	sendInvoice(c, order)
}
