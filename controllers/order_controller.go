package controllers

import (
	"fmt"
	"net/http"

	"github.com/Govind-619/Storefront/middleware"
	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

// GetOrder handles GET /orders/:code for the shopper who placed it
func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := h.ownedOrder(c, "GetOrder")
	if !ok {
		return
	}
	utils.Success(c, "Order retrieved", gin.H{"order": orderResponse(order)})
}

// DownloadInvoice handles GET /orders/:code/invoice
func (h *Handler) DownloadInvoice(c *gin.Context) {
	order, ok := h.ownedOrder(c, "DownloadInvoice")
	if !ok {
		return
	}
	sendInvoice(c, order)
}

// ListMyOrders handles GET /orders/mine
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	orders, err := h.OrderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "ListMyOrders", err)
		return
	}

	list := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		list = append(list, orderResponse(&orders[i]))
	}
	utils.Success(c, "Orders retrieved", gin.H{
		"orders": list,
		"total":  len(list),
	})
}

func (h *Handler) ownedOrder(c *gin.Context, op string) (*models.Order, bool) {
	owner, err := resolveOwner(c)
	if err != nil {
		respondError(c, op, err)
		return nil, false
	}
	order, err := h.OrderService.GetOwnedOrder(c.Request.Context(), c.Param("code"), owner)
	if err != nil {
		respondError(c, op, err)
		return nil, false
	}
	return order, true
}

func sendInvoice(c *gin.Context, order *models.Order) {
	pdf, err := utils.RenderInvoice(order)
	if err != nil {
		respondError(c, "DownloadInvoice", err)
		return
	}
	utils.LogInfo("Invoice generated for order %s", order.OrderCode)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", order.OrderCode))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
