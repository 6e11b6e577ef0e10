package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Govind-619/Storefront/middleware"
	"github.com/Govind-619/Storefront/services"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the HTTP routes
type Handler struct {
	CartEngine     *services.CartEngine
	CheckoutEngine *services.CheckoutEngine
	OrderService   *services.OrderService
	CouponAdmin    *services.CouponAdmin
}

// resolveOwner picks the cart owner for the request; users win over guest tokens
func resolveOwner(c *gin.Context) (services.OwnerKey, error) {
	var userID *uint
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}
	return services.ResolveOwner(userID, middleware.CurrentCartToken(c))
}

// toAppError maps service errors to HTTP status and message
func toAppError(err error) *utils.AppError {
	var (
		missing    *services.MissingFieldError
		rejected   *services.CouponRejectedError
		stock      *services.InsufficientStockError
		invalid    *services.CouponValidationError
		gatewayErr *services.PaymentGatewayError
	)

	switch {
	case errors.As(err, &missing):
		return utils.BadRequestError(missing.Error(), err).WithDetails(gin.H{"field": missing.Field})
	case errors.As(err, &rejected):
		return utils.BadRequestError(rejected.Reason.Message(), err).
			WithDetails(gin.H{"code": rejected.Code, "reason": rejected.Reason})
	case errors.As(err, &stock):
		return utils.ConflictError(stock.Error(), err).WithDetails(gin.H{
			"productId": stock.ProductID,
			"name":      stock.Name,
			"requested": stock.Requested,
			"available": stock.Available,
		})
	case errors.As(err, &invalid):
		return utils.UnprocessableError("Invalid coupon", err).WithDetails(invalid.Fields)
	case errors.As(err, &gatewayErr):
		return utils.NewAppError(http.StatusBadGateway, "Payment provider unavailable", err)

	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrOwnerRequired),
		errors.Is(err, services.ErrCouponCodeRequired),
		errors.Is(err, services.ErrInvalidPayment),
		errors.Is(err, services.ErrPaymentNotSupported),
		errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrCartEmpty):
		return utils.BadRequestError(err.Error(), err)

	case errors.Is(err, services.ErrLoginRequired):
		return utils.UnauthorizedError(err.Error(), err)

	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrItemNotInCart),
		errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCartNotFound):
		return utils.NotFoundError(err.Error(), err)

	case errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrCartConflict),
		errors.Is(err, services.ErrDuplicateCoupon),
		errors.Is(err, services.ErrDuplicateOrderCode),
		errors.Is(err, services.ErrInvalidTransition):
		return utils.ConflictError(err.Error(), err)

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return utils.ServiceUnavailableError("Request timed out", err)
	}

	if appErr := utils.GetAppError(err); appErr != nil {
		return appErr
	}
	return utils.InternalError("Internal server error", err)
}

// respondError logs the error and writes the mapped response
func respondError(c *gin.Context, op string, err error) {
	appErr := toAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		utils.LogError("%s failed [%s]: %v", op, c.GetString("RequestID"), err)
	} else {
		utils.LogInfo("%s rejected: %v", op, err)
	}
	utils.RespondAppError(c, appErr)
}
