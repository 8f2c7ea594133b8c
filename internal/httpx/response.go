package httpx

import (
	"errors"
	"net/http"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/catalog"
	"moonstore-be/internal/coupon"
	"moonstore-be/internal/logger"
	"moonstore-be/internal/order"
	"moonstore-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps domain sentinel errors onto HTTP status codes. Unknown
// errors fall through to 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, order.ErrInsufficientStock):
		return http.StatusConflict, err.Error()

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrPaymentNotPending):
		return http.StatusConflict, err.Error()

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, cart.ErrCartEmpty),
		errors.Is(err, coupon.ErrCartEmpty):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrBelowMinOrder),
		errors.Is(err, coupon.ErrUsageExhausted):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, coupon.ErrInvalidDiscount):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, cart.ErrUnauthorized),
		errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
