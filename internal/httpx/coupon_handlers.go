package httpx

import (
	"net/http"

	"moonstore-be/internal/coupon"
	"moonstore-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) applyCoupon(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	redemption, err := h.Coupons.Apply(c.Request.Context(), userID, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"discount": redemption.Amount,
		"status":   redemption.Status,
	})
}

func (h *Handler) listCoupons(c *gin.Context) {
	coupons, err := h.Coupons.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h *Handler) createCoupon(c *gin.Context) {
	var req NewCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.Coupons.Create(c.Request.Context(), coupon.NewCouponInput{
		Code:           req.Code,
		DiscountType:   coupon.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}
