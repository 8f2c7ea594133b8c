package httpx

import (
	"net/http"
	"strconv"

	"moonstore-be/internal/middleware"
	"moonstore-be/internal/order"
	"moonstore-be/internal/payment"

	"github.com/gin-gonic/gin"
)

func (h *Handler) checkout(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	o, err := h.Orders.Checkout(c.Request.Context(), order.CheckoutInput{
		UserID:        userID,
		PaymentMethod: payment.Method(req.PaymentMethod),
		Shipping: order.ShippingInfo{
			Name:       req.Shipping.Name,
			Phone:      req.Shipping.Phone,
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
		},
		ProofReference: req.ProofReference,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

func (h *Handler) getOrder(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.Orders.Get(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func listOptionsFromQuery(c *gin.Context) order.ListOptions {
	var opts order.ListOptions

	if v := c.Query("status"); v != "" {
		status := order.Status(v)
		opts.Status = &status
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			limit := int32(n)
			opts.Limit = &limit
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			page := int32(n)
			opts.Page = &page
		}
	}

	return opts
}

func (h *Handler) listMyOrders(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	orders, err := h.Orders.ListByUser(c.Request.Context(), userID, listOptionsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) listAllOrders(c *gin.Context) {
	opts := listOptionsFromQuery(c)

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			uid := uint(id)
			opts.UserID = &uid
		}
	}

	orders, err := h.Orders.ListAll(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) cancelOrder(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Orders.Cancel(c.Request.Context(), id, userID, middleware.IsAdmin(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(order.StatusCancelled)})
}

func (h *Handler) verifyPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	approved := req.Outcome == string(payment.StatusCompleted)
	if err := h.Orders.VerifyPayment(c.Request.Context(), id, approved, req.TransactionID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": req.Outcome})
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.Orders.UpdateStatus(c.Request.Context(), id, order.Status(req.Status)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
