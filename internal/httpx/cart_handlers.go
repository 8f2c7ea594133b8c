package httpx

import (
	"net/http"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	lines, err := h.Carts.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

func (h *Handler) addToCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	item, err := h.Carts.AddItem(c.Request.Context(), cart.AddToCartParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	err := h.Carts.UpdateQuantity(c.Request.Context(), cart.UpdateCartParams{
		UserID:     userID,
		CartItemID: id,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.Carts.RemoveItem(c.Request.Context(), cart.DeleteFromCartParams{
		UserID:     userID,
		CartItemID: id,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) clearCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.Carts.Clear(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
