package httpx

import (
	"net/http"
	"strconv"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/catalog"
	"moonstore-be/internal/coupon"
	"moonstore-be/internal/logger"
	"moonstore-be/internal/metrics"
	"moonstore-be/internal/middleware"
	"moonstore-be/internal/order"
	"moonstore-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Handler bundles the domain services behind the HTTP routes.
type Handler struct {
	Users   user.Service
	Catalog catalog.Service
	Carts   cart.Service
	Coupons coupon.Service
	Orders  order.Service
	Stats   *metrics.Store
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger())
	r.Use(middleware.Auth())

	rl := middleware.NewRateLimiter()
	r.Use(rl.Limit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// public
	api.POST("/auth/register", rl.LimitStrict(), h.register)
	api.POST("/auth/login", rl.LimitStrict(), h.login)
	api.GET("/products", h.listProducts)
	api.GET("/products/:idOrSlug", h.getProduct)
	api.GET("/categories", h.listCategories)

	// authenticated
	authed := api.Group("", middleware.RequireAuth())
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addToCart)
	authed.PATCH("/cart/items/:id", h.updateCartItem)
	authed.DELETE("/cart/items/:id", h.removeCartItem)
	authed.DELETE("/cart", h.clearCart)
	authed.POST("/coupons/apply", h.applyCoupon)
	authed.POST("/orders", rl.LimitStrict(), h.checkout)
	authed.GET("/orders", h.listMyOrders)
	authed.GET("/orders/:id", h.getOrder)
	authed.POST("/orders/:id/cancel", h.cancelOrder)

	// admin
	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.POST("/products", h.createProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/categories", h.addCategory)
	admin.GET("/coupons", h.listCoupons)
	admin.POST("/coupons", h.createCoupon)
	admin.GET("/orders", h.listAllOrders)
	admin.POST("/orders/:id/verify", rl.LimitStrict(), h.verifyPayment)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)
	admin.GET("/stats", h.stats)

	return r
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stats.Snapshot())
}

// pathID parses the ":id" route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
