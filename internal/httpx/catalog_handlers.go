package httpx

import (
	"net/http"
	"strconv"

	"moonstore-be/internal/catalog"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	opts := catalog.ProductQueryOptions{Filter: &catalog.ProductFilter{}}

	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			cid := uint(id)
			opts.Filter.CategoryID = &cid
		}
	}
	if v := c.Query("brand"); v != "" {
		opts.Filter.Brand = &v
	}
	if v := c.Query("q"); v != "" {
		opts.Filter.Search = &v
	}
	if v := c.Query("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		opts.Filter.InStock = &inStock
	}
	if v := c.Query("sort"); v != "" {
		opts.Sort = &catalog.ProductSort{Field: v, Direction: c.DefaultQuery("dir", "desc")}
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

	products, err := h.Catalog.ListProducts(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct accepts either a numeric id or a slug in the path segment.
func (h *Handler) getProduct(c *gin.Context) {
	key := c.Param("idOrSlug")

	var (
		p   *catalog.Product
		err error
	)
	if id, parseErr := strconv.ParseUint(key, 10, 64); parseErr == nil {
		p, err = h.Catalog.GetProduct(c.Request.Context(), uint(id))
	} else {
		p, err = h.Catalog.GetProductBySlug(c.Request.Context(), key)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) listCategories(c *gin.Context) {
	var filter *string
	if v := c.Query("q"); v != "" {
		filter = &v
	}

	categories, err := h.Catalog.ListCategories(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) createProduct(c *gin.Context) {
	var req NewProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	p, err := h.Catalog.CreateProduct(c.Request.Context(), catalog.NewProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	p, err := h.Catalog.UpdateProduct(c.Request.Context(), id, catalog.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addCategory(c *gin.Context) {
	var req NewCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	cat, err := h.Catalog.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}
