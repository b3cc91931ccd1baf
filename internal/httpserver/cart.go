package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"sushi-orders/internal/domain"
	cartsvc "sushi-orders/internal/service/cart"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type cartService interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID string, in cartsvc.AddItemInput) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID string) (*domain.Cart, error)
	RemoveProduct(ctx context.Context, customerID, productID string) (*domain.Cart, error)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Products.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Products.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Carts.Get(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req cartsvc.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError("body must be {\"productId\": string, \"quantity\": number}"))
		return
	}
	cart, err := h.deps.Carts.AddItem(c.Request.Context(), c.Param("customerId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.Carts.RemoveItem(c.Request.Context(), c.Param("customerId"), c.Param("productId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeCartProduct(c *gin.Context) {
	cart, err := h.deps.Carts.RemoveProduct(c.Request.Context(), c.Param("customerId"), c.Param("productId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
