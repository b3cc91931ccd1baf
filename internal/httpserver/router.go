package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(opts Options, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		accessLog(logger),
		observe(deps.Metrics),
		corsMiddleware(opts.CORSOrigins),
		requestTimeout(opts.RequestTimeout),
		ErrorHandlingMiddleware(logger),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	if opts.DocumentDir != "" {
		router.Static("/documents", opts.DocumentDir)
	}

	h := &handlers{deps: deps}

	router.GET("/products", h.listProducts)
	router.GET("/products/:productId", h.getProduct)

	cart := router.Group("/cart/:customerId")
	cart.GET("", h.getCart)
	cart.POST("/items", h.addCartItem)
	cart.DELETE("/items/:productId", h.removeCartItem)
	cart.DELETE("/products/:productId", h.removeCartProduct)

	order := router.Group("/order")
	order.GET("", h.listOrders)
	order.POST("/confirm/:customerId", h.confirmOrder)
	order.GET("/:orderId", h.getOrder)
	order.PUT("/:orderId/status", h.updateOrderStatus)
	order.POST("/invoices/:invoiceId/regenerate", h.regenerateInvoice)
	order.GET("/invoices", h.invoicesByCustomer)
	order.GET("/invoices/customer/:customerId", h.customerInvoices)

	admin := router.Group("/admin")
	admin.GET("/orders/pending/total", h.pendingTotal)
	admin.GET("/orders/status-count", h.statusCounts)
	admin.GET("/stock/requirements", h.stockRequirements)
	admin.GET("/revenue", h.revenue)

	router.GET("/orderingwindow", h.getWindow)
	router.PUT("/orderingwindow", h.putWindow)

	return router
}

type handlers struct {
	deps Deps
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
