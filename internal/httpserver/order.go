package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"sushi-orders/internal/domain"
)

const maxBodyBytes = 64 << 10

type orderService interface {
	Confirm(ctx context.Context, customerID, comments string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (domain.OrderStatus, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	InvoicesForCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error)
	List(ctx context.Context) ([]domain.Order, error)
	InvoicesByCustomer(ctx context.Context) ([]domain.CustomerInvoices, error)
}

type documentService interface {
	Regenerate(ctx context.Context, invoiceID string) (string, error)
}

func (h *handlers) confirmOrder(c *gin.Context) {
	comments, err := bindJSONString(c, true)
	if err != nil {
		AbortWithError(c, invalidRequestError("body must be a JSON string comment"))
		return
	}
	order, err := h.deps.Orders.Confirm(c.Request.Context(), c.Param("customerId"), comments)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.Orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	status, err := bindJSONString(c, false)
	if err != nil {
		AbortWithError(c, invalidRequestError("body must be a JSON string status"))
		return
	}
	orderID := c.Param("orderId")
	updated, err := h.deps.Orders.UpdateStatus(c.Request.Context(), orderID, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "status": updated})
}

func (h *handlers) regenerateInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	url, err := h.deps.Documents.Regenerate(c.Request.Context(), invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoiceId": invoiceID, "documentUrl": url})
}

func (h *handlers) customerInvoices(c *gin.Context) {
	invoices, err := h.deps.Orders.InvoicesForCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) invoicesByCustomer(c *gin.Context) {
	groups, err := h.deps.Orders.InvoicesByCustomer(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// bindJSONString reads a body holding a single JSON string.
func bindJSONString(c *gin.Context, allowEmpty bool) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		if allowEmpty {
			return "", nil
		}
		return "", io.ErrUnexpectedEOF
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}
