package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"sushi-orders/internal/domain"
	"sushi-orders/internal/repository/order"
)

type reportService interface {
	PendingTotal(ctx context.Context, windowID *int64) (*domain.PendingTotal, error)
	Requirements(ctx context.Context, windowID *int64) (*domain.ProvisioningReport, error)
	Revenue(ctx context.Context, from, to *time.Time) (*domain.RevenueReport, error)
	StatusCounts(ctx context.Context) ([]order.StatusCount, error)
}

func (h *handlers) pendingTotal(c *gin.Context) {
	windowID, err := windowIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	total, err := h.deps.Reports.PendingTotal(c.Request.Context(), windowID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"windowId":    total.WindowID,
		"from":        total.Interval.From,
		"to":          total.Interval.To,
		"totalAmount": total.TotalAmount,
		"count":       total.Count,
	})
}

func (h *handlers) stockRequirements(c *gin.Context) {
	windowID, err := windowIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := h.deps.Reports.Requirements(c.Request.Context(), windowID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) revenue(c *gin.Context) {
	from, err := timeQuery(c, "from")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := h.deps.Reports.Revenue(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) statusCounts(c *gin.Context) {
	counts, err := h.deps.Reports.StatusCounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if counts == nil {
		counts = []order.StatusCount{}
	}
	c.JSON(http.StatusOK, counts)
}

func windowIDQuery(c *gin.Context) (*int64, error) {
	raw := strings.TrimSpace(c.Query("windowId"))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidRequestError("windowId must be an integer")
	}
	return &id, nil
}

// timeQuery accepts either a calendar date or an RFC 3339 timestamp.
func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidRequestError(key + " must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
}
