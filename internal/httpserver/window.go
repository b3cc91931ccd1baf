package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	windowsvc "sushi-orders/internal/service/window"
)

type windowService interface {
	Get(ctx context.Context) (*windowsvc.State, error)
	Upsert(ctx context.Context, in windowsvc.UpsertInput) (*windowsvc.State, error)
}

func (h *handlers) getWindow(c *gin.Context) {
	state, err := h.deps.Windows.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *handlers) putWindow(c *gin.Context) {
	var req windowsvc.UpsertInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError("body must be {\"isEnabled\": bool, \"onDate\": timestamp, \"offDate\": timestamp}"))
		return
	}
	state, err := h.deps.Windows.Upsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
