package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/halahlab/backend/api/transport"
	"github.com/halahlab/backend/internal/infrastructure/monitor"
	"github.com/halahlab/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	// PostgreSQL is the only hard dependency; a flapping cache or
	// buffer degrades the snapshot but not the verdict.
	if !status.PostgreSQL {
		h.respondJSON(ctx, http.StatusServiceUnavailable,
			transport.NewError("DEGRADED", "primary store unreachable", status))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, status)
}
