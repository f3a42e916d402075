package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dealdesk/backend/api/transport"
	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/internal/infrastructure/monitor"
	"github.com/dealdesk/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger, false),
		monitor:     mon,
	}
}

type healthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Check answers GET /health. The payload is deliberately unwrapped.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if !h.monitor.IsOnline() {
		h.respondJSON(ctx, http.StatusServiceUnavailable,
			transport.NewError(string(domain.ErrCodeUnavailable), "database unreachable"))
		return
	}

	body, _ := json.Marshal(healthStatus{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}
