package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dealdesk/backend/api/transport"
	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
	devMode bool
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger, devMode bool) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger, devMode: devMode}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data any) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

// respondError translates a classified failure into exactly one response
// envelope. Internal errors keep a generic message outside development mode.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	code := domain.CodeOf(err)
	status := statusOf(code)
	message := messageOf(err, code, h.devMode)

	if code == domain.ErrCodeInternal || code == domain.ErrCodeUnavailable {
		h.logger.Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	h.respondJSON(ctx, status, transport.NewError(string(code), message))
}

func statusOf(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeValidation, domain.ErrCodeConflict:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case domain.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error, code domain.ErrorCode, devMode bool) string {
	if code == domain.ErrCodeInternal && !devMode {
		return "Internal server error"
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		if devMode {
			return dErr.Error()
		}
		return dErr.Message
	}
	if devMode {
		return err.Error()
	}
	return "Internal server error"
}
