package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dealdesk/backend/api/transport"
	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/pkg/httpcontext"
	dealsUC "github.com/dealdesk/backend/usecase/deals"
)

type DealHandler struct {
	baseHandler
	uc *dealsUC.UseCase
}

func NewDealHandler(uc *dealsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, devMode bool) *DealHandler {
	return &DealHandler{
		baseHandler: newBaseHandler(adapter, logger, devMode),
		uc:          uc,
	}
}

// List answers GET /api/deals with the page, pagination envelope and
// in-scope statistics for one filter predicate.
func (h *DealHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	req := dealsUC.ListRequest{
		Search:    string(args.Peek("search")),
		Stage:     string(args.Peek("stage")),
		MinValue:  string(args.Peek("minValue")),
		MaxValue:  string(args.Peek("maxValue")),
		StartDate: string(args.Peek("startDate")),
		EndDate:   string(args.Peek("endDate")),
		Page:      string(args.Peek("page")),
		Limit:     string(args.Peek("limit")),
		SortBy:    string(args.Peek("sortBy")),
		SortOrder: string(args.Peek("sortOrder")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.List(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

func (h *DealHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.dealID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deal, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, deal)
}

func (h *DealHandler) Create(ctx *fasthttp.RequestCtx) {
	draft, ok := h.parseDraft(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, draft)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewSuccessMessage(created, "Deal created successfully"))
}

func (h *DealHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.dealID(ctx)
	if !ok {
		return
	}
	draft, ok := h.parseDraft(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, draft)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccessMessage(updated, "Deal updated successfully"))
}

func (h *DealHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.dealID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccessMessage(nil, "Deal deleted successfully"))
}

// Summary answers GET /api/deals/stats/summary with unfiltered statistics.
func (h *DealHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.Summary(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

func (h *DealHandler) parseDraft(ctx *fasthttp.RequestCtx) (domain.DealDraft, bool) {
	var req transport.DealRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.NewError(domain.ErrCodeValidation, "invalid request body"))
		return domain.DealDraft{}, false
	}

	draft, err := req.ToDraft()
	if err != nil {
		h.respondError(ctx, err)
		return domain.DealDraft{}, false
	}
	return draft, true
}

func (h *DealHandler) dealID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		h.respondError(ctx, domain.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}
