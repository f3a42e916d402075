package router

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/dealdesk/backend/api/handler"
	"github.com/dealdesk/backend/domain"
	"github.com/dealdesk/backend/internal/infrastructure/monitor"
	"github.com/dealdesk/backend/repository/memory"
	dealsUC "github.com/dealdesk/backend/usecase/deals"
)

func testHandlers(t *testing.T) Handlers {
	t.Helper()

	repo := memory.NewDealRepository()
	_, err := repo.Insert(context.Background(), domain.DealDraft{
		Name: "Deal", ContactName: "Ann", Company: "Acme",
		Stage: domain.StageWon, Value: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	uc := dealsUC.New(repo, zap.NewNop())
	return Handlers{
		Deal:   apiHandler.NewDealHandler(uc, nil, zap.NewNop(), false),
		Health: apiHandler.NewHealthHandler(monitor.New(nil, 0, zap.NewNop()), nil, zap.NewNop()),
	}
}

func serve(t *testing.T, method, uri string) *fasthttp.RequestCtx {
	t.Helper()

	r := New(testHandlers(t))
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	r.Handler(ctx)
	return ctx
}

func TestStatsRouteWinsOverParameterized(t *testing.T) {
	ctx := serve(t, http.MethodGet, "/api/deals/stats/summary")

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			TotalDeals int64 `json:"total_deals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, int64(1), env.Data.TotalDeals)
}

func TestParameterizedGetStillWorks(t *testing.T) {
	ctx := serve(t, http.MethodGet, "/api/deals/1")
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
}

func TestUnknownRouteIs404Envelope(t *testing.T) {
	ctx := serve(t, http.MethodGet, "/api/unknown")

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Error)
	assert.Equal(t, "Route not found", env.Message)
}

func TestUnsupportedMethodIs404Envelope(t *testing.T) {
	ctx := serve(t, http.MethodPatch, "/api/deals")
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}
