package router

import (
	"encoding/json"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/dealdesk/backend/api/handler"
	"github.com/dealdesk/backend/api/transport"
)

type Handlers struct {
	Deal   *apiHandler.DealHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Deal routes. The static stats path is registered alongside the
	// parameterized one; static segments win during matching.
	r.GET("/api/deals", handlers.Deal.List)
	r.POST("/api/deals", handlers.Deal.Create)
	r.GET("/api/deals/stats/summary", handlers.Deal.Summary)
	r.GET("/api/deals/{id}", handlers.Deal.Get)
	r.PUT("/api/deals/{id}", handlers.Deal.Update)
	r.DELETE("/api/deals/{id}", handlers.Deal.Delete)

	r.NotFound = notFound
	r.MethodNotAllowed = notFound

	return r
}

func notFound(ctx *fasthttp.RequestCtx) {
	body, _ := json.Marshal(transport.NewError("NOT_FOUND", "Route not found"))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusNotFound)
	ctx.SetBody(body)
}
