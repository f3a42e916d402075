package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestCORSDefaultsToWildcard(t *testing.T) {
	var reached bool
	handler := CORS("")(func(ctx *fasthttp.RequestCtx) { reached = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodGet)
	handler(ctx)

	assert.True(t, reached)
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Empty(t, ctx.Response.Header.Peek("Access-Control-Allow-Credentials"))
}

func TestCORSRestrictedOrigin(t *testing.T) {
	handler := CORS("https://crm.example.com")(func(ctx *fasthttp.RequestCtx) {})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodGet)
	handler(ctx)

	assert.Equal(t, "https://crm.example.com", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "true", string(ctx.Response.Header.Peek("Access-Control-Allow-Credentials")))
	assert.Equal(t, "Origin", string(ctx.Response.Header.Peek("Vary")))
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	var reached bool
	handler := CORS("")(func(ctx *fasthttp.RequestCtx) { reached = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodOptions)
	handler(ctx)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
}
