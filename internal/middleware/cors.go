package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
)

// CORS restricts cross-origin access to the configured origin in production
// and stays permissive for local development.
func CORS(allowedOrigin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			if allowedOrigin != "*" {
				ctx.Response.Header.Set("Access-Control-Allow-Credentials", "true")
				ctx.Response.Header.Set("Vary", "Origin")
			}

			if string(ctx.Method()) == http.MethodOptions {
				ctx.SetStatusCode(http.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
