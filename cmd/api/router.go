package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mylibrary/internal/book"
	"mylibrary/internal/config"
	"mylibrary/internal/httpx"
)

const readyTimeout = 500 * time.Millisecond

type pinger interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

type router struct {
	handler http.Handler
	limiter *httpx.RateLimitMiddleware
}

func (rt *router) Close() { rt.limiter.Close() }

func newRouter(cfg config.Config, repo book.Repository, db pinger, logger *slog.Logger) *router {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteText(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context(), readyTimeout); err != nil {
			logger.Warn("readiness check failed", "error", err)
			httpx.WriteText(w, http.StatusServiceUnavailable, "db not ready")
			return
		}
		httpx.WriteText(w, http.StatusOK, "ready")
	})

	books := book.NewHTTPHandler(
		book.NewService(repo),
		book.NewAssembler(cfg.BasePath, cfg.PublicBaseURL),
		logger,
	)
	books.Register(mux)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	var middlewares []func(http.Handler) http.Handler
	if cfg.TrustProxyHeaders {
		middlewares = append(middlewares, httpx.ProxyHeadersMiddleware)
	}
	middlewares = append(middlewares,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
	return &router{handler: httpx.Chain(mux, middlewares...), limiter: limiter}
}
