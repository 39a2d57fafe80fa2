package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookscanner/internal/auth"
	"bookscanner/internal/book"
	"bookscanner/internal/config"
	"bookscanner/internal/home"
	"bookscanner/internal/httpx"
	"bookscanner/internal/ingest"
	"bookscanner/internal/scan"
	"bookscanner/internal/user"
)

type deps struct {
	cfg      config.Config
	logger   *zap.Logger
	users    user.Repository
	books    book.Repository
	attempts ingest.Repository
	revoker  auth.Revoker
	latch    scan.Latch
	lookup   ingest.MetadataLookup
	ready    func(context.Context) error
}

func newRouter(d deps) (http.Handler, *httpx.RateLimitMiddleware) {
	userService := user.NewService(d.users)
	bookService := book.NewService(d.books)
	authService := auth.NewService(d.cfg.JWTSecret, d.cfg.TokenTTL, userService, d.revoker, d.logger)
	ingestService := ingest.NewService(d.lookup, bookService, d.attempts, d.logger)
	scanService := scan.NewService(d.latch, ingestService, d.logger)
	homeService := home.NewService(userService, bookService, d.logger)

	authHandler := auth.NewHTTPHandler(authService, d.logger)
	userHandler := user.NewHTTPHandler(userService, d.logger)
	bookHandler := book.NewHTTPHandler(bookService, d.logger)
	ingestHandler := ingest.NewHTTPHandler(ingestService, d.logger)
	scanHandler := scan.NewHTTPHandler(scanService, d.logger)
	homeHandler := home.NewHTTPHandler(homeService, d.logger)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /v1/users/register", authHandler.Register)
	router.HandleFunc("POST /v1/users/login", authHandler.Login)

	protected := httpx.AuthMiddleware(authService)
	handle := func(pattern string, h http.HandlerFunc) {
		router.Handle(pattern, protected(h))
	}

	handle("POST /v1/users/logout", authHandler.Logout)
	handle("GET /v1/me", userHandler.GetCurrentUser)
	handle("GET /v1/home", homeHandler.Get)

	handle("GET /v1/library", bookHandler.List)
	handle("POST /v1/library", ingestHandler.Add)
	handle("GET /v1/library/history", ingestHandler.History)
	handle("DELETE /v1/library/{isbn}", bookHandler.Delete)

	handle("POST /v1/scan-sessions", scanHandler.Start)
	handle("POST /v1/scan-sessions/{id}/decode", scanHandler.Decode)
	handle("POST /v1/scan-sessions/{id}/rearm", scanHandler.Rearm)

	limiter := httpx.NewRateLimitMiddleware(d.cfg.RateLimitRPS, d.cfg.RateLimitBurst, d.cfg.TrustProxy)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(d.logger),
		httpx.AccessLogMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(false),
		httpx.CORSMiddleware(d.cfg.CORSOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
	), limiter
}
