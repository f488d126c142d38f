package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bookvault/internal/book"
	"bookvault/internal/config"
	"bookvault/internal/httpx"
	"bookvault/internal/payment"
)

const dbQueryTimeout = 3 * time.Second

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	dbPool := mustOpenDB(cfg.DatabaseDSN)
	defer dbPool.Close()

	bookRepo := book.NewPostgresRepo(dbPool, dbQueryTimeout)
	bookService := book.NewService(bookRepo)
	bookHandler := book.NewHTTPHandler(bookService)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)
	paymentHandler := payment.NewHTTPHandler(gateway)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("POST /books", bookHandler.Create)
	mux.HandleFunc("GET /books", bookHandler.List)
	mux.HandleFunc("GET /books/count", bookHandler.Count)
	mux.HandleFunc("GET /books/{id}", bookHandler.Get)
	mux.HandleFunc("PATCH /books/{id}", bookHandler.Update)
	mux.HandleFunc("DELETE /books/{id}", bookHandler.Delete)

	mux.HandleFunc("POST /payments/checkout-session", paymentHandler.CreateCheckoutSession)
	mux.HandleFunc("POST /payments/verify", paymentHandler.Verify)
	if cfg.StripeWebhookSecret != "" {
		mux.Handle("POST /payments/webhook", payment.NewWebhookHandler(cfg.StripeWebhookSecret))
	}

	adminOnly := httpx.AdminMiddleware(cfg.AdminSecret)
	mux.Handle("DELETE /admin/books", adminOnly(http.HandlerFunc(bookHandler.DeleteAll)))

	rateLimit := httpx.NewRateLimitMiddleware(20, 40)

	var handler http.Handler = mux
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.CORSMiddleware(cfg.AllowedOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(cfg.EnableHSTS)(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatal().Err(err).Str("dsn", redactDSN(dsn)).Msg("cannot ping database")
	}
	log.Info().Msg("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
