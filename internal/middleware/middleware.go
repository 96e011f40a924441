// Package middleware provides the HTTP middleware chain: request IDs,
// structured request logging, panic recovery and rate limiting.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"pricecal/internal/infrastructure"
)

type requestIDCtxKey struct{}

// RequestID generates a unique request ID for each request. An incoming
// X-Request-ID header is honored so upstream proxies can correlate. This
// should be the first middleware in the chain.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDCtxKey{}, requestID)
		ctx = infrastructure.WithTraceID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetReqID retrieves the request ID from the context.
func GetReqID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDCtxKey{}).(string); ok {
		return reqID
	}
	return ""
}

// StructuredLogger logs request start and completion with slog. Comes
// after RequestID so entries carry the trace ID.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			reqLogger := logger
			if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
				reqLogger = logger.With("trace_id", traceID)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLogger.InfoContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(ww, r)

			reqLogger.InfoContext(ctx, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// Recoverer recovers from panics, logs the stack and answers 500.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					traceID := infrastructure.GetTraceID(ctx)
					response := `{"status_code":500,"error_code":"INTERNAL_SERVER_ERROR","message":"An unexpected error occurred","trace_id":"` + traceID + `"}`
					w.Write([]byte(response))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter applies a global token bucket to incoming requests.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimiter creates a rate limiter with logging.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Handler implements the rate limiting middleware.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !rl.limiter.Allow() {
			rl.logger.WarnContext(ctx, "rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			traceID := infrastructure.GetTraceID(ctx)
			response := `{"status_code":429,"error_code":"RATE_LIMIT_EXCEEDED","message":"Rate limit exceeded. Please retry after 60 seconds","trace_id":"` + traceID + `"}`
			w.Write([]byte(response))
			return
		}

		next.ServeHTTP(w, r)
	})
}
