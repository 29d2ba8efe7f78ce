package server

import (
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"resultrelay/lib/ratelimit"

	"github.com/mazen160/go-random"
)

// statusRecorder remembers the status code a handler wrote so the
// logging middleware can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId, err := random.String(12)
		if err != nil {
			requestId = "unknown"
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info(
			"request",
			"request_id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP(r),
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			slog.Error(
				"panic while handling request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP(r),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Internal server error",
				"code":  "INTERNAL_SERVER_ERROR",
			})
		}()
		next.ServeHTTP(w, r)
	})
}

func rateLimitMiddleware(limiter *ratelimit.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// health probes should not burn a client's allowance
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		d := limiter.Take(clientIP(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
