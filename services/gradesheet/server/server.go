package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"resultrelay/lib/ratelimit"
	"resultrelay/services/gradesheet"

	"github.com/rs/cors"
)

//go:embed landing.html
var landingPage []byte

var (
	symbolRegex = regexp.MustCompile(`^\d{8}[A-Z]?$`)
	dobRegex    = regexp.MustCompile(`^\d{4}[-./]\d{2}[-./]\d{2}$`)
)

type Options struct {
	Service gradesheet.Service
	// CORS allowlist, empty means allow any origin
	AllowedOrigins []string
	// max requests per client ip per window, <= 0 disables limiting
	RateLimitMax    int
	RateLimitWindow time.Duration
	// bounds the upstream fetch for one inbound request
	RequestTimeout time.Duration
}

type server struct {
	svc            gradesheet.Service
	requestTimeout time.Duration
}

// New assembles the REST surface: routes wrapped by rate limiting,
// CORS, request logging and panic recovery, outermost last.
func New(ctx context.Context, opts Options) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = time.Second * 10
	}
	s := &server{svc: opts.Service, requestTimeout: timeout}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/see-result", s.handleSeeResult)
	mux.HandleFunc("/", s.handleRoot)

	var handler http.Handler = mux

	if opts.RateLimitMax > 0 {
		window := opts.RateLimitWindow
		if window <= 0 {
			window = time.Minute * 10
		}
		limiter := ratelimit.New(opts.RateLimitMax, window)
		limiter.StartEviction(ctx)
		handler = rateLimitMiddleware(limiter, handler)
	}

	handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)

	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response body", "err", err)
	}
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Not Found",
		"code":  "ROUTE_NOT_FOUND",
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(landingPage)
}

type seeResultRequest struct {
	Symbol string `json:"symbol"`
	Dob    string `json:"dob"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func parseSeeResultRequest(r *http.Request) (seeResultRequest, error) {
	var req seeResultRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			return req, err
		}
		return req, nil
	}

	err := r.ParseForm()
	if err != nil {
		return req, err
	}
	req.Symbol = r.PostFormValue("symbol")
	req.Dob = r.PostFormValue("dob")
	return req, nil
}

func validateSeeResultRequest(req seeResultRequest) []fieldError {
	var errs []fieldError
	if !symbolRegex.MatchString(req.Symbol) {
		errs = append(errs, fieldError{
			Field:   "symbol",
			Message: "symbol must be 8 digits optionally followed by one uppercase letter",
		})
	}
	if !dobRegex.MatchString(req.Dob) {
		errs = append(errs, fieldError{
			Field:   "dob",
			Message: "dob must be a date in YYYY-MM-DD form (separators - . / accepted)",
		})
	}
	return errs
}

func (s *server) handleSeeResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		notFound(w)
		return
	}

	req, err := parseSeeResultRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []fieldError{{Field: "body", Message: "malformed request body"}},
		})
		return
	}

	if errs := validateSeeResultRequest(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.svc.Lookup(ctx, req.Symbol, req.Dob)
	if err != nil {
		slog.ErrorContext(
			ctx, "lookup failed",
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP(r),
			"err", err,
		)
		if errors.Is(err, gradesheet.ErrUpstreamTimeout) {
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{
				"error": "Request timeout",
			})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "Failed to fetch data from external server",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
