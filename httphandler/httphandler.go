/*
Package httphandler provides a basic net/http http.Handler implementation
that normalizes URLs.

The handler expects a ?url=URL_TO_NORMALIZE query parameter, plus zero or
more ?strip=PATTERN parameters naming query keys to drop, and responds
with a JSON object containing the canonical URL:

	$ curl -s 'localhost:8080/normalize?url=https://example.com/main.php?c=1%26a=5&strip=utm_.*' | jq .
	{
	    "given_url": "https://example.com/main.php?c=1&a=5",
	    "normalized_url": "https://example.com/main.php?a=5&c=1"
	}

A missing or unparseable url argument and a strip pattern that fails to
compile are client errors (400). Internal normalization failures are
reported as 500 with a stable public error message.
*/
package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	urlnormalize "github.com/howeih/url-normalize"
)

// Errors that might be returned by the HTTP handler.
var (
	ErrInvalidURL     = errors.New("invalid url")
	ErrInvalidPattern = errors.New("invalid strip pattern")
	ErrNormalize      = errors.New("normalize error")
)

// Cache control. Normalization is deterministic, so successful responses
// can be cached aggressively.
const (
	maxAgeOK  = 365 * 24 * time.Hour
	maxAgeErr = 5 * time.Minute
)

var tracer = otel.Tracer("github.com/howeih/url-normalize/httphandler")

// NormalizeResponse defines the HTTP handler's response structure.
type NormalizeResponse struct {
	GivenURL      string `json:"given_url"`
	NormalizedURL string `json:"normalized_url"`
	Error         string `json:"error,omitempty"`
}

// New creates a new Handler.
func New() *Handler {
	return &Handler{}
}

// Handler is an HTTP request handler that normalizes URLs.
type Handler struct{}

var _ http.Handler = &Handler{} // Handler implements http.Handler

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	givenURL := query.Get("url")
	if givenURL == "" {
		sendError(w, "Missing arg url", http.StatusBadRequest)
		return
	}
	stripPatterns := query["strip"]

	_, span := tracer.Start(ctx, "urlnormalize.Normalize")
	span.SetAttributes(
		attribute.String("url.given", givenURL),
		attribute.Int("strip.pattern_count", len(stripPatterns)),
	)
	defer span.End()

	n, err := urlnormalize.New(givenURL)
	if err != nil {
		span.RecordError(err)
		sendError(w, "Invalid url", http.StatusBadRequest)
		return
	}

	normalized, err := n.Normalize(stripPatterns)
	if err != nil {
		span.RecordError(err)
		hlog.FromRequest(r).Error().Err(err).Str("url", givenURL).Msg("error normalizing url")

		code := http.StatusInternalServerError
		var patternErr *urlnormalize.PatternError
		if errors.As(err, &patternErr) {
			code = http.StatusBadRequest
		}
		sendJSON(w, code, NormalizeResponse{
			GivenURL: givenURL,
			Error:    mapError(err).Error(),
		})
		return
	}

	span.SetAttributes(attribute.String("url.normalized", normalized))
	sendJSON(w, http.StatusOK, NormalizeResponse{
		GivenURL:      givenURL,
		NormalizedURL: normalized,
	})
}

func sendJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", cacheControlValue(code))
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, msg string, code int) {
	sendJSON(w, code, map[string]string{
		"error": msg,
	})
}

func cacheControlValue(code int) string {
	maxAge := maxAgeErr
	if code == http.StatusOK {
		maxAge = maxAgeOK
	}
	return fmt.Sprintf("public,max-age=%.0f", maxAge.Seconds())
}

// mapError rewrites errors to hide implementation details from clients.
func mapError(err error) error {
	var patternErr *urlnormalize.PatternError
	switch {
	case errors.As(err, &patternErr):
		return fmt.Errorf("%w: %s", ErrInvalidPattern, patternErr.Pattern)
	case errors.Is(err, urlnormalize.ErrInvalidURL):
		return ErrInvalidURL
	default:
		return ErrNormalize
	}
}
