package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/okorban/vidmeta/internal/credentials"
)

const maxCookieBodySize = 1 << 20 // 1MB

// DefaultRateLimit is the per-client request budget on the metadata route.
const DefaultRateLimit = 100

var videoIDPattern = regexp.MustCompile(`^\d+$`)

// CredentialUpdater persists a replacement cookie credential.
type CredentialUpdater interface {
	Update(value string) error
}

// Deps holds everything the gateway handler needs.
type Deps struct {
	Lookup      *LookupService
	Credentials CredentialUpdater
	APIKey      string // shared secret for cookie updates; "" means unconfigured
	RateLimit   int    // metadata requests per client per hour; 0 means DefaultRateLimit
	Logger      *slog.Logger
}

// NewHandler returns the gateway HTTP handler. Every response, errors and
// 404s included, carries the permissive CORS headers; the metadata route is
// additionally rate limited per client IP and advertises the budget through
// X-RateLimit headers.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	limit := deps.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(CORS)

	limiter := httprate.Limit(
		limit,
		time.Hour,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpError(w, http.StatusTooManyRequests, "rate_limit_error", "rate limit exceeded, retry later")
		}),
	)

	r.With(limiter).Get("/api/metadata", handleMetadata(deps))
	r.Post("/api/cookies", handleUpdateCookies(deps))
	r.Get("/api/health", handleHealth)

	r.Options("/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}

func handleMetadata(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.URL.Query().Get("videoId")
		if videoID == "" {
			httpError(w, http.StatusBadRequest, "validation_error", "videoId parameter is required")
			return
		}
		if !videoIDPattern.MatchString(videoID) {
			httpError(w, http.StatusBadRequest, "validation_error", "videoId must be a numeric value")
			return
		}

		body, err := deps.Lookup.Fetch(r.Context(), videoID)
		if err != nil {
			// Upstream detail stays in the log; callers get a generic message.
			deps.Logger.Error("metadata fetch failed", "video_id", videoID, "error", err)
			httpError(w, http.StatusInternalServerError, "upstream_error", "Failed to fetch metadata from Netflix")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

type cookieUpdateRequest struct {
	Cookies string `json:"cookies"`
}

func handleUpdateCookies(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Fail closed: without a configured key no header value is acceptable.
		if deps.APIKey == "" {
			httpError(w, http.StatusInternalServerError, "configuration_error", "API key not configured on server")
			return
		}
		key := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(deps.APIKey)) != 1 {
			httpError(w, http.StatusUnauthorized, "authorization_error", "Unauthorized: Invalid or missing API key")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxCookieBodySize)
		defer r.Body.Close()

		var req cookieUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
			return
		}
		if req.Cookies == "" {
			httpError(w, http.StatusBadRequest, "validation_error", "cookies field is required")
			return
		}

		if err := deps.Credentials.Update(req.Cookies); err != nil {
			if errors.Is(err, credentials.ErrNoStore) {
				httpError(w, http.StatusInternalServerError, "configuration_error", "persistent store not configured")
				return
			}
			deps.Logger.Error("cookie update failed", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to persist cookies")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Cookies updated successfully",
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
