// Package respond writes read-API responses: cached JSON bodies with
// conditional-request support, and structured errors.
package respond

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/albapepper/scoracle-collector/internal/cache"
)

// ErrorBody is the shape of every API error.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Cached writes a cached entry, or 304 when the request's If-None-Match
// selects it. hit is reported in X-Cache.
func Cached(w http.ResponseWriter, r *http.Request, e cache.Entry, ttl time.Duration, hit bool) {
	h := w.Header()
	h.Set("ETag", e.ETag)
	h.Set("Last-Modified", e.Stored.UTC().Format(http.TimeFormat))
	h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(ttl.Seconds())))
	h.Set("Vary", "Accept-Encoding")
	if hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}

	if cache.Matches(r.Header.Get("If-None-Match"), e.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", strconv.Itoa(len(e.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(e.Data)
	}
}

// Error sends a structured JSON error that clients must not cache.
func Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Cache-Control", "no-store")
	JSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// JSON encodes v as an uncached response.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
