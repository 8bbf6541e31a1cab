package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idParam parses a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseLimit reads the limit query parameter, clamped to [1, max]. Falls back
// to def when absent or unparseable.
func parseLimit(r *http.Request, def, max int) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// cursorParam returns the cursor query parameter as a nullable string.
func cursorParam(r *http.Request) *string {
	cursor := r.URL.Query().Get("cursor")
	if cursor == "" {
		return nil
	}
	return &cursor
}
