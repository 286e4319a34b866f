// Package identity carries the authenticated caller id from the gateway
// header into the request context. Token validation happens upstream; the
// core only ever sees a resolved user id and receives it as an explicit
// argument, never from ambient state.
package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/modukick/matchledger/internal/api/respond"
)

type ctxKey int

const callerKey ctxKey = iota

// Middleware extracts the authenticated user id from X-User-ID and rejects
// requests without one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid caller identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, id)))
	})
}

// CallerID returns the authenticated user id set by Middleware.
func CallerID(r *http.Request) int64 {
	id, _ := r.Context().Value(callerKey).(int64)
	return id
}
