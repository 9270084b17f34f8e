package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

// Session puts the signed-in reader's id into every request context so that
// request logs and remote calls correlate. uuid.Nil leaves requests untouched.
func Session(userID uuid.UUID) Middleware {
	return func(next http.Handler) http.Handler {
		if userID == uuid.Nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), userID)))
		})
	}
}
