package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"eventra/internal/domain/favorite"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const visitorContextKey contextKey = "visitor"

// VisitorCookieName holds the anonymous visitor id.
const VisitorCookieName = "eventra_visitor"

const visitorCookieMaxAge = 365 * 24 * 60 * 60

// Visitor returns middleware that identifies the browser with an anonymous
// cookie, issuing one on first visit, and stores the derived visitor key in
// the request context. It never blocks a request.
func Visitor(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(VisitorCookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    id,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Path:     "/",
					MaxAge:   visitorCookieMaxAge,
				})
			}
			next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), favorite.VisitorKey(id))))
		})
	}
}

// VisitorKeyFromContext returns the visitor key set by Visitor, or "".
func VisitorKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(visitorContextKey).(string)
	return key
}

// ContextWithVisitor returns a context carrying visitorKey.
// Intended for use in tests.
func ContextWithVisitor(ctx context.Context, visitorKey string) context.Context {
	return context.WithValue(ctx, visitorContextKey, visitorKey)
}
