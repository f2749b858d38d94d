package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecolearn/internal/explorer"
)

type ctxKey string

const explorerContextKey ctxKey = "ecolearn.session.explorer"

func WithExplorer(ctx context.Context, e *explorer.Explorer) context.Context {
	return context.WithValue(ctx, explorerContextKey, e)
}

func FromContext(ctx context.Context) (*explorer.Explorer, bool) {
	e, ok := ctx.Value(explorerContextKey).(*explorer.Explorer)
	return e, ok && e != nil
}

type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Middleware resolves the request's Explorer from its session cookie,
// starting a new session when the cookie is missing or stale.
func (s *Store) Middleware(opts CookieOptions) func(http.Handler) http.Handler {
	if opts.Name == "" {
		opts.Name = "ecolearn_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var e *explorer.Explorer
			if c, err := r.Cookie(opts.Name); err == nil {
				e, _ = s.Get(c.Value)
			}
			if e == nil {
				e = s.Create()
			}
			setCookie(w, r, opts, e.ID())
			next.ServeHTTP(w, r.WithContext(WithExplorer(r.Context(), e)))
		})
	}
}

func setCookie(w http.ResponseWriter, r *http.Request, opts CookieOptions, id string) {
	c := &http.Cookie{
		Name:     opts.Name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   shouldUseSecureCookie(r, opts.Secure),
		SameSite: http.SameSiteLaxMode,
	}
	if opts.TTL > 0 {
		c.MaxAge = int(opts.TTL / time.Second)
	}
	http.SetCookie(w, c)
}

func shouldUseSecureCookie(r *http.Request, forced bool) bool {
	if forced || r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
