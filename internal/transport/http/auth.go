package http

import (
	"context"
	"net/http"
	"strings"

	"journalist-api/internal/domain"
	"journalist-api/internal/service"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// principalFrom returns the principal set by requireToken. Handlers behind
// requireToken can rely on it being non-nil.
func principalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey{}).(*domain.Principal)
	return p
}

// requireToken accepts exactly "Authorization: Token <value>".
func requireToken(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Split(r.Header.Get("Authorization"), " ")
			if len(parts) != 2 || parts[0] != "Token" || parts[1] == "" {
				writeError(w, r, domain.ErrInvalidCredentials)
				return
			}
			p, err := tokens.Authenticate(r.Context(), parts[1])
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}
