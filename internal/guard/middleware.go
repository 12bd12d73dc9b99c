package guard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"semaphore/portal/internal/api"
)

// PermissionSource is satisfied by *Lookup.
type PermissionSource interface {
	Permissions(ctx context.Context) (api.PermissionSet, error)
}

// Middleware serves next when req is met, fallback otherwise. A nil fallback
// answers 403.
func Middleware(source PermissionSource, req Requirement, fallback http.Handler) func(http.Handler) http.Handler {
	return Dynamic(source, func(*http.Request) Requirement { return req }, fallback)
}

// Dynamic is Middleware with the requirement derived from the request, e.g.
// from a route parameter.
func Dynamic(source PermissionSource, requirement func(*http.Request) Requirement, fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			set, err := source.Permissions(r.Context())
			if errors.Is(err, api.ErrNoSession) {
				writeError(w, http.StatusUnauthorized, "missing_token")
				return
			}
			if err != nil {
				writeError(w, http.StatusBadGateway, "permissions_unavailable")
				return
			}
			switch Decide(State{Permissions: set}, requirement(r)) {
			case Children:
				next.ServeHTTP(w, r)
			default:
				if fallback != nil {
					fallback.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusForbidden, "forbidden")
			}
		})
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
