package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

const (
	msgMissingIdentity = "missing or invalid identity headers"
	msgForbidden       = "your role does not allow this action"
)

type actorKey struct{}

// identityMiddleware answers 401 unless the request carries a user id and a known role.
func (a *API) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		role, err := core.ParseRole(r.Header.Get(HeaderUserRole))

		if userID == "" || err != nil {
			a.writeEnvelope(w, r, http.StatusUnauthorized, envelope{Message: msgMissingIdentity})
			return
		}

		actor := core.Actor{
			UserID:   userID,
			Role:     role,
			FullName: strings.TrimSpace(r.Header.Get(HeaderUserName)),
			Email:    strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

// requireRole answers 403 when allowed rejects the actor.
func (a *API) requireRole(allowed func(core.Actor) bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(actorFrom(r)) {
			a.writeEnvelope(w, r, http.StatusForbidden, envelope{Message: msgForbidden})
			return
		}

		next(w, r)
	}
}

func actorFrom(r *http.Request) core.Actor {
	actor, _ := r.Context().Value(actorKey{}).(core.Actor)
	return actor
}
