package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sagehill-community/activities-backend/internal/services"
)

type contextKey string

const (
	actorKey   contextKey = "actor"
	sessionKey contextKey = "session"
)

// SessionAuth resolves the request's session token into an Actor and stashes
// it in the context. It never rejects: anonymous requests proceed with the
// zero Actor, and the services decide what anonymous callers may do.
func SessionAuth(loadUser func(ctx context.Context, id string) (*ActorDetails, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			ctx := context.WithValue(r.Context(), sessionKey, token)

			actor := services.Anonymous
			if token != "" {
				if userID, ok, _ := services.ValidateSession(ctx, token); ok {
					if details, err := loadUser(ctx, userID.String()); err == nil && details != nil {
						actor = services.Actor{
							Authenticated: true,
							UserID:        userID.String(),
							IsAdmin:       details.IsAdmin,
							Email:         details.Email,
						}
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, actorKey, actor)))
		})
	}
}

// ActorDetails is what SessionAuth needs to know about the logged-in user.
type ActorDetails struct {
	IsAdmin bool
	Email   string
}

// SessionToken extracts the session token from the Authorization header
// ("Bearer <token>") or the session cookie.
func SessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

// CartSession identifies the visitor's browsing session for cart
// operations. Logged-in visitors use their login session token; anonymous
// visitors supply a client-generated id via the X-Cart-Session header or
// the cart_session cookie.
func CartSession(r *http.Request) string {
	if token := SessionToken(r); token != "" {
		return token
	}
	if id := strings.TrimSpace(r.Header.Get("X-Cart-Session")); id != "" {
		return id
	}
	if cookie, err := r.Cookie("cart_session"); err == nil {
		return cookie.Value
	}
	return ""
}

// ActorFromContext returns the Actor SessionAuth stored, or the anonymous
// actor when the middleware didn't run.
func ActorFromContext(ctx context.Context) services.Actor {
	if actor, ok := ctx.Value(actorKey).(services.Actor); ok {
		return actor
	}
	return services.Anonymous
}

// SessionFromContext returns the raw session token for cart operations.
func SessionFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(sessionKey).(string); ok {
		return token
	}
	return ""
}

// WithActor returns a context carrying the given actor. Used by tests.
func WithActor(ctx context.Context, actor services.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
