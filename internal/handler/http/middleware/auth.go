package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/response"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated caller, read from access token claims.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     user.Role
}

type principalKey struct{}

// PrincipalFromContext returns the caller stored by AuthRequired.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// AuthRequired rejects requests without a verified access token. It must run
// after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, ErrInvalidToken.Error())
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			response.Unauthorized(w, ErrInvalidToken.Error())
			return
		}

		userIDStr, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.Unauthorized(w, ErrInvalidToken.Error())
			return
		}
		role, _ := claims["role"].(string)
		username, _ := claims["username"].(string)

		ctx := WithPrincipal(r.Context(), Principal{
			UserID:   userID,
			Username: username,
			Role:     user.Role(role),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
