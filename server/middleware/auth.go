// Package middleware holds the echo middleware in front of the API routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnloop/learnloop/server/auth"
	"github.com/learnloop/learnloop/store"
)

const principalContextKey = "learnloop-principal"

// Authenticator resolves bearer tokens to principals.
type Authenticator struct {
	store  *store.Store
	secret string
}

// NewAuthenticator creates an authenticator over the user store.
func NewAuthenticator(st *store.Store, secret string) *Authenticator {
	return &Authenticator{store: st, secret: secret}
}

// Middleware parses the Authorization header and stores the principal in the
// request context. Requests without a valid token are rejected; routes that
// allow anonymous access are registered outside this middleware.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}

			userUID, role, err := auth.ParseAccessToken(token, a.secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid access token"})
			}

			// The token alone carries UID and role; the store lookup pins the
			// numeric ID and rejects tokens for deleted or archived accounts.
			user, err := a.store.GetUser(c.Request().Context(), &store.FindUser{UID: &userUID})
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to resolve user"})
			}
			if user == nil || user.RowStatus != store.Normal {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account unavailable"})
			}

			c.Set(principalContextKey, auth.Principal{
				UserID: user.ID,
				UID:    user.UID,
				Role:   role,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(auth.Principal)
	return principal, ok
}

func extractToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
