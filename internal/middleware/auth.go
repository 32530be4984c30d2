package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"taskpilot/internal/auth"
	"taskpilot/internal/response"
)

const identityKey = "identity"

// Auth builds Echo middleware around the token service. A missing or
// malformed Authorization header yields 401; a token that fails
// verification yields 403 with the specific failure message.
type Auth struct {
	tokens *auth.JWTService
}

// NewAuth creates the auth middleware factory.
func NewAuth(tokens *auth.JWTService) *Auth {
	return &Auth{tokens: tokens}
}

// Require rejects requests that do not carry a valid bearer token and
// attaches the verified claims to the request context.
func (a *Auth) Require() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     identityKey,
		TokenLookup:    "header:Authorization:Bearer ",
		ParseTokenFunc: a.parseToken,
		ErrorHandler:   a.handleError,
	})
}

// Optional never blocks: on any extraction or verification failure the
// request proceeds with no identity attached.
func (a *Auth) Optional() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             identityKey,
		TokenLookup:            "header:Authorization:Bearer ",
		ParseTokenFunc:         a.parseToken,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// Identity returns the claims attached by Require, or nil when the
// request carried no valid token.
func Identity(c echo.Context) *auth.Claims {
	claims, _ := c.Get(identityKey).(*auth.Claims)
	return claims
}

func (a *Auth) parseToken(c echo.Context, tokenString string) (interface{}, error) {
	return a.tokens.Verify(tokenString)
}

func (a *Auth) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return response.Fail(c, http.StatusForbidden, auth.ErrTokenExpired.Error())
	case errors.Is(err, auth.ErrTokenInvalid):
		return response.Fail(c, http.StatusForbidden, auth.ErrTokenInvalid.Error())
	case err != nil:
		// extraction failure: no token presented in the Bearer scheme
		return response.Fail(c, http.StatusUnauthorized, "Access token required")
	default:
		return response.Fail(c, http.StatusInternalServerError, "Authentication error")
	}
}
