package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

// JWTAuthMiddleware checks for a valid JWT and stores its claims in the context.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
			}
			claims, err := parseToken(tokenString, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
			}
			c.Set(userContextKey, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth stores the claims when a valid token is present and lets anonymous requests through
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString, ok := bearerToken(c); ok {
				if claims, err := parseToken(tokenString, secret); err == nil {
					c.Set(userContextKey, claims)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or "" for anonymous requests
func UserID(c echo.Context) string {
	if claims, ok := c.Get(userContextKey).(*models.JwtCustomClaims); ok {
		return claims.UserID
	}
	return ""
}

// Expecting "Bearer <token>"
func bearerToken(c echo.Context) (string, bool) {
	parts := strings.Split(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
