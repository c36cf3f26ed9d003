package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ClientTokenClaims is the server-issued token the hosted SDK boots
// with. Scopes gate the admin-side operations (refund).
type ClientTokenClaims struct {
	jwt.RegisteredClaims
	Currency string   `json:"currency"`
	Env      string   `json:"env"`
	Scopes   []string `json:"scopes,omitempty"`
}

func IssueClientToken(secret, env, currency string, ttl time.Duration, scopes ...string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("client token secret not configured")
	}

	now := time.Now()
	claims := &ClientTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront-checkout",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Currency: currency,
		Env:      env,
		Scopes:   scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

func ParseClientToken(secret, tokenString string) (*ClientTokenClaims, error) {
	claims := &ClientTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse client token: %w", err)
	}
	return claims, nil
}

func (c *ClientTokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// RequireScope guards a route with a bearer client token carrying the
// given scope.
func RequireScope(secret, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := ParseClientToken(secret, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !claims.HasScope(scope) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient scope")
			}

			c.Set("claims", claims)
			return next(c)
		}
	}
}
