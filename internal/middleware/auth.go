package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymdesk/internal/models"
	"gymdesk/internal/scope"
)

// Context keys set by RequireAuth.
const (
	ContextOwner = "owner"
	ContextScope = "scope"
)

// Claims carried by an access token.
type Claims struct {
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for an owner.
func IssueToken(o models.Owner, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:    o.Username,
		IsSuperuser: o.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(o.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ownerFromSubject(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// RequireAuth returns a middleware that verifies bearer tokens, resolves
// the owner row and attaches both the owner and its query scope to the
// request context.
func RequireAuth(db *gorm.DB, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			var claims Claims
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ownerID, err := ownerFromSubject(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// Resolve the owner fresh so revoked accounts and superuser
			// changes take effect without waiting for token expiry.
			var owner models.Owner
			if err := db.First(&owner, ownerID).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextOwner, owner)
			c.Set(ContextScope, scope.ForPrincipal(owner))

			return next(c)
		}
	}
}
