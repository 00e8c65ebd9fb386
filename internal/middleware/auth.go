package middleware

import (
	"net/http"

	"storefront/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const claimsKey = "claims"

// JWTCustomClaims are the claims issued by the identity provider.
type JWTCustomClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	IsStaff    bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// NewJWTConfig validates bearer tokens with keyFunc when set (JWKS), and
// with the shared HMAC secret otherwise.
func NewJWTConfig(secret string, keyFunc jwt.Keyfunc) echojwt.Config {
	cfg := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorizedError(c)
		},
		SuccessHandler: identityFromToken,
	}
	if keyFunc != nil {
		cfg.KeyFunc = keyFunc
	} else {
		cfg.SigningKey = []byte(secret)
	}
	return cfg
}

// identityFromToken copies the verified subject and staff flag onto the
// request context.
func identityFromToken(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}
	c.Set(claimsKey, claims)
	c.SetRequest(c.Request().WithContext(common.WithIdentity(c.Request().Context(), userID, claims.IsStaff)))
}

// RequireIdentity rejects requests whose token carried no usable subject.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.GetUserIDFromContext(c.Request().Context()); !ok {
				return common.SendUnauthorizedError(c)
			}
			return next(c)
		}
	}
}

func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.GetUserIDFromContext(c.Request().Context()); !ok {
				return common.SendUnauthorizedError(c)
			}
			if !common.IsStaffFromContext(c.Request().Context()) {
				return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Staff access required", nil))
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(c echo.Context) (*JWTCustomClaims, bool) {
	claims, ok := c.Get(claimsKey).(*JWTCustomClaims)
	return claims, ok
}
