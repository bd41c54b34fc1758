package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "truckrecruit/internal/errors"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/model"
)

const contextKey = "user"

// Identity is the authenticated caller.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
	// TokenID is the access token's jti, used for logout.
	TokenID string
	Claims  *Claims
}

// JWTMiddleware verifies bearer tokens and stores *jwt.Token under "user".
func JWTMiddleware(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: jwtService.Secret(),
		ContextKey: contextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized()
		},
	})
}

// RejectRevoked refuses access tokens blacklisted at logout and attaches the user ID to the
// request context for logging.
func RejectRevoked(store TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := CurrentUser(c)
			if err != nil {
				return unauthorized()
			}
			ctx := c.Request().Context()
			if revoked, _ := store.IsAccessTokenBlacklisted(ctx, id.TokenID); revoked {
				return unauthorized()
			}
			ctx = logger.WithUserID(ctx, id.ID.String())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole allows only the listed roles through.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := CurrentUser(c)
			if err != nil {
				return unauthorized()
			}
			for _, r := range roles {
				if id.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.ErrForbidden.Error(),
				Code:  "FORBIDDEN",
			})
		}
	}
}

// CurrentUser reads the identity placed in the context by JWTMiddleware.
func CurrentUser(c echo.Context) (*Identity, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return &Identity{
		ID:      userID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
		Claims:  claims,
	}, nil
}

// SetCurrentUser stores claims the way JWTMiddleware does. Tests use it to skip signing.
func SetCurrentUser(c echo.Context, claims *Claims) {
	c.Set(contextKey, &jwt.Token{Claims: claims, Valid: true})
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrNotAuthenticated.Error(),
		Code:  "NOT_AUTHENTICATED",
	})
}
