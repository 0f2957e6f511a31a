package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccessTokenCookie is the cookie carrying the access token. When both the
// cookie and the Authorization header are present, the cookie wins.
const AccessTokenCookie = "accessToken"

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// AuthMiddleware validates access tokens and binds the authenticated principal
// to the request context.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenSvc service.TokenService
	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenSvc,
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

// extractToken returns the access token from the request, preferring the
// cookie over the Authorization header.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}

// Authenticate rejects unauthenticated requests. Every failure mode, from a
// missing token to a deleted account, produces the same 401 so callers cannot
// probe which check failed.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := m.resolvePrincipal(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		}

		deliverycontext.SetCurrentUser(c, user)

		return next(c)
	}
}

// AuthenticateOptional binds the principal when a valid token is presented but
// lets anonymous requests through. Used by public endpoints whose responses
// vary with the viewer.
func (m *AuthMiddleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, ok := m.resolvePrincipal(c); ok {
			deliverycontext.SetCurrentUser(c, user)
		}

		return next(c)
	}
}

// resolvePrincipal validates the presented token and loads its owner. The
// returned user is sanitized; token claims beyond the user ID are never
// trusted over the stored record.
func (m *AuthMiddleware) resolvePrincipal(c echo.Context) (*entity.User, bool) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, false
	}

	claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		m.logger.Debug("Access token rejected", slog.Any("error", err))

		return nil, false
	}

	account, err := m.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		m.logger.Debug("Access token owner not found", slog.Any("userID", claims.UserID))

		return nil, false
	}

	return account.Sanitized(), true
}
