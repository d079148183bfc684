package middleware

import (
	"context"
	"dogwalking/config"
	"dogwalking/infras/jwt"
	"dogwalking/infras/otel"
	"dogwalking/permissions"
	"dogwalking/shared/apikey"
	"dogwalking/shared/constant"
	"dogwalking/shared/failure"
	"dogwalking/transport/http/response"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if path == constant.Empty {
		return request.URL.Path
	}

	return path
}

// Auth validates the bearer token and puts the caller on the context.
// Requests already authenticated by APIKey pass through.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if skip, _ := ctx.Value(SkipAuthKey("skip")).(bool); skip {
			next.ServeHTTP(writer, request)

			return
		}

		path := routePattern(request)

		if m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			err = failure.Unauthorized(err.Error())
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Invalid token"
			}

			err = failure.Unauthorized(message)
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		role := claims.Role
		if role == constant.Empty {
			role = constant.RoleUser
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the caller's role against the embedded permission table.
// Requires prior authentication via Auth or APIKey.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if m.permission == nil {
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		permission := m.permission.FindPermissions(routePattern(request), request.Method)
		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !permission.Allows(userRole) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     userRole,
				"allowed_roles": strings.Join(permission.Permissions, ","),
				"reason":        "role_not_allowed",
			})
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey authenticates internal services. They act as the internal role and
// may name the user they act for in X-Actor-ID.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if err := apikey.Verify(key, m.cfg.App.APIKeyHash); err != nil {
			log.Warn().Err(err).Msg("rejected internal api key")
			scope.TraceError(err)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		actor := strings.TrimSpace(request.Header.Get(constant.RequestHeaderActorID))
		if actor == constant.Empty {
			actor = constant.ActorSystem
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleInternal)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
