package middleware_test

import (
	"dogwalking/config"
	infraJWT "dogwalking/infras/jwt"
	otelMocks "dogwalking/infras/otel/mocks"
	"dogwalking/permissions"
	"dogwalking/shared/apikey"
	"dogwalking/shared/constant"
	"dogwalking/transport/http/middleware"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "middleware-secret"
	apiKey = "internal-key"
)

func token(t *testing.T, userID, role string) string {
	t.Helper()

	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, infraJWT.Claims{
		UserID:  userID,
		Role:    role,
		TokenID: "token-1",
		Type:    infraJWT.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

// newRouter mounts two routes behind the auth chain; handlers echo the caller.
func newRouter(t *testing.T) http.Handler {
	t.Helper()

	hash, err := apikey.Hash(apiKey)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKeyHash = hash

	perms := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/bookings/{id}", Method: http.MethodGet, Permissions: []string{constant.RoleUser, constant.RoleAdmin, constant.RoleInternal}},
		{Path: "/v1/ledger/sweep", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin, constant.RoleInternal}},
	}}

	auth := middleware.NewAuthRoleMiddleware(infraJWT.New(cfg), otelMocks.NewOtel(), perms, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "%s/%s", r.Context().Value(constant.ContextKeyUserID), r.Context().Value(constant.ContextKeyUserRole))
	}

	r := chi.NewRouter()
	r.Route("/v1", func(g chi.Router) {
		g.Use(auth.APIKey, auth.Auth, auth.RBAC)
		g.Get("/bookings/{id}", echo)
		g.Post("/ledger/sweep", echo)
	})

	return r
}

func TestAuthRole(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		wantCode int
		wantBody string
		wantKind string
	}{
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			wantCode: http.StatusUnauthorized,
			wantKind: "unauthenticated",
		},
		{
			name:     "garbage token",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer nope"},
			wantCode: http.StatusUnauthorized,
			wantKind: "unauthenticated",
		},
		{
			name:     "user reads booking",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token(t, "owner-1", "")},
			wantCode: http.StatusOK,
			wantBody: "owner-1/user",
		},
		{
			name:     "user cannot sweep",
			method:   http.MethodPost,
			path:     "/v1/ledger/sweep",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token(t, "owner-1", constant.RoleUser)},
			wantCode: http.StatusForbidden,
			wantKind: "unauthorized_actor",
		},
		{
			name:     "admin sweeps",
			method:   http.MethodPost,
			path:     "/v1/ledger/sweep",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token(t, "ops-1", constant.RoleAdmin)},
			wantCode: http.StatusOK,
			wantBody: "ops-1/admin",
		},
		{
			name:     "internal key acts for named user",
			method:   http.MethodPost,
			path:     "/v1/ledger/sweep",
			headers:  map[string]string{constant.RequestHeaderAPIKey: apiKey, constant.RequestHeaderActorID: "walker-9"},
			wantCode: http.StatusOK,
			wantBody: "walker-9/internal",
		},
		{
			name:     "internal key defaults to system",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{constant.RequestHeaderAPIKey: apiKey},
			wantCode: http.StatusOK,
			wantBody: "system/internal",
		},
		{
			name:     "wrong internal key",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
			wantKind: "unauthorized_actor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}

			if tt.wantKind != "" {
				var body struct {
					Kind string `json:"kind"`
				}

				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantKind, body.Kind)
			}
		})
	}
}
