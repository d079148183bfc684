package jwt_test

import (
	"dogwalking/config"
	infraJWT "dogwalking/infras/jwt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-access-secret"

func sign(t *testing.T, claims infraJWT.Claims, key string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return token
}

func validClaims(expiresIn time.Duration) infraJWT.Claims {
	now := time.Now()

	return infraJWT.Claims{
		UserID:  "walker-1",
		Role:    "user",
		TokenID: "token-1",
		Type:    infraJWT.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func TestValidateToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	svc := infraJWT.New(cfg)

	wrongType := validClaims(time.Hour)
	wrongType.Type = "refresh"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: sign(t, validClaims(time.Hour), secret)},
		{name: "expired token", token: sign(t, validClaims(-time.Hour), secret), wantErr: infraJWT.ErrExpiredToken},
		{name: "wrong secret", token: sign(t, validClaims(time.Hour), "other"), wantErr: infraJWT.ErrInvalidToken},
		{name: "wrong token type", token: sign(t, wrongType, secret), wantErr: infraJWT.ErrInvalidClaim},
		{name: "garbage", token: "not-a-jwt", wantErr: infraJWT.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "walker-1", claims.UserID)
			assert.Equal(t, "user", claims.Role)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: infraJWT.ErrMissingHeader},
		{name: "basic auth", header: "Basic dXNlcg==", wantErr: infraJWT.ErrMalformed},
		{name: "bearer without token", header: "Bearer ", wantErr: infraJWT.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := infraJWT.ExtractTokenFromHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
