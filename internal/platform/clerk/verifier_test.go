package clerk

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/platform/config"
)

// testKeys はテスト用のRSA鍵ペアとPEM形式の公開鍵を生成します。
func testKeys(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return priv, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// signToken はclaimsをRS256で署名します。
func signToken(t *testing.T, priv *rsa.PrivateKey, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(priv)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":       "user_123",
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
		"exp":       now.Add(time.Minute).Unix(),
		"azp":       "https://app.example.com",
		"name":      "Ada Lovelace",
		"email":     "ada@example.com",
		"image_url": "https://img.example.com/ada.png",
	}
}

func TestVerifier_Verify_Success(t *testing.T) {
	priv, pubPEM := testKeys(t)
	v, err := NewVerifier(config.ClerkConfig{JWTKey: pubPEM, AuthorizedParties: []string{"https://app.example.com"}})
	require.NoError(t, err)
	require.True(t, v.Configured())

	claims, err := v.Verify(signToken(t, priv, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserID())
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "https://img.example.com/ada.png", claims.ImageURL)
	assert.Empty(t, claims.OrganizationID())
}

func TestVerifier_Verify_OrganizationClaims(t *testing.T) {
	priv, pubPEM := testKeys(t)
	v, err := NewVerifier(config.ClerkConfig{JWTKey: pubPEM})
	require.NoError(t, err)

	tests := []struct {
		name     string
		extra    jwt.MapClaims
		expected string
	}{
		{name: "v1 org_id claim", extra: jwt.MapClaims{"org_id": "org_v1"}, expected: "org_v1"},
		{name: "v2 compact claim", extra: jwt.MapClaims{"o": map[string]any{"id": "org_v2", "rol": "admin"}}, expected: "org_v2"},
		{name: "org_id wins", extra: jwt.MapClaims{"org_id": "org_v1", "o": map[string]any{"id": "org_v2"}}, expected: "org_v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := validClaims()
			for k, val := range tt.extra {
				mc[k] = val
			}

			claims, err := v.Verify(signToken(t, priv, mc))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, claims.OrganizationID())
		})
	}
}

func TestVerifier_Verify_Rejects(t *testing.T) {
	priv, pubPEM := testKeys(t)
	otherPriv, _ := testKeys(t)
	v, err := NewVerifier(config.ClerkConfig{JWTKey: pubPEM, AuthorizedParties: []string{"https://app.example.com"}})
	require.NoError(t, err)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	notYet := validClaims()
	notYet["nbf"] = time.Now().Add(time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	noSub := validClaims()
	delete(noSub, "sub")

	badParty := validClaims()
	badParty["azp"] = "https://evil.example.com"

	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "signed by another key", token: signToken(t, otherPriv, validClaims())},
		{name: "expired", token: signToken(t, priv, expired)},
		{name: "not yet valid", token: signToken(t, priv, notYet)},
		{name: "missing exp", token: signToken(t, priv, noExp)},
		{name: "missing subject", token: signToken(t, priv, noSub)},
		{name: "unauthorized party", token: signToken(t, priv, badParty)},
		{name: "HMAC algorithm", token: hmacToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(tt.token)

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestVerifier_Verify_LeewayToleratesSmallSkew(t *testing.T) {
	priv, pubPEM := testKeys(t)
	v, err := NewVerifier(config.ClerkConfig{JWTKey: pubPEM})
	require.NoError(t, err)

	mc := validClaims()
	mc["exp"] = time.Now().Add(-2 * time.Second).Unix()

	_, err = v.Verify(signToken(t, priv, mc))
	assert.NoError(t, err)
}

func TestNewVerifier(t *testing.T) {
	_, pubPEM := testKeys(t)

	t.Run("empty key yields an unconfigured verifier", func(t *testing.T) {
		v, err := NewVerifier(config.ClerkConfig{})
		require.NoError(t, err)
		assert.False(t, v.Configured())

		_, err = v.Verify("anything")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("escaped newlines are accepted", func(t *testing.T) {
		oneLine := strings.ReplaceAll(strings.TrimSpace(pubPEM), "\n", `\n`)
		v, err := NewVerifier(config.ClerkConfig{JWTKey: oneLine})
		require.NoError(t, err)
		assert.True(t, v.Configured())
	})

	t.Run("malformed key", func(t *testing.T) {
		_, err := NewVerifier(config.ClerkConfig{JWTKey: "-----BEGIN PUBLIC KEY-----\nnope\n-----END PUBLIC KEY-----"})
		assert.Error(t, err)
	})
}
