package auth

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		Email:        "ada@example.com",
		Role:         "authenticated",
		UserMetadata: map[string]any{"full_name": "Ada Lovelace", "avatar_url": "https://cdn.example.com/ada.png"},
		AppMetadata:  map[string]any{"provider": "github"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "8f14e45f-ceea-467f-a8f7-5e7e1a0c2b11",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestJWTVerifier_Identify(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, "authenticated")
	require.NoError(t, err)

	user, err := v.Identify(context.Background(), sign(t, testSecret, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "8f14e45f-ceea-467f-a8f7-5e7e1a0c2b11", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, "https://cdn.example.com/ada.png", user.AvatarURL)
	assert.Equal(t, "github", user.Provider)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, "authenticated")
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noSubject := validClaims()
	noSubject.Subject = ""

	_, err = v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.Verify(sign(t, testSecret, expired))
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = v.Verify(sign(t, "another-secret-another-secret-another", validClaims()))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(sign(t, testSecret, noExpiry))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(sign(t, testSecret, wrongAudience))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(sign(t, testSecret, noSubject))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier("", "")
	assert.Error(t, err)
}

func TestUserFromMetadata_FallsBackToEmail(t *testing.T) {
	u := userFromMetadata("id-1", "grace@example.com", nil, nil)
	assert.Equal(t, "grace", u.DisplayName)
	assert.Empty(t, u.Provider)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", BearerToken(r))

	r.Header.Set("Authorization", "abc.def.ghi")
	assert.Empty(t, BearerToken(r))
}

func TestSignInURLBuilder(t *testing.T) {
	b := NewSignInURLBuilder("https://proj.supabase.co/", "https://app.example.com/dashboard")

	raw, err := b.URL("GitHub")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "proj.supabase.co", u.Host)
	assert.Equal(t, "/auth/v1/authorize", u.Path)
	assert.Equal(t, "github", u.Query().Get("provider"))
	assert.Equal(t, "https://app.example.com/dashboard", u.Query().Get("redirect_to"))

	_, err = b.URL("myspace")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestStaticClients(t *testing.T) {
	clients := StaticClients([]string{
		"editor:key-editor-123",
		"reader:key-reader-456:roadmaps:read",
		"broken",
		"empty:",
	})

	require.Len(t, clients, 2)
	assert.Equal(t, "editor", clients[0].Name)
	assert.True(t, clients[0].HasPermission("roadmaps:write"))
	assert.True(t, clients[1].HasPermission("roadmaps:read"))
	assert.False(t, clients[1].HasPermission("roadmaps:write"))
}
