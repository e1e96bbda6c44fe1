// Package auth resolves the signed-in user of a request and builds the
// provider sign-in redirects of the identity collaborator.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/terra-clan/learnpath/internal/models"
)

var (
	ErrMissingToken    = errors.New("missing authentication token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrUnknownProvider = errors.New("unknown sign-in provider")
)

// Identifier resolves an access token to a user
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.User, error)
}

// SessionEnder is implemented by identifiers that can revoke a session
type SessionEnder interface {
	SignOut(ctx context.Context, token string) error
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// userFromMetadata fills display fields from Supabase user_metadata
func userFromMetadata(id, email string, userMeta, appMeta map[string]any) *models.User {
	u := &models.User{ID: id, Email: email}

	for _, k := range []string{"full_name", "name", "user_name"} {
		if v, ok := userMeta[k].(string); ok && v != "" {
			u.DisplayName = v
			break
		}
	}
	if v, ok := userMeta["avatar_url"].(string); ok {
		u.AvatarURL = v
	}
	if v, ok := appMeta["provider"].(string); ok {
		u.Provider = v
	}
	if u.DisplayName == "" {
		u.DisplayName, _, _ = strings.Cut(email, "@")
	}

	return u
}
