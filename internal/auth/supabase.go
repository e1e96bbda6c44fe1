package auth

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/terra-clan/learnpath/internal/models"
)

// GoTrueIdentifier asks the Supabase auth server who owns a token
type GoTrueIdentifier struct {
	client *supabase.Client
}

// NewGoTrueIdentifier creates an identifier for the project at url
func NewGoTrueIdentifier(url, anonKey string) (*GoTrueIdentifier, error) {
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &GoTrueIdentifier{client: client}, nil
}

// Identify implements Identifier
func (g *GoTrueIdentifier) Identify(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	resp, err := g.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return userFromMetadata(resp.ID.String(), resp.Email, resp.UserMetadata, resp.AppMetadata), nil
}

// SignOut revokes the session behind token
func (g *GoTrueIdentifier) SignOut(_ context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	if err := g.client.Auth.WithToken(token).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}
