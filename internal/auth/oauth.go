package auth

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Providers are the supported social sign-in providers
var Providers = []string{"google", "github", "discord"}

// SignInURLBuilder builds provider redirects to the Supabase authorize endpoint
type SignInURLBuilder struct {
	baseURL    string
	redirectTo string
}

// NewSignInURLBuilder creates a builder. redirectTo is where the provider
// returns the user after consent.
func NewSignInURLBuilder(supabaseURL, redirectTo string) *SignInURLBuilder {
	return &SignInURLBuilder{
		baseURL:    strings.TrimRight(supabaseURL, "/"),
		redirectTo: redirectTo,
	}
}

// URL returns the authorize URL for provider
func (b *SignInURLBuilder) URL(provider string) (string, error) {
	provider = strings.ToLower(provider)
	if !slices.Contains(Providers, provider) {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	q := url.Values{}
	q.Set("provider", provider)
	if b.redirectTo != "" {
		q.Set("redirect_to", b.redirectTo)
	}

	return b.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}
