package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider is the identity provider surface the token manager needs.
type Provider interface {
	// DeviceAuth starts a device-code flow.
	DeviceAuth(ctx context.Context) (*oauth2.DeviceAuthResponse, error)
	// DeviceAccessToken polls until the user completes sign-in or the code expires.
	DeviceAccessToken(ctx context.Context, da *oauth2.DeviceAuthResponse) (*oauth2.Token, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// OAuthProvider implements Provider on an oauth2.Config.
type OAuthProvider struct {
	config *oauth2.Config
}

// NewOAuthProvider creates a provider for the given OAuth configuration.
func NewOAuthProvider(cfg *oauth2.Config) *OAuthProvider {
	return &OAuthProvider{config: cfg}
}

// DeviceAuth starts a device-code flow.
func (p *OAuthProvider) DeviceAuth(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	return p.config.DeviceAuth(ctx)
}

// DeviceAccessToken polls the token endpoint at the interval the server asked for.
func (p *OAuthProvider) DeviceAccessToken(
	ctx context.Context, da *oauth2.DeviceAuthResponse,
) (*oauth2.Token, error) {
	return p.config.DeviceAccessToken(ctx, da)
}

// Refresh exchanges a refresh token for a new access token.
func (p *OAuthProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}
