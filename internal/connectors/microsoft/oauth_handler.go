package microsoft

import (
	"strings"

	"golang.org/x/oauth2"
	msendpoint "golang.org/x/oauth2/microsoft"
)

// OAuthDefaults describes the default endpoints and scopes for a public client.
type OAuthDefaults struct {
	AuthURL       string
	DeviceAuthURL string
	TokenURL      string
	Scopes        []string
}

// OAuthHandler builds OAuth configuration for the Microsoft identity platform.
// Only public-client flows are used, so no client secret is ever sent.
type OAuthHandler struct{}

// NewOAuthHandler creates a new Microsoft OAuth handler.
func NewOAuthHandler() *OAuthHandler {
	return &OAuthHandler{}
}

// Endpoint returns the OAuth endpoint for a tenant.
// A non-empty authority (e.g. "https://login.microsoftonline.com/contoso")
// overrides the tenant, which is how sovereign clouds and tests are addressed.
func (h *OAuthHandler) Endpoint(tenant, authority string) oauth2.Endpoint {
	var ep oauth2.Endpoint
	if authority != "" {
		base := strings.TrimRight(authority, "/") + "/oauth2/v2.0"
		ep = oauth2.Endpoint{
			AuthURL:       base + "/authorize",
			DeviceAuthURL: base + "/devicecode",
			TokenURL:      base + "/token",
		}
	} else {
		if tenant == "" {
			tenant = defaultTenant
		}
		ep = msendpoint.AzureADEndpoint(tenant)
		if ep.DeviceAuthURL == "" {
			ep.DeviceAuthURL = strings.TrimSuffix(ep.TokenURL, "/token") + "/devicecode"
		}
	}
	ep.AuthStyle = oauth2.AuthStyleInParams
	return ep
}

// Config builds the oauth2 configuration for the device-code flow.
// Missing scopes fall back to defaultScopes; offline_access is always
// requested so a refresh token is issued.
func (h *OAuthHandler) Config(clientID, tenant, authority string, scopes []string) *oauth2.Config {
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	return &oauth2.Config{
		ClientID: clientID,
		Endpoint: h.Endpoint(tenant, authority),
		Scopes:   withOfflineAccess(scopes),
	}
}

// DefaultConfig returns default OAuth URLs and scopes for Microsoft.
func (h *OAuthHandler) DefaultConfig() OAuthDefaults {
	ep := h.Endpoint(defaultTenant, "")
	return OAuthDefaults{
		AuthURL:       ep.AuthURL,
		DeviceAuthURL: ep.DeviceAuthURL,
		TokenURL:      ep.TokenURL,
		Scopes:        defaultScopes,
	}
}

// SetupHint returns guidance for setting up a Microsoft OAuth app.
func (h *OAuthHandler) SetupHint() string {
	return "Register a public client at portal.azure.com > App registrations " +
		"and enable 'Allow public client flows'"
}

const defaultTenant = "common"

// defaultScopes are the default OAuth scopes for OneNote access.
var defaultScopes = []string{
	"offline_access",      // Required for refresh tokens
	"User.Read",           // Account identifier
	"Notes.ReadWrite.All", // Notebooks, sections, pages
}

func withOfflineAccess(scopes []string) []string {
	for _, s := range scopes {
		if s == "offline_access" {
			return scopes
		}
	}
	out := make([]string, 0, len(scopes)+1)
	out = append(out, scopes...)
	return append(out, "offline_access")
}
