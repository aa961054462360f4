package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GraphBaseURL is the Microsoft Graph API base URL.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// UserInfo contains the user's basic profile information from Microsoft Graph.
type UserInfo struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// ProfileClient fetches the signed-in user's profile.
type ProfileClient struct {
	BaseURL    string
	HTTPClient *http.Client

	limiter *RateLimiter
}

// NewProfileClient creates a profile client for the given Graph base URL.
// An empty baseURL selects GraphBaseURL.
func NewProfileClient(baseURL string, httpClient *http.Client) *ProfileClient {
	if baseURL == "" {
		baseURL = GraphBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ProfileClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		limiter:    NewRateLimiterWithConfig(ServiceDirectory, DefaultRateLimits[ServiceDirectory]),
	}
}

// GetUserInfo fetches the user's profile information using an access token.
func (p *ProfileClient) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	url := p.BaseURL + "/me?$select=id,displayName,mail,userPrincipalName"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if IsRateLimited(resp.StatusCode) && p.limiter != nil {
		p.limiter.RecordRateLimitError(RetryAfterSeconds(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed: %w", NewHTTPError(resp))
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &userInfo, nil
}

// AccountIdentifier returns the user's email, used to key cached credentials.
func (p *ProfileClient) AccountIdentifier(ctx context.Context, accessToken string) (string, error) {
	info, err := p.GetUserInfo(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return info.GetUserEmail(), nil
}

// GetUserEmail returns the user's email address.
// Falls back to userPrincipalName if mail is not set.
func (u *UserInfo) GetUserEmail() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}
