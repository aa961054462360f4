package domain

import "time"

// Credential is a cached OAuth token for a single account.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Account      string    `json:"account"`
}

// Valid reports whether the access token is usable at now, treating tokens
// that expire within skew as already expired. A token without an expiry is
// only trusted when there is no refresh token to renew it with.
func (c *Credential) Valid(now time.Time, skew time.Duration) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return c.RefreshToken == ""
	}
	return now.Add(skew).Before(c.Expiry)
}

// Equal reports whether two credentials carry the same token state.
func (c *Credential) Equal(o *Credential) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.AccessToken == o.AccessToken &&
		c.RefreshToken == o.RefreshToken &&
		c.TokenType == o.TokenType &&
		c.Expiry.Equal(o.Expiry) &&
		c.Account == o.Account
}

// DeviceCode is the pair shown to the user during the device-code flow.
type DeviceCode struct {
	VerificationURI         string
	VerificationURIComplete string
	UserCode                string
	Expiry                  time.Time
}
