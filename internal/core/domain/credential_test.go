package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredential_Valid(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cred     *Credential
		expected bool
	}{
		{name: "nil", cred: nil, expected: false},
		{name: "no access token", cred: &Credential{Expiry: now.Add(time.Hour)}, expected: false},
		{name: "fresh", cred: &Credential{AccessToken: "a", Expiry: now.Add(time.Hour)}, expected: true},
		{name: "within skew", cred: &Credential{AccessToken: "a", Expiry: now.Add(30 * time.Second)}, expected: false},
		{name: "expired", cred: &Credential{AccessToken: "a", Expiry: now.Add(-time.Minute)}, expected: false},
		{name: "no expiry and nothing to refresh with", cred: &Credential{AccessToken: "a"}, expected: true},
		{name: "no expiry with refresh token", cred: &Credential{AccessToken: "a", RefreshToken: "r"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cred.Valid(now, time.Minute))
		})
	}
}

func TestCredential_Equal(t *testing.T) {
	exp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := &Credential{AccessToken: "a", RefreshToken: "r", Expiry: exp, Account: "x@y"}
	b := &Credential{AccessToken: "a", RefreshToken: "r", Expiry: exp.In(time.Local), Account: "x@y"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(&Credential{AccessToken: "other", Expiry: exp, Account: "x@y"}))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Credential)(nil).Equal(nil))
}
