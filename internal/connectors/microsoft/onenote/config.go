package onenote

import (
	"net/http"
	"time"

	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
)

// DefaultBaseURL is the OneNote root for the signed-in user.
const DefaultBaseURL = microsoft.GraphBaseURL + "/me/onenote"

// DefaultTimeout bounds a single Graph request.
const DefaultTimeout = 60 * time.Second

// Config holds Graph client configuration.
type Config struct {
	// BaseURL is the OneNote API root. Relative request paths are joined to it.
	BaseURL string
	// HTTPClient performs requests. Nil selects a client with DefaultTimeout.
	HTTPClient *http.Client
	// RateLimit throttles outgoing requests. A zero rate disables throttling.
	RateLimit microsoft.RateLimitConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		RateLimit: microsoft.DefaultRateLimits[microsoft.ServiceOneNote],
	}
}
