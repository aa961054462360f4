package driven

import (
	"context"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// TokenProvider supplies a valid bearer token on demand.
// Implementations never return an expired token.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// CredentialStore persists the opaque token cache blob.
type CredentialStore interface {
	// Load returns the stored blob, or nil when nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, blob []byte) error
}

// DevicePrompter presents a device code to the user.
// It must not block; the token manager polls after it returns.
type DevicePrompter interface {
	Prompt(ctx context.Context, code domain.DeviceCode) error
}

// DevicePrompterFunc adapts a function to DevicePrompter.
type DevicePrompterFunc func(ctx context.Context, code domain.DeviceCode) error

// Prompt calls f.
func (f DevicePrompterFunc) Prompt(ctx context.Context, code domain.DeviceCode) error {
	return f(ctx, code)
}
