package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

// Ensure TokenManager implements the interfaces.
var (
	_ driven.TokenProvider = (*TokenManager)(nil)
	_ driving.AuthService  = (*TokenManager)(nil)
)

// expirySkew treats tokens this close to expiry as already expired.
const expirySkew = time.Minute

// AccountResolver maps a fresh access token to an account identifier.
type AccountResolver func(ctx context.Context, accessToken string) (string, error)

// TokenManager supplies bearer tokens, signing in with the device-code flow
// when no cached account can be refreshed silently.
type TokenManager struct {
	mu             sync.Mutex
	provider       Provider
	store          driven.CredentialStore
	cache          *Cache
	prompter       driven.DevicePrompter
	resolveAccount AccountResolver
	now            func() time.Time
}

// NewTokenManager loads the cached credential state from store.
// A cache blob that cannot be decoded is discarded with a warning.
func NewTokenManager(
	ctx context.Context,
	provider Provider,
	store driven.CredentialStore,
	prompter driven.DevicePrompter,
) (*TokenManager, error) {
	blob, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token cache: %w", err)
	}

	cache := NewCache()
	if err := cache.Deserialize(blob); err != nil {
		logger.Warn("auth: ignoring unreadable token cache: %v", err)
		_ = cache.Deserialize(nil)
	}

	return &TokenManager{
		provider: provider,
		store:    store,
		cache:    cache,
		prompter: prompter,
		now:      time.Now,
	}, nil
}

// SetAccountResolver sets how the account identifier is derived after an
// interactive sign-in. Without one the account is left blank.
func (m *TokenManager) SetAccountResolver(r AccountResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolveAccount = r
}

// GetToken returns a valid access token.
// The cached account is tried silently first; otherwise the device-code flow runs.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.acquireSilent(ctx); ok {
		return token, nil
	}
	return m.acquireByDeviceFlow(ctx)
}

// Accounts lists cached accounts, the current one first.
func (m *TokenManager) Accounts() []string {
	return m.cache.Accounts()
}

// SignOut removes an account from the cache and persists the change.
func (m *TokenManager) SignOut(ctx context.Context, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cache.Remove(account) {
		return fmt.Errorf("account %q: %w", account, domain.ErrNotFound)
	}
	return m.persist(ctx)
}

// acquireSilent returns the cached token for the current account, refreshing
// it when expired. No user interaction happens here.
func (m *TokenManager) acquireSilent(ctx context.Context) (string, bool) {
	accounts := m.cache.Accounts()
	if len(accounts) == 0 {
		return "", false
	}
	account := accounts[0]
	cred, _ := m.cache.Get(account)

	if cred.Valid(m.now(), expirySkew) {
		m.persistOrWarn(ctx)
		return cred.AccessToken, true
	}
	if cred.RefreshToken == "" {
		logger.Debug("auth: cached token for %q expired and cannot be refreshed", account)
		return "", false
	}

	logger.Debug("auth: refreshing token for %q", account)
	tok, err := m.provider.Refresh(ctx, cred.RefreshToken)
	if err != nil || tok == nil || tok.AccessToken == "" {
		logger.Debug("auth: silent refresh for %q failed: %v", account, err)
		return "", false
	}

	refreshed := credentialFromToken(tok, account, cred.RefreshToken)
	m.cache.Put(refreshed)
	m.persistOrWarn(ctx)
	return refreshed.AccessToken, true
}

// acquireByDeviceFlow runs the interactive device-code flow.
func (m *TokenManager) acquireByDeviceFlow(ctx context.Context) (string, error) {
	da, err := m.provider.DeviceAuth(ctx)
	if err != nil {
		return "", &domain.AuthError{Op: "device flow initiation", Payload: providerPayload(err), Err: err}
	}
	if da == nil || da.UserCode == "" {
		return "", &domain.AuthError{Op: "device flow initiation", Payload: "response did not include a user_code"}
	}

	if m.prompter != nil {
		code := domain.DeviceCode{
			VerificationURI:         da.VerificationURI,
			VerificationURIComplete: da.VerificationURIComplete,
			UserCode:                da.UserCode,
			Expiry:                  da.Expiry,
		}
		if err := m.prompter.Prompt(ctx, code); err != nil {
			return "", &domain.AuthError{Op: "device flow prompt", Err: err}
		}
	}

	tok, err := m.provider.DeviceAccessToken(ctx, da)
	if err != nil {
		return "", &domain.AuthError{Op: "device flow", Payload: providerPayload(err), Err: err}
	}
	if tok == nil || tok.AccessToken == "" {
		return "", &domain.AuthError{Op: "device flow", Payload: "token response did not include an access_token"}
	}

	account := ""
	if m.resolveAccount != nil {
		account, err = m.resolveAccount(ctx, tok.AccessToken)
		if err != nil {
			logger.Warn("auth: could not resolve account identifier: %v", err)
			account = ""
		}
	}

	cred := credentialFromToken(tok, account, "")
	m.cache.Put(cred)
	if account != "" && m.cache.Remove("") {
		logger.Debug("auth: dropped unresolved account entry")
	}
	m.persistOrWarn(ctx)
	logger.Debug("auth: signed in as %q", account)
	return cred.AccessToken, nil
}

// persist writes the cache only when its state changed.
func (m *TokenManager) persist(ctx context.Context) error {
	if !m.cache.HasStateChanged() {
		return nil
	}
	blob, err := m.cache.Serialize()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, blob); err != nil {
		return fmt.Errorf("save token cache: %w", err)
	}
	m.cache.MarkPersisted()
	return nil
}

// persistOrWarn persists after a successful acquisition. A failed write does
// not invalidate the token just obtained.
func (m *TokenManager) persistOrWarn(ctx context.Context) {
	if err := m.persist(ctx); err != nil {
		logger.Warn("auth: %v", err)
	}
}

func credentialFromToken(tok *oauth2.Token, account, previousRefresh string) domain.Credential {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	return domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Account:      account,
	}
}

// providerPayload extracts the provider's diagnostic response body.
func providerPayload(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if len(re.Body) > 0 {
			return string(re.Body)
		}
		return re.ErrorCode
	}
	return ""
}
