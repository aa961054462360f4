package auth

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// cacheVersion is bumped when the serialized layout changes incompatibly.
const cacheVersion = 1

// Cache holds credentials keyed by account and tracks whether its state
// changed since it was last loaded or persisted.
type Cache struct {
	mu      sync.Mutex
	creds   map[string]domain.Credential
	current string
	changed bool
}

// cacheBlob is the serialized form of a Cache.
type cacheBlob struct {
	Version  int                 `json:"version"`
	Current  string              `json:"current,omitempty"`
	Accounts []domain.Credential `json:"accounts"`
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{creds: make(map[string]domain.Credential)}
}

// Deserialize replaces the cache contents with a serialized blob.
// An empty blob yields an empty cache. The state is marked unchanged.
func (c *Cache) Deserialize(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds = make(map[string]domain.Credential)
	c.current = ""
	c.changed = false
	if len(data) == 0 {
		return nil
	}

	var blob cacheBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("decode token cache: %w", err)
	}
	if blob.Version > cacheVersion {
		return fmt.Errorf("decode token cache: unsupported version %d", blob.Version)
	}
	for _, cred := range blob.Accounts {
		c.creds[cred.Account] = cred
	}
	if _, ok := c.creds[blob.Current]; ok {
		c.current = blob.Current
	}
	return nil
}

// Serialize renders the cache as an opaque blob. Output is deterministic.
func (c *Cache) Serialize() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blob := cacheBlob{Version: cacheVersion, Current: c.current}
	for _, account := range c.sortedAccounts() {
		blob.Accounts = append(blob.Accounts, c.creds[account])
	}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode token cache: %w", err)
	}
	return data, nil
}

// HasStateChanged reports whether the cache differs from its last loaded or
// persisted state.
func (c *Cache) HasStateChanged() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changed
}

// MarkPersisted clears the changed flag after a successful write.
func (c *Cache) MarkPersisted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changed = false
}

// Accounts lists cached accounts, the current account first.
func (c *Cache) Accounts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	accounts := c.sortedAccounts()
	if c.current == "" {
		return accounts
	}
	out := make([]string, 0, len(accounts))
	out = append(out, c.current)
	for _, a := range accounts {
		if a != c.current {
			out = append(out, a)
		}
	}
	return out
}

// Get returns a copy of an account's credential.
func (c *Cache) Get(account string) (domain.Credential, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cred, ok := c.creds[account]
	return cred, ok
}

// Put stores a credential and makes its account current.
// The state only changes if the stored value differs.
func (c *Cache) Put(cred domain.Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.creds[cred.Account]; !ok || !old.Equal(&cred) {
		c.creds[cred.Account] = cred
		c.changed = true
	}
	if c.current != cred.Account {
		c.current = cred.Account
		c.changed = true
	}
}

// Remove deletes an account. Returns false if it was not cached.
func (c *Cache) Remove(account string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.creds[account]; !ok {
		return false
	}
	delete(c.creds, account)
	if c.current == account {
		c.current = ""
	}
	c.changed = true
	return true
}

func (c *Cache) sortedAccounts() []string {
	accounts := make([]string, 0, len(c.creds))
	for a := range c.creds {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts
}
