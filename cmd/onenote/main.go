package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/onenote-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft/onenote"
	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
	"github.com/custodia-labs/onenote-cli/internal/core/services"
	"github.com/custodia-labs/onenote-cli/internal/logger"
	"github.com/custodia-labs/onenote-cli/internal/normalisers"
	"github.com/custodia-labs/onenote-cli/internal/normalisers/html"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	var closers []func() error
	defer func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("shutdown: %v", err)
			}
		}
	}()

	cli.SetServiceLoader(func(configPath string) (*cli.Services, error) {
		svc, closer, err := buildServices(configPath)
		if closer != nil {
			closers = append(closers, closer)
		}
		return svc, err
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// buildServices wires settings, credential storage, the token manager and the
// Graph client into the services the CLI drives.
func buildServices(configPath string) (*cli.Services, func() error, error) {
	ctx := context.Background()

	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := configStore.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Auth.ClientID == "" {
		return nil, nil, fmt.Errorf("no client_id configured: set [auth] client_id in %s or %s (%s)",
			configStore.Path(), file.EnvClientID, microsoft.NewOAuthHandler().SetupHint())
	}

	store, closer, err := openCredentialStore(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	oauthCfg := microsoft.NewOAuthHandler().Config(cfg.Auth.ClientID, cfg.Auth.Tenant, cfg.Auth.Authority, cfg.Auth.Scopes)
	tokens, err := auth.NewTokenManager(ctx, auth.NewOAuthProvider(oauthCfg), store, cli.NewDevicePrompter(os.Stderr))
	if err != nil {
		return nil, closer, err
	}

	httpClient := &http.Client{Timeout: cfg.Graph.Timeout.Duration}
	graphRoot := strings.TrimSuffix(strings.TrimRight(cfg.Graph.BaseURL, "/"), "/me/onenote")
	tokens.SetAccountResolver(microsoft.NewProfileClient(graphRoot, httpClient).AccountIdentifier)

	client := onenote.New(&onenote.Config{
		BaseURL:    cfg.Graph.BaseURL,
		HTTPClient: httpClient,
		RateLimit: microsoft.RateLimitConfig{
			RequestsPerSecond: cfg.Graph.RequestsPerSecond,
			BurstSize:         cfg.Graph.Burst,
		},
	}, tokens)

	notes := services.NewNotesService(client, html.NewSanitizer(), normalisers.NewRegistry())
	logger.Debug("config: %s, token cache: %s", configStore.Path(), cfg.Cache.Backend)

	return &cli.Services{Notes: notes, Auth: tokens}, closer, nil
}

func openCredentialStore(cfg file.CacheConfig) (driven.CredentialStore, func() error, error) {
	switch cfg.Backend {
	case domain.CacheBackendSQLite:
		path := cfg.Path
		if path == "" {
			dir, err := file.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			path = filepath.Join(dir, "token_cache.db")
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open token cache: %w", err)
		}
		return store, store.Close, nil
	default:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = storagefile.DefaultPath(); err != nil {
				return nil, nil, err
			}
		}
		return storagefile.NewCredentialStore(path), nil, nil
	}
}
