package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configPath overrides the default settings file.
	configPath string

	// Services holds injected service implementations for CLI commands.
	notesService driving.NotesService
	authService  driving.AuthService

	// loader builds services on first use when none were injected.
	loader ServiceLoader
)

// Services holds configuration for CLI commands.
type Services struct {
	Notes driving.NotesService
	Auth  driving.AuthService
}

// ServiceLoader builds services from the settings file at path.
// An empty path selects the default location.
type ServiceLoader func(path string) (*Services, error)

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	notesService = s.Notes
	authService = s.Auth
}

// SetServiceLoader registers how services are built once flags are parsed.
func SetServiceLoader(l ServiceLoader) {
	loader = l
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "onenote",
	Short: "Read and edit Microsoft OneNote pages from the terminal",
	Long: `onenote browses notebooks, sections and pages through Microsoft Graph,
prints page HTML and applies partial page edits.

Every edit is sent with the page's current ETag, so a page that changed
since it was read is rejected rather than overwritten.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln(formatError(err))
	}
	return err
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.onenote/config.toml)")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}

// ensureServices builds services through the loader if none were injected.
func ensureServices() error {
	if notesService != nil && authService != nil {
		return nil
	}
	if loader == nil {
		return errors.New("services not configured")
	}
	s, err := loader(configPath)
	if err != nil {
		return err
	}
	if notesService == nil {
		notesService = s.Notes
	}
	if authService == nil {
		authService = s.Auth
	}
	if notesService == nil || authService == nil {
		return errors.New("services not configured")
	}
	return nil
}

func notesSvc() (driving.NotesService, error) {
	if err := ensureServices(); err != nil {
		return nil, err
	}
	return notesService, nil
}

func authSvc() (driving.AuthService, error) {
	if err := ensureServices(); err != nil {
		return nil, err
	}
	return authService, nil
}

// formatError adds guidance for errors the user can act on.
func formatError(err error) string {
	msg := "Error: " + err.Error()

	var authErr *domain.AuthError
	status := domain.StatusCode(err)
	switch {
	case errors.Is(err, microsoft.ErrPreconditionFailed), microsoft.IsPreconditionFailed(status):
		msg += "\nThe page changed since it was read. Run the command again to apply the edit to the latest version."
	case errors.Is(err, domain.ErrEtagUnavailable):
		msg += "\nThe page did not report a version tag, so the edit was not sent."
	case errors.Is(err, domain.ErrNotAuthenticated):
		msg += "\nRun 'onenote auth login' to sign in."
	case errors.As(err, &authErr):
		msg += "\nRun 'onenote auth login' to sign in again."
	case errors.Is(err, microsoft.ErrUnauthorised), microsoft.IsUnauthorised(status):
		msg += "\nThe access token was rejected. Run 'onenote auth login --force' to sign in again."
	case errors.Is(err, microsoft.ErrNotFound), microsoft.IsNotFound(status):
		msg += "\nThe notebook, section or page was not found. List them again to get current IDs."
	case errors.Is(err, microsoft.ErrRateLimited):
		msg += "\nMicrosoft Graph is throttling requests. Wait a moment and try again."
	}
	return msg
}
