package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui"
)

// runBrowser starts the interactive browser. Tests replace it.
var runBrowser = tui.Run

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse notebooks, sections and pages interactively",
	Long: `Open an interactive browser.

Select a notebook, then a section, then a page to read its cleaned content.
Press n in a section's page list to create a page, esc to go back and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBrowser(ctx, svc)
}
