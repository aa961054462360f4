package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve notebook tools over the Model Context Protocol (stdio)",
	Long: `Run an MCP server on stdin/stdout exposing list_notebooks, list_sections,
list_pages, get_page, append_to_page and patch_page.

Sign in with 'onenote auth login' first; the server cannot show a device code
to the MCP client.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcp.NewServer(svc, version).Run(ctx)
}
