package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

var pageCmd = &cobra.Command{
	Use:     "page",
	Aliases: []string{"pages"},
	Short:   "Read and edit pages",
	Long: `Read and edit OneNote pages.

Edits are sent as a single PATCH guarded by the page's current ETag. If the
page changed since it was read, the edit is rejected and nothing is applied.

Element IDs for replace-element, delete-element and insert come from
'onenote page show <page> --ids'.`,
}

var pageShowCmd = &cobra.Command{
	Use:   "show [page-id]",
	Short: "Print page HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

var pageInfoCmd = &cobra.Command{
	Use:   "info [page-id]",
	Short: "Print page metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageInfo,
}

var pageCreateCmd = &cobra.Command{
	Use:   "create [section-id]",
	Short: "Create a page in a section",
	Example: `  onenote page create 0-ABC --title "Standup" --content "<p>Notes</p>"
  onenote page create 0-ABC --title "Plan" --file plan.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPageCreate,
}

var pageAppendCmd = &cobra.Command{
	Use:   "append [page-id]",
	Short: "Append content to the end of the page body",
	Args:  cobra.ExactArgs(1),
	RunE:  runBodyEdit(domain.ActionAppend),
}

var pagePrependCmd = &cobra.Command{
	Use:   "prepend [page-id]",
	Short: "Insert content at the start of the page body",
	Args:  cobra.ExactArgs(1),
	RunE:  runBodyEdit(domain.ActionPrepend),
}

var pageReplaceBodyCmd = &cobra.Command{
	Use:   "replace-body [page-id]",
	Short: "Replace the entire page body",
	Args:  cobra.ExactArgs(1),
	RunE:  runBodyEdit(domain.ActionReplace),
}

var pageRenameCmd = &cobra.Command{
	Use:   "rename [page-id] [title]",
	Short: "Replace the page title",
	Args:  cobra.ExactArgs(2),
	RunE:  runPageRename,
}

var pageReplaceElementCmd = &cobra.Command{
	Use:   "replace-element [page-id] [element-id]",
	Short: "Replace one element of a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplaceElement,
}

var pageDeleteElementCmd = &cobra.Command{
	Use:   "delete-element [page-id] [element-id]",
	Short: "Delete one element of a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteElement,
}

var pageInsertCmd = &cobra.Command{
	Use:   "insert [page-id] [element-id]",
	Short: "Insert content before or after an element",
	Args:  cobra.ExactArgs(2),
	RunE:  runInsert,
}

var pagePatchCmd = &cobra.Command{
	Use:   "patch [page-id]",
	Short: "Apply a JSON list of patch operations",
	Long: `Apply a list of patch operations as one request.

The file holds a JSON array of objects with target, action and, depending on
the action, position and content:

  [
    {"target": "body", "action": "append", "content": "<p>Done</p>"},
    {"target": "#p:{6cb59116-8e54-4060-b8a3-3b5e8c7e4b40}{62}", "action": "delete"}
  ]

Operations are applied in order. If any is rejected, none are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete [page-id]",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageDelete,
}

// Flags for page commands.
var (
	showIDs       bool
	showClean     bool
	pageTitle     string
	contentFile   string
	contentText   string
	contentFormat string
	insertPos     string
	opsFile       string
	confirmDelete bool
)

func init() {
	pageShowCmd.Flags().BoolVar(&showIDs, "ids", false, "include element IDs usable as patch targets")
	pageShowCmd.Flags().BoolVar(&showClean, "clean", false, "strip scripts and apply readable inline styles")

	pageCreateCmd.Flags().StringVar(&pageTitle, "title", "", "page title (required)")
	_ = pageCreateCmd.MarkFlagRequired("title")

	for _, c := range []*cobra.Command{
		pageCreateCmd, pageAppendCmd, pagePrependCmd, pageReplaceBodyCmd, pageReplaceElementCmd, pageInsertCmd,
	} {
		c.Flags().StringVarP(&contentFile, "file", "f", "", "read content from a file ('-' for stdin)")
		c.Flags().StringVarP(&contentText, "content", "c", "", "content given inline")
		c.Flags().StringVar(&contentFormat, "format", "",
			"content format: html, markdown or text (default: from file extension, else html)")
	}

	pageInsertCmd.Flags().StringVar(&insertPos, "position", string(domain.PositionAfter), "before or after")
	pagePatchCmd.Flags().StringVar(&opsFile, "ops", "", "JSON file of operations ('-' for stdin)")
	_ = pagePatchCmd.MarkFlagRequired("ops")
	pageDeleteCmd.Flags().BoolVar(&confirmDelete, "yes", false, "confirm deletion")

	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageShowCmd)
	pageCmd.AddCommand(pageInfoCmd)
	pageCmd.AddCommand(pageCreateCmd)
	pageCmd.AddCommand(pageAppendCmd)
	pageCmd.AddCommand(pagePrependCmd)
	pageCmd.AddCommand(pageReplaceBodyCmd)
	pageCmd.AddCommand(pageRenameCmd)
	pageCmd.AddCommand(pageReplaceElementCmd)
	pageCmd.AddCommand(pageDeleteElementCmd)
	pageCmd.AddCommand(pageInsertCmd)
	pageCmd.AddCommand(pagePatchCmd)
	pageCmd.AddCommand(pageDeleteCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageShow(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	content, err := svc.ShowPage(context.Background(), args[0], driving.ShowOptions{
		IncludeIDs: showIDs,
		Sanitize:   showClean,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
	return err
}

func runPageInfo(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	page, err := svc.GetPage(context.Background(), args[0])
	if err != nil {
		return err
	}
	return renderJSON(cmd.OutOrStdout(), page)
}

func runPageCreate(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	body, format, err := readContent(cmd)
	if err != nil {
		return err
	}
	page, err := svc.CreatePage(context.Background(), args[0], pageTitle, body, format)
	if err != nil {
		return err
	}
	cmd.Printf("Created page %s\n", page.ID)
	if url := page.Links.WebURL(); url != "" {
		cmd.Printf("  %s\n", url)
	}
	return nil
}

func runBodyEdit(action domain.PatchAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := notesSvc()
		if err != nil {
			return err
		}
		fragment, format, err := readContent(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		var res *domain.PatchResult
		switch action {
		case domain.ActionAppend:
			res, err = svc.AppendToBody(ctx, args[0], fragment, format)
		case domain.ActionPrepend:
			res, err = svc.PrependToBody(ctx, args[0], fragment, format)
		default:
			res, err = svc.ReplaceBody(ctx, args[0], fragment, format)
		}
		if err != nil {
			return err
		}
		printPatchResult(cmd, args[0], res)
		return nil
	}
}

func runPageRename(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	res, err := svc.ReplaceTitle(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	printPatchResult(cmd, args[0], res)
	return nil
}

func runReplaceElement(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	fragment, format, err := readContent(cmd)
	if err != nil {
		return err
	}
	res, err := svc.ReplaceElement(context.Background(), args[0], args[1], fragment, format)
	if err != nil {
		return err
	}
	printPatchResult(cmd, args[0], res)
	return nil
}

func runDeleteElement(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	res, err := svc.DeleteElement(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	printPatchResult(cmd, args[0], res)
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	// Reject a bad position before reading any input.
	if _, err := domain.ParsePosition(insertPos); err != nil {
		return err
	}
	fragment, format, err := readContent(cmd)
	if err != nil {
		return err
	}
	res, err := svc.InsertHTML(context.Background(), args[0], args[1], fragment, format, insertPos)
	if err != nil {
		return err
	}
	printPatchResult(cmd, args[0], res)
	return nil
}

func runPatch(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	data, err := readInput(cmd, opsFile)
	if err != nil {
		return err
	}
	ops, err := domain.DecodeOperations(data)
	if err != nil {
		return err
	}
	res, err := svc.ApplyOperations(context.Background(), args[0], ops)
	if err != nil {
		return err
	}
	printPatchResult(cmd, args[0], res)
	return nil
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	if !confirmDelete {
		return errors.New("refusing to delete without --yes")
	}
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	if err := svc.DeletePage(context.Background(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted page %s\n", args[0])
	return nil
}

func printPatchResult(cmd *cobra.Command, pageID string, res *domain.PatchResult) {
	if res != nil && res.ETag != "" {
		cmd.Printf("Updated page %s (etag %s)\n", pageID, res.ETag)
		return
	}
	cmd.Printf("Updated page %s\n", pageID)
}

// readContent returns the content given by --file or --content and the
// format it should be converted from.
func readContent(cmd *cobra.Command) ([]byte, string, error) {
	switch {
	case contentFile != "" && contentText != "":
		return nil, "", errors.New("use either --file or --content, not both")
	case contentText != "":
		return []byte(contentText), contentFormat, nil
	case contentFile != "":
		data, err := readInput(cmd, contentFile)
		if err != nil {
			return nil, "", err
		}
		format := contentFormat
		if format == "" {
			format = formatFromExtension(contentFile)
		}
		return data, format, nil
	default:
		return nil, "", errors.New("content required: use --file or --content")
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".txt", ".text":
		return "text"
	default:
		return ""
	}
}
