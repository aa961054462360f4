package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var notebookCmd = &cobra.Command{
	Use:     "notebook",
	Aliases: []string{"notebooks", "nb"},
	Short:   "Browse notebooks",
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notebooks",
	Args:  cobra.NoArgs,
	RunE:  runNotebookList,
}

var sectionCmd = &cobra.Command{
	Use:     "section",
	Aliases: []string{"sections"},
	Short:   "Browse sections",
}

var sectionListCmd = &cobra.Command{
	Use:   "list [notebook-id]",
	Short: "List the sections of a notebook",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionList,
}

var pageListCmd = &cobra.Command{
	Use:   "list [section-id]",
	Short: "List the pages of a section",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageList,
}

// outputJSON switches list commands to JSON output.
var outputJSON bool

func init() {
	for _, c := range []*cobra.Command{notebookListCmd, sectionListCmd, pageListCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	}
	notebookCmd.AddCommand(notebookListCmd)
	sectionCmd.AddCommand(sectionListCmd)
	rootCmd.AddCommand(notebookCmd)
	rootCmd.AddCommand(sectionCmd)
}

func runNotebookList(cmd *cobra.Command, _ []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	notebooks, err := svc.ListNotebooks(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return renderJSON(out, notebooks)
	}
	if len(notebooks) == 0 {
		cmd.Println("No notebooks found.")
		return nil
	}
	rows := make([][]string, 0, len(notebooks))
	for _, nb := range notebooks {
		rows = append(rows, []string{nb.ID, nb.DisplayName, formatTime(nb.LastModifiedDateTime)})
	}
	return renderTable(out, []string{"ID", "NAME", "MODIFIED"}, rows)
}

func runSectionList(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	sections, err := svc.ListSections(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return renderJSON(out, sections)
	}
	if len(sections) == 0 {
		cmd.Println("No sections found.")
		return nil
	}
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []string{s.ID, s.DisplayName, formatTime(s.LastModifiedDateTime)})
	}
	return renderTable(out, []string{"ID", "NAME", "MODIFIED"}, rows)
}

func runPageList(cmd *cobra.Command, args []string) error {
	svc, err := notesSvc()
	if err != nil {
		return err
	}
	pages, err := svc.ListPages(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return renderJSON(out, pages)
	}
	if len(pages) == 0 {
		cmd.Println("No pages found.")
		return nil
	}
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{p.ID, p.Title, formatTime(p.LastModifiedDateTime)})
	}
	return renderTable(out, []string{"ID", "TITLE", "MODIFIED"}, rows)
}
