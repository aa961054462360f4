// Package tui runs the interactive notebook browser on the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/views/browser"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

// Run shows the browser and blocks until the user quits or ctx is done.
// Extra options are applied after the defaults.
func Run(ctx context.Context, notes driving.NotesService, opts ...tea.ProgramOption) error {
	if notes == nil {
		return errors.New("tui: notes service is required")
	}

	view := browser.NewView(ctx, styles.DefaultStyles(), notes)
	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	if _, err := tea.NewProgram(view, options...).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
