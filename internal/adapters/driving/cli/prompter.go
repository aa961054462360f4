package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

// Ensure DevicePrompter implements the interface.
var _ driven.DevicePrompter = (*DevicePrompter)(nil)

var (
	promptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
	promptCodeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptURLStyle  = lipgloss.NewStyle().Underline(true)
)

// DevicePrompter prints the device-code sign-in instructions.
// Styling is only applied when the output is a terminal.
type DevicePrompter struct {
	out   io.Writer
	color bool
	now   func() time.Time
}

// NewDevicePrompter creates a prompter writing to out.
func NewDevicePrompter(out io.Writer) *DevicePrompter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &DevicePrompter{out: out, color: color, now: time.Now}
}

// Prompt shows where to go and which code to enter.
func (p *DevicePrompter) Prompt(_ context.Context, code domain.DeviceCode) error {
	uri := code.VerificationURI
	if uri == "" {
		uri = code.VerificationURIComplete
	}

	lines := fmt.Sprintf("To sign in, open %s\nand enter the code %s",
		p.style(promptURLStyle, uri), p.style(promptCodeStyle, code.UserCode))
	if !code.Expiry.IsZero() {
		remaining := code.Expiry.Sub(p.now()).Round(time.Minute)
		if remaining > 0 {
			lines += fmt.Sprintf("\nThe code expires in %s.", remaining)
		}
	}
	if p.color {
		lines = promptBoxStyle.Render(lines)
	}

	_, err := fmt.Fprintln(p.out, lines)
	return err
}

func (p *DevicePrompter) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
