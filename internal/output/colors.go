package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Palette used across terminal output, matching the site accents.
var (
	ColorAccent = lipgloss.Color("#4EBFF5")
	ColorPulse  = lipgloss.Color("#61CEF7")
	ColorViolet = lipgloss.Color("#742BEE")
	ColorMuted  = lipgloss.Color("#B1CAF3")
	ColorWarn   = lipgloss.Color("3")
	ColorError  = lipgloss.Color("1")
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}

// ConfigureColor disables styling when stdout is not a terminal.
func ConfigureColor() {
	if !IsTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ColorCyan colors text with the accent color
func ColorCyan(text string) string {
	return lipgloss.NewStyle().Foreground(ColorAccent).Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return lipgloss.NewStyle().Foreground(ColorWarn).Render(text)
}

// ColorRed colors text red
func ColorRed(text string) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render(text)
}

// ColorDim renders secondary text
func ColorDim(text string) string {
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(text)
}

// Bold renders text in bold
func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}
