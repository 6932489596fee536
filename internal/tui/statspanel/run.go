package statspanel

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the panel until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}
