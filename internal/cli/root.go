// Package cli implements the schedtrace command tree and the playback TUI.
package cli

import (
	"github.com/alexanderramin/schedtrace/internal/config"
	"github.com/alexanderramin/schedtrace/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Traces  service.TraceService
	Catalog service.CatalogService
	Games   service.GameService
	Config  config.Config

	// IsInteractive reports whether stdin is a terminal. Forms are only
	// offered when it returns true.
	IsInteractive func() bool
	// RunProgram runs a bubbletea model to completion. Tests replace it to
	// drive the model synchronously.
	RunProgram func(m tea.Model) (tea.Model, error)
}

// ConfigFlag is the persistent flag naming an explicit config file. main
// reads it before the services exist; the root command declares it so
// cobra accepts it.
const ConfigFlag = "config"

// NewRootCmd creates the top-level "schedtrace" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.IsInteractive == nil {
		app.IsInteractive = func() bool { return false }
	}
	if app.RunProgram == nil {
		app.RunProgram = func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen()).Run()
		}
	}

	root := &cobra.Command{
		Use:           "schedtrace",
		Short:         "Replay and check RCPSP solver event logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(ConfigFlag, "", "config file (default .schedtrace.yaml)")

	root.AddCommand(
		newInstancesCmd(app),
		newProblemCmd(app),
		newTasksCmd(app),
		newTreeCmd(app),
		newUsageCmd(app),
		newValidateCmd(app),
		newGameCmd(app),
		newPlayCmd(app),
	)

	return root
}
