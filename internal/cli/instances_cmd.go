package cli

import (
	"fmt"

	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newInstancesCmd(app *App) *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List the problem instances in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalog == "" {
				catalog = app.Config.Catalog
			}
			instances, err := app.Catalog.List(cmd.Context(), catalog)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInstances(instances))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog file (default from config)")

	return cmd
}
