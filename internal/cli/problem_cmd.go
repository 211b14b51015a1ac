package cli

import (
	"fmt"

	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProblemCmd(app *App) *cobra.Command {
	var instanceID string
	format := formatText

	cmd := &cobra.Command{
		Use:   "problem [log]",
		Short: "Show the problem reconstructed from an event log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app, instanceID, args)
			if err != nil {
				return err
			}
			if format != formatText {
				return writeEncoded(cmd.OutOrStdout(), format, sess.Problem())
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProblem(sess.Problem()))
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().Var(newFormatValue(&format), "format", "Output format: text, json or yaml")

	return cmd
}
