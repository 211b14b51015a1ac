package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/spf13/cobra"
)

var errInfeasible = errors.New("schedule violates constraints")

func newValidateCmd(app *App) *cobra.Command {
	var instanceID, schedulePath string
	format := formatText

	cmd := &cobra.Command{
		Use:   "validate [log]",
		Short: "Check a schedule against the problem in an event log",
		Long: "Check precedence, resource capacity and timing rules. The solver's optimal\n" +
			"schedule is checked unless --schedule names a file of task timings.\n" +
			"Exits non-zero when any rule is violated.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app, instanceID, args)
			if err != nil {
				return err
			}
			problem := sess.Problem()
			schedule := problem.OptimalSchedule
			if schedulePath != "" {
				if schedule, err = loadSchedule(schedulePath); err != nil {
					return err
				}
			}

			violations := checker.Validate(schedule, problem)
			out := cmd.OutOrStdout()
			if format != formatText {
				if violations == nil {
					violations = []domain.ConstraintViolation{}
				}
				if err := writeEncoded(out, format, violations); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, formatter.FormatViolations(violations))
				fmt.Fprintf(out, "%s %d %s %d\n",
					formatter.Dim("makespan"), checker.Makespan(schedule),
					formatter.Dim("/ optimal"), problem.OptimalMakespan)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%w: %d finding(s)", errInfeasible, len(violations))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "Schedule file (JSON or YAML) to check instead of the optimum")
	cmd.Flags().Var(newFormatValue(&format), "format", "Output format: text, json or yaml")

	return cmd
}
