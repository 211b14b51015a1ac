package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/checker"
	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	var instanceID string
	var at int
	format := formatText

	cmd := &cobra.Command{
		Use:   "tasks [log]",
		Short: "Show the tasks as the solver had them at a point in time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app, instanceID, args)
			if err != nil {
				return err
			}
			moveCursor(cmd, sess, at)

			tasks := sess.Tasks()
			if format != formatText {
				return writeEncoded(cmd.OutOrStdout(), format, tasks)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatTasks(tasks, sess.CurrentTime()))
			cursor := sess.CurrentTime()
			fmt.Fprint(out, "\n"+formatter.RenderGantt(formatter.BarsFromTasks(tasks), formatter.GanttOptions{
				Horizon: sess.Problem().TimeHorizon,
				Cursor:  &cursor,
				Width:   60,
			}))
			if e, ok := sess.LatestEvent(); ok {
				fmt.Fprintln(out, "\n"+formatter.FormatEvent(e))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().IntVar(&at, "at", 0, "Replay time (default: end of log)")
	cmd.Flags().Var(newFormatValue(&format), "format", "Output format: text, json or yaml")

	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	var instanceID string
	var at int
	var layout bool

	cmd := &cobra.Command{
		Use:   "tree [log]",
		Short: "Show the solver's search tree at a point in time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd.Context(), app, instanceID, args)
			if err != nil {
				return err
			}
			moveCursor(cmd, sess, at)

			tree := sess.Tree()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(fmt.Sprintf("Search tree at t=%d", sess.CurrentTime())))
			fmt.Fprint(out, formatter.RenderSearchTree(tree, formatter.TreeOptions{ShowPositions: layout}))
			fmt.Fprintf(out, "\n%s %s\n", formatter.Dim("Path:"), formatter.FormatPath(tree))
			fmt.Fprintf(out, "%s %d  %s %d\n",
				formatter.Dim("Nodes:"), tree.Len(), formatter.Dim("Max level:"), tree.MaxDecisionLevel)
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().IntVar(&at, "at", 0, "Replay time (default: end of log)")
	cmd.Flags().BoolVar(&layout, "layout", false, "Show computed node coordinates")

	return cmd
}

func newUsageCmd(app *App) *cobra.Command {
	var instanceID, schedulePath string
	var resource int

	cmd := &cobra.Command{
		Use:   "usage [log]",
		Short: "Plot resource usage over time for a schedule",
		Long: "Plot per-time-unit resource usage. The solver's optimal schedule is used\n" +
			"unless --schedule names a file of task timings.",
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

			resources := problem.Resources
			if cmd.Flags().Changed("resource") {
				if resource < 0 || resource >= len(resources) {
					return fmt.Errorf("resource %d out of range [0,%d)", resource, len(resources))
				}
				resources = []domain.Resource{resources[resource]}
			}

			blocks := make([]string, len(resources))
			for i, r := range resources {
				blocks[i] = formatter.FormatUsage(r, checker.ResourceProfile(schedule, problem, r.Index))
			}
			fmt.Fprint(cmd.OutOrStdout(), strings.Join(blocks, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "Schedule file (JSON or YAML) to plot instead of the optimum")
	cmd.Flags().IntVar(&resource, "resource", 0, "Only plot this resource index")

	return cmd
}
