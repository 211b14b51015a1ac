package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/schedtrace/internal/cli/formatter"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/service"
	"github.com/spf13/cobra"
)

func newGameCmd(app *App) *cobra.Command {
	var instanceID string

	cmd := &cobra.Command{
		Use:   "game",
		Short: "Schedule the problem yourself and compare against the solver",
	}
	cmd.PersistentFlags().StringVar(&instanceID, "instance", "", "Catalog instance to use instead of a log path")

	cmd.AddCommand(
		newGameStartCmd(app, &instanceID),
		newGameMoveCmd(app, &instanceID),
		newGameEditCmd(app, &instanceID),
		newGameResetCmd(app, &instanceID),
		newGameStatusCmd(app, &instanceID),
		newGameListCmd(app),
		newGameAbandonCmd(app, &instanceID),
	)
	return cmd
}

func printGame(cmd *cobra.Command, view *service.GameView) {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGame(view.Game, view.Session, view.Rejected))
}

func newGameStartCmd(app *App, instanceID *string) *cobra.Command {
	var policy domain.EditPolicy

	cmd := &cobra.Command{
		Use:   "start [log]",
		Short: "Start a game on a log, or resume the saved one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := resolveLog(cmd.Context(), app, *instanceID, args)
			if err != nil {
				return err
			}
			view, err := app.Games.Start(cmd.Context(), service.StartGameRequest{
				LogPath:    target.Path,
				InstanceID: target.instanceID(),
				Policy:     policy,
			})
			if err != nil {
				return err
			}
			printGame(cmd, view)
			return nil
		},
	}

	cmd.Flags().Var(newPolicyValue(&policy), "policy", "Edit policy: learning or strict (default from config)")

	return cmd
}

func newGameMoveCmd(app *App, instanceID *string) *cobra.Command {
	var end int

	cmd := &cobra.Command{
		Use:   "move [log] <task> <start>",
		Short: "Move a task to a new start time",
		Long:  "Move a task to a new start time. The task keeps its duration unless --end is given.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, rest, err := resolveLog(cmd.Context(), app, *instanceID, args)
			if err != nil {
				return err
			}
			if len(rest) != 2 {
				return errors.New("expected <task> <start>")
			}
			start, err := strconv.Atoi(rest[1])
			if err != nil {
				return fmt.Errorf("start %q: not an integer", rest[1])
			}

			req := service.MoveRequest{LogPath: target.Path, TaskID: rest[0], Start: start}
			if cmd.Flags().Changed("end") {
				req.End = &end
			}
			view, err := app.Games.Move(cmd.Context(), req)
			if err != nil {
				return err
			}
			printGame(cmd, view)
			return nil
		},
	}

	cmd.Flags().IntVar(&end, "end", 0, "Explicit end time")

	return cmd
}

func newGameEditCmd(app *App, instanceID *string) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit [log]",
		Short: "Set several task start times at once",
		Long: "Set task timings with repeated --set id=start or id=start:end. With no --set on\n" +
			"an interactive terminal, a form asks for every task's start time.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target, _, err := resolveLog(ctx, app, *instanceID, args)
			if err != nil {
				return err
			}

			var edits []service.TaskEdit
			if len(sets) > 0 {
				current, err := app.Games.Status(ctx, target.Path)
				if err != nil {
					return err
				}
				if edits, err = parseSets(sets, current.Session.Problem()); err != nil {
					return err
				}
			} else {
				if !app.IsInteractive() {
					return errors.New("nothing to edit: pass --set id=start or run in a terminal")
				}
				current, err := app.Games.Status(ctx, target.Path)
				if err != nil {
					return err
				}
				fields := newEditFields(current.Session)
				if err := editForm(fields).Run(); err != nil {
					return err
				}
				if edits, err = editsFromFields(fields); err != nil {
					return err
				}
			}
			if len(edits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No changes."))
				return nil
			}

			view, err := app.Games.Edit(ctx, target.Path, edits)
			if err != nil {
				return err
			}
			printGame(cmd, view)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Task timing as id=start or id=start:end (repeatable)")

	return cmd
}

func newGameResetCmd(app *App, instanceID *string) *cobra.Command {
	mode := domain.ResetClear

	cmd := &cobra.Command{
		Use:   "reset [log]",
		Short: "Clear the schedule or revert to the last valid one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := resolveLog(cmd.Context(), app, *instanceID, args)
			if err != nil {
				return err
			}
			view, err := app.Games.Reset(cmd.Context(), target.Path, mode)
			if err != nil {
				return err
			}
			printGame(cmd, view)
			return nil
		},
	}

	cmd.Flags().Var(newResetModeValue(&mode), "mode", "Reset mode: clear or revert")

	return cmd
}

func newGameStatusCmd(app *App, instanceID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status [log]",
		Short: "Show the saved game for a log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := resolveLog(cmd.Context(), app, *instanceID, args)
			if err != nil {
				return err
			}
			view, err := app.Games.Status(cmd.Context(), target.Path)
			if err != nil {
				return err
			}
			printGame(cmd, view)
			return nil
		},
	}
}

func newGameListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved games, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := app.Games.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGameList(games))
			return nil
		},
	}
}

func newGameAbandonCmd(app *App, instanceID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon [log]",
		Short: "Delete the saved game for a log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := resolveLog(cmd.Context(), app, *instanceID, args)
			if err != nil {
				return err
			}
			if err := app.Games.Abandon(cmd.Context(), target.Path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ Game abandoned"))
			return nil
		},
	}
}
