package cli

import (
	"path/filepath"
	"time"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/alexanderramin/schedtrace/internal/watch"
	"github.com/spf13/cobra"
)

func newPlayCmd(app *App) *cobra.Command {
	var instanceID, view string
	var follow bool
	var speed int

	cmd := &cobra.Command{
		Use:   "play [log]",
		Short: "Replay an event log interactively",
		Long: "Replay an event log in the terminal. With --follow the log is reloaded\n" +
			"whenever the solver writes to it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target, _, err := resolveLog(ctx, app, instanceID, args)
			if err != nil {
				return err
			}
			sess, err := loadTarget(ctx, app, target)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("speed") {
				sess.SetPlaybackSpeed(speed)
			}
			if view != "" {
				if err := sess.SetViewMode(domain.ViewMode(view)); err != nil {
					return err
				}
			}

			opts := playOptions{
				Title: filepath.Base(target.Path),
				Tick:  time.Duration(app.Config.PlaybackTickMs) * time.Millisecond,
			}
			if target.Instance != nil {
				opts.Title = target.Instance.Name
			}

			if follow {
				w, err := watch.NewWatcher(target.Path)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				defer w.Stop()
				opts.Changes = w.Changes
				opts.Reload = func() (*session.Session, error) { return loadTarget(ctx, app, target) }
			}

			_, err = app.RunProgram(newPlayModel(sess, opts))
			return err
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance", "", "Catalog instance to load instead of a log path")
	cmd.Flags().BoolVar(&follow, "follow", false, "Reload the log when it changes on disk")
	cmd.Flags().IntVar(&speed, "speed", 1, "Time units advanced per tick (default from config)")
	cmd.Flags().StringVar(&view, "view", "", "Initial view: gantt, tree, both or game")

	return cmd
}
