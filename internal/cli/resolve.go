package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoLog = errors.New("an event log path or --instance is required")

// logTarget is the event log a command operates on.
type logTarget struct {
	Path     string
	Instance *domain.Instance
}

// resolveLog takes the log from --instance when set, otherwise from the
// first positional argument. It returns the remaining arguments.
func resolveLog(ctx context.Context, app *App, instanceID string, args []string) (logTarget, []string, error) {
	if instanceID != "" {
		inst, err := app.Catalog.Resolve(ctx, app.Config.Catalog, instanceID)
		if err != nil {
			return logTarget{}, nil, err
		}
		return logTarget{Path: inst.File, Instance: inst}, args, nil
	}
	if len(args) == 0 {
		return logTarget{}, nil, errNoLog
	}
	return logTarget{Path: args[0]}, args[1:], nil
}

func (l logTarget) instanceID() string {
	if l.Instance == nil {
		return ""
	}
	return l.Instance.ID
}

func loadTarget(ctx context.Context, app *App, l logTarget) (*session.Session, error) {
	if l.Instance != nil {
		return app.Traces.LoadInstance(ctx, *l.Instance)
	}
	return app.Traces.Load(ctx, l.Path)
}

// openSession resolves and loads the log in one step.
func openSession(ctx context.Context, app *App, instanceID string, args []string) (*session.Session, []string, error) {
	target, rest, err := resolveLog(ctx, app, instanceID, args)
	if err != nil {
		return nil, nil, err
	}
	sess, err := loadTarget(ctx, app, target)
	if err != nil {
		return nil, nil, err
	}
	return sess, rest, nil
}

// moveCursor applies --at, defaulting to the end of the log.
func moveCursor(cmd *cobra.Command, sess *session.Session, at int) {
	if cmd.Flags().Changed("at") {
		sess.SetCurrentTime(at)
		return
	}
	sess.SetCurrentTime(sess.MaxTime())
}

// loadSchedule reads a schedule file mapping task ids to {start, end}.
// YAML is a superset of JSON, so both formats decode the same way.
func loadSchedule(path string) (domain.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	var s domain.Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schedule %s: %w", path, err)
	}
	if s == nil {
		s = domain.Schedule{}
	}
	return s, nil
}

func writeEncoded(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}
