package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/eventlog"
	"github.com/alexanderramin/schedtrace/internal/session"
)

type traceService struct {
	sessionOpts []session.Option
	logger      *slog.Logger
	observer    UseCaseObserver
}

// NewTraceService builds sessions with sessionOpts. Findings go to logger;
// a nil logger drops them.
func NewTraceService(sessionOpts []session.Option, logger *slog.Logger, observers ...UseCaseObserver) TraceService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &traceService{
		sessionOpts: sessionOpts,
		logger:      logger,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *traceService) Load(ctx context.Context, path string) (sess *session.Session, err error) {
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "load-trace", time.Now().UTC(), fields, &err)

	sess = session.New(s.sessionOpts...)
	if err := s.loadInto(ctx, sess, path, fields); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *traceService) LoadInstance(ctx context.Context, inst domain.Instance) (sess *session.Session, err error) {
	fields := map[string]any{"instance": inst.ID, "path": inst.File}
	defer observe(ctx, s.observer, "load-instance", time.Now().UTC(), fields, &err)

	sess = session.New(s.sessionOpts...)
	sess.SwitchInstance(inst)
	if err := s.loadInto(ctx, sess, inst.File, fields); err != nil {
		return nil, fmt.Errorf("instance %s: %w", inst.ID, err)
	}
	return sess, nil
}

func (s *traceService) loadInto(ctx context.Context, sess *session.Session, path string, fields map[string]any) error {
	file, err := eventlog.LoadEventFile(path)
	if err != nil {
		return fmt.Errorf("loading event log: %w", err)
	}

	findings := eventlog.ValidateEvents(file.Events)
	for _, f := range findings {
		s.logger.WarnContext(ctx, "event_log_finding", "path", path, "finding", f.Error())
	}
	sess.LoadEvents(file.Events)

	fields["events"] = len(file.Events)
	fields["findings"] = len(findings)
	fields["tasks"] = len(sess.Problem().Tasks)
	return nil
}
