package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/schedtrace/internal/db"
	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/repository"
	"github.com/alexanderramin/schedtrace/internal/session"
	"github.com/alexanderramin/schedtrace/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

type testServices struct {
	traces   TraceService
	games    GameService
	findings *bytes.Buffer
	observer *recordingObserver
	repo     repository.GameRepo
}

func newTestServices(t *testing.T, uow db.UnitOfWork, opts ...session.Option) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	if uow == nil {
		uow = testutil.NewTestUoW(database)
	} else if f, ok := uow.(*testutil.FailingUoW); ok {
		f.DB = database
	}

	findings := &bytes.Buffer{}
	observer := &recordingObserver{}
	repo := repository.NewSQLiteGameRepo(database)
	traces := NewTraceService(opts, slog.New(slog.NewTextHandler(findings, nil)), observer)
	return &testServices{
		traces:   traces,
		games:    NewGameService(repo, uow, traces, observer),
		findings: findings,
		observer: observer,
		repo:     repo,
	}
}

func projectLog(t *testing.T) string {
	t.Helper()
	return testutil.WriteEventFile(t, testutil.SoftwareProjectEvents())
}

func intPtr(v int) *int { return &v }

func optimal(t *testing.T, s *session.Session) domain.Schedule {
	t.Helper()
	return s.Problem().OptimalSchedule.Clone()
}
