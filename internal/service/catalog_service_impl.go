package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/eventlog"
)

type catalogService struct {
	observer UseCaseObserver
}

func NewCatalogService(observers ...UseCaseObserver) CatalogService {
	return &catalogService{observer: useCaseObserverOrNoop(observers)}
}

func (s *catalogService) List(ctx context.Context, catalogPath string) (instances []domain.Instance, err error) {
	fields := map[string]any{"catalog": catalogPath}
	defer observe(ctx, s.observer, "list-instances", time.Now().UTC(), fields, &err)

	instances, err = eventlog.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	fields["instances"] = len(instances)
	return instances, nil
}

func (s *catalogService) Resolve(ctx context.Context, catalogPath, id string) (*domain.Instance, error) {
	instances, err := s.List(ctx, catalogPath)
	if err != nil {
		return nil, err
	}
	for i := range instances {
		if instances[i].ID == id {
			return &instances[i], nil
		}
	}
	return nil, fmt.Errorf("instance %q: %w", id, ErrUnknownInstance)
}
