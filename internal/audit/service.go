package audit

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Register subscribes the service to every event on bus.
func (s *Service) Register(bus *events.EventBus) {
	bus.Subscribe(events.AllEvents, s.HandleEvent)
}

func (s *Service) HandleEvent(ctx context.Context, evt events.Event) error {
	entry := Entry{
		ID:         evt.EventID(),
		EventType:  evt.EventType(),
		OccurredAt: evt.OccurredAt().UTC(),
	}

	if ee, ok := evt.(*events.EntityEvent); ok {
		entry.Entity = ee.Entity
		entry.EntityID = ee.EntityID
		entry.Action = ee.Action
		entry.Details = ee.Data
	} else {
		entry.Entity, entry.Action, _ = strings.Cut(evt.EventType(), ".")
		if data, ok := evt.Payload().(map[string]interface{}); ok {
			entry.Details = data
		}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry",
			"event_type", entry.EventType,
			"entity_id", entry.EntityID,
			"error", err)
		return internal.NewStorageError("failed to record audit entry", internal.ErrCodeStorageWrite, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		return nil, internal.NewStorageError("failed to list audit entries", internal.ErrCodeStorageRead, err)
	}
	return entries, nil
}
