package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/store"
	"github.com/frahmantamala/rbac-admin/internal/view"
)

type Service struct {
	store  *store.Store[User]
	events events.Publisher
	locale string
	logger *slog.Logger
}

func NewService(st *store.Store[User], publisher events.Publisher, locale string, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		events: publisher,
		locale: locale,
		logger: logger,
	}
}

func (s *Service) State() store.State[User] {
	return s.store.State()
}

func (s *Service) Subscribe(fn func(store.Transition[User])) func() {
	return s.store.Subscribe(fn)
}

func (s *Service) FetchAll(ctx context.Context) ([]User, error) {
	return s.store.FetchAll(ctx)
}

// List refreshes the store and returns the derived view for q.
func (s *Service) List(ctx context.Context, q view.Query) ([]User, error) {
	users, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if q.Locale == "" {
		q.Locale = s.locale
	}
	return view.Apply(users, q), nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (User, error) {
	if err := dto.Validate(); err != nil {
		return User{}, err
	}

	created, err := s.store.Create(ctx, dto.ToUser())
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		return User{}, err
	}

	s.logger.Info("user created", "user_id", created.ID, "role", created.Role)
	s.publish(ctx, events.ActionCreated, created.ID, map[string]interface{}{
		"name":   created.Name,
		"role":   created.Role,
		"status": created.Status,
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateUserDTO) (User, error) {
	if err := dto.Validate(); err != nil {
		return User{}, err
	}

	updated, err := s.store.Update(ctx, id, func(u *User) error {
		dto.Apply(u)
		return nil
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Info("user updated", "user_id", id, "fields", dto.Fields())
	s.publish(ctx, events.ActionUpdated, id, map[string]interface{}{
		"fields": dto.Fields(),
	})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	s.publish(ctx, events.ActionDeleted, id, nil)
	return nil
}

// Reset overwrites the collection, ids included.
func (s *Service) Reset(ctx context.Context, users []User) error {
	return s.store.Replace(ctx, users)
}

func (s *Service) publish(ctx context.Context, action, id string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	evt := events.NewEntityEvent(events.EntityUser, action, id, data)
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish user event", "event_type", evt.EventType(), "error", err)
	}
}
