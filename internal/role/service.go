package role

import (
	"context"
	"log/slog"
	"slices"

	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/store"
	"github.com/frahmantamala/rbac-admin/internal/view"
)

type Service struct {
	store  *store.Store[Role]
	events events.Publisher
	locale string
	logger *slog.Logger
}

func NewService(st *store.Store[Role], publisher events.Publisher, locale string, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		events: publisher,
		locale: locale,
		logger: logger,
	}
}

func (s *Service) State() store.State[Role] {
	return s.store.State()
}

func (s *Service) Subscribe(fn func(store.Transition[Role])) func() {
	return s.store.Subscribe(fn)
}

func (s *Service) FetchAll(ctx context.Context) ([]Role, error) {
	return s.store.FetchAll(ctx)
}

func (s *Service) List(ctx context.Context, q view.Query) ([]Role, error) {
	roles, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if q.Locale == "" {
		q.Locale = s.locale
	}
	return view.Apply(roles, q), nil
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (Role, error) {
	if err := dto.Validate(); err != nil {
		return Role{}, err
	}

	created, err := s.store.Create(ctx, dto.ToRole())
	if err != nil {
		s.logger.Error("failed to create role", "error", err)
		return Role{}, err
	}

	s.warnUnknown(created.ID, created.Permissions)
	s.logger.Info("role created", "role_id", created.ID, "name", created.Name)
	s.publish(ctx, events.ActionCreated, created.ID, map[string]interface{}{
		"name":        created.Name,
		"permissions": slices.Clone(created.Permissions),
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateRoleDTO) (Role, error) {
	if err := dto.Validate(); err != nil {
		return Role{}, err
	}

	updated, err := s.store.Update(ctx, id, func(r *Role) error {
		dto.Apply(r)
		return nil
	})
	if err != nil {
		return Role{}, err
	}

	s.logger.Info("role updated", "role_id", id, "fields", dto.Fields())
	s.publish(ctx, events.ActionUpdated, id, map[string]interface{}{
		"fields": dto.Fields(),
	})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("role deleted", "role_id", id)
	s.publish(ctx, events.ActionDeleted, id, nil)
	return nil
}

func (s *Service) GetPermissions(ctx context.Context, id string) ([]string, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Permissions == nil {
		return []string{}, nil
	}
	return r.Permissions, nil
}

// UpdatePermissions replaces the role's permission list; prior entries are
// discarded, never merged.
func (s *Service) UpdatePermissions(ctx context.Context, id string, dto PermissionsDTO) (Role, error) {
	if err := dto.Validate(); err != nil {
		return Role{}, err
	}
	perms := dto.List()

	var previous []string
	updated, err := s.store.Update(ctx, id, func(r *Role) error {
		previous = r.Permissions
		r.Permissions = perms
		return nil
	})
	if err != nil {
		return Role{}, err
	}

	s.warnUnknown(id, perms)
	s.logger.Info("role permissions replaced", "role_id", id, "count", len(perms))
	s.publish(ctx, events.ActionPermissionsUpdated, id, map[string]interface{}{
		"previous":    previous,
		"permissions": slices.Clone(perms),
	})
	return updated, nil
}

func (s *Service) Catalogue() []Permission {
	return Catalogue()
}

// Reset overwrites the collection, ids included.
func (s *Service) Reset(ctx context.Context, roles []Role) error {
	return s.store.Replace(ctx, roles)
}

func (s *Service) warnUnknown(id string, perms []string) {
	for _, p := range perms {
		if !IsKnownPermission(p) {
			s.logger.Warn("role carries a permission outside the catalogue", "role_id", id, "permission", p)
		}
	}
}

func (s *Service) publish(ctx context.Context, action, id string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	evt := events.NewEntityEvent(events.EntityRole, action, id, data)
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish role event", "event_type", evt.EventType(), "error", err)
	}
}
