package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/view"
)

type ServiceAPI interface {
	List(ctx context.Context, q view.Query) ([]Role, error)
	Create(ctx context.Context, dto CreateRoleDTO) (Role, error)
	Update(ctx context.Context, id string, dto UpdateRoleDTO) (Role, error)
	Delete(ctx context.Context, id string) error
	GetPermissions(ctx context.Context, id string) ([]string, error)
	UpdatePermissions(ctx context.Context, id string, dto PermissionsDTO) (Role, error)
	Catalogue() []Permission
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Register(r *transport.Router) {
	r.Get("/roles", h.ListRoles)
	r.Post("/roles", h.CreateRole)
	r.Put("/roles/:id", h.UpdateRole)
	r.Delete("/roles/:id", h.DeleteRole)
	r.Get("/roles/:id/permissions", h.GetPermissions)
	r.Put("/roles/:id/permissions", h.UpdatePermissions)
	r.Get("/permissions", h.ListCatalogue)
}

// ListRoles handles GET /roles
func (h *Handler) ListRoles(ctx context.Context, req transport.Request) transport.Response {
	// roles carry no status, so the filter could only ever match nothing
	if req.Query.Has("status") {
		return h.Fail(internal.NewValidationFieldError("status", "roles cannot be filtered by status", internal.ErrCodeInvalidQuery))
	}

	q, err := view.ParseQuery(req.Query, SortableFields)
	if err != nil {
		return h.Fail(err)
	}

	roles, err := h.Service.List(ctx, q)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, RolesResponse{Roles: roles})
}

// CreateRole handles POST /roles
func (h *Handler) CreateRole(ctx context.Context, req transport.Request) transport.Response {
	var dto CreateRoleDTO
	if err := req.Decode(&dto); err != nil {
		return h.Fail(err)
	}

	created, err := h.Service.Create(ctx, dto)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusCreated, created)
}

// UpdateRole handles PUT /roles/:id
func (h *Handler) UpdateRole(ctx context.Context, req transport.Request) transport.Response {
	var dto UpdateRoleDTO
	if err := req.Decode(&dto); err != nil {
		return h.Fail(err)
	}

	updated, err := h.Service.Update(ctx, req.Param("id"), dto)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, updated)
}

// DeleteRole handles DELETE /roles/:id
func (h *Handler) DeleteRole(ctx context.Context, req transport.Request) transport.Response {
	if err := h.Service.Delete(ctx, req.Param("id")); err != nil {
		return h.Fail(err)
	}
	return h.NoContent()
}

// GetPermissions handles GET /roles/:id/permissions
func (h *Handler) GetPermissions(ctx context.Context, req transport.Request) transport.Response {
	perms, err := h.Service.GetPermissions(ctx, req.Param("id"))
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, PermissionsResponse{Permissions: perms})
}

// UpdatePermissions handles PUT /roles/:id/permissions
func (h *Handler) UpdatePermissions(ctx context.Context, req transport.Request) transport.Response {
	var dto PermissionsDTO
	if err := req.Decode(&dto); err != nil {
		return h.Fail(err)
	}

	updated, err := h.Service.UpdatePermissions(ctx, req.Param("id"), dto)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, updated)
}

// ListCatalogue handles GET /permissions
func (h *Handler) ListCatalogue(_ context.Context, _ transport.Request) transport.Response {
	return h.JSON(http.StatusOK, CatalogueResponse{Permissions: h.Service.Catalogue()})
}
