package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/view"
)

type ServiceAPI interface {
	List(ctx context.Context, q view.Query) ([]User, error)
	Create(ctx context.Context, dto CreateUserDTO) (User, error)
	Update(ctx context.Context, id string, dto UpdateUserDTO) (User, error)
	Delete(ctx context.Context, id string) error
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
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Put("/users/:id", h.UpdateUser)
	r.Delete("/users/:id", h.DeleteUser)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(ctx context.Context, req transport.Request) transport.Response {
	q, err := view.ParseQuery(req.Query, SortableFields)
	if err != nil {
		return h.Fail(err)
	}

	users, err := h.Service.List(ctx, q)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, UsersResponse{Users: users})
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(ctx context.Context, req transport.Request) transport.Response {
	var dto CreateUserDTO
	if err := req.Decode(&dto); err != nil {
		return h.Fail(err)
	}

	created, err := h.Service.Create(ctx, dto)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusCreated, created)
}

// UpdateUser handles PUT /users/:id
func (h *Handler) UpdateUser(ctx context.Context, req transport.Request) transport.Response {
	var dto UpdateUserDTO
	if err := req.Decode(&dto); err != nil {
		return h.Fail(err)
	}

	updated, err := h.Service.Update(ctx, req.Param("id"), dto)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/:id
func (h *Handler) DeleteUser(ctx context.Context, req transport.Request) transport.Response {
	if err := h.Service.Delete(ctx, req.Param("id")); err != nil {
		return h.Fail(err)
	}
	return h.NoContent()
}
