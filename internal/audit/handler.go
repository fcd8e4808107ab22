package audit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) ([]Entry, error)
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
	r.Get("/audit-logs", h.ListAuditLogs)
}

// ListAuditLogs handles GET /audit-logs
func (h *Handler) ListAuditLogs(ctx context.Context, req transport.Request) transport.Response {
	filter := Filter{Entity: req.Query.Get("entity"), Limit: DefaultLimit}

	if raw := req.Query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return h.Fail(internal.NewValidationFieldError("limit",
				"limit must be between 1 and "+strconv.Itoa(MaxLimit),
				internal.ErrCodeInvalidQuery))
		}
		filter.Limit = limit
	}

	entries, err := h.Service.List(ctx, filter)
	if err != nil {
		return h.Fail(err)
	}
	return h.JSON(http.StatusOK, ListResponse{AuditLogs: entries})
}
