package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides common functionality for route handlers
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

func (h *BaseHandler) JSON(status int, body interface{}) Response {
	return Response{Status: status, Body: body}
}

func (h *BaseHandler) NoContent() Response {
	return Response{Status: http.StatusNoContent}
}

// Fail converts err into an error response. AppErrors keep their status and
// code; anything else is reported as a 500 without leaking the cause.
func (h *BaseHandler) Fail(err error) Response {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.Error("unexpected handler error", "error", err)
		return Response{
			Status: http.StatusInternalServerError,
			Body:   ErrorBody{Error: "internal server error"},
		}
	}

	status := internal.StatusOf(appErr)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "status", status, "code", appErr.Code, "error", appErr)
	} else {
		h.Logger.Debug("request rejected", "status", status, "code", appErr.Code, "message", appErr.Error())
	}

	body := ErrorBody{Error: appErr.Error(), Code: string(appErr.Code), Details: appErr.Details}
	if appErr.Type == internal.ErrorTypeStorage || appErr.Type == internal.ErrorTypeInternal {
		body.Error = appErr.Message
	}
	return Response{Status: status, Body: body}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, ErrorBody{Error: message})
}

// WriteResponse writes a route handler result to w. A nil body is sent
// without a payload.
func (h *BaseHandler) WriteResponse(w http.ResponseWriter, resp Response) {
	if resp.Body == nil {
		w.WriteHeader(resp.Status)
		return
	}
	h.WriteJSON(w, resp.Status, resp.Body)
}
