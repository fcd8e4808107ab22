package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Request is the transport-neutral form of one call.
type Request struct {
	Method string
	Path   string
	Params map[string]string
	Query  url.Values
	Body   json.RawMessage
}

func (r Request) Param(name string) string {
	return r.Params[name]
}

// Decode unmarshals the body into v. An empty or malformed body is a
// validation error.
func (r Request) Decode(v interface{}) error {
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return internal.NewValidationError("Request body is required", internal.ErrCodeInvalidBody)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return internal.NewValidationError("Invalid JSON payload", internal.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}

// Response is what a handler returns. A nil Body means no payload.
type Response struct {
	Status int
	Body   interface{}
}

type HandlerFunc func(ctx context.Context, req Request) Response

type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc

	segments []string
}

// Router is an explicit table of method + path templates. Templates use
// :name segments, e.g. /roles/:id/permissions.
type Router struct {
	*BaseHandler
	routes []Route
}

func NewRouter(lg *slog.Logger) *Router {
	return &Router{BaseHandler: NewBaseHandler(lg)}
}

func (rt *Router) Handle(method, pattern string, h HandlerFunc) {
	rt.routes = append(rt.routes, Route{
		Method:   strings.ToUpper(method),
		Pattern:  pattern,
		Handler:  h,
		segments: split(pattern),
	})
}

func (rt *Router) Get(pattern string, h HandlerFunc)    { rt.Handle(http.MethodGet, pattern, h) }
func (rt *Router) Post(pattern string, h HandlerFunc)   { rt.Handle(http.MethodPost, pattern, h) }
func (rt *Router) Put(pattern string, h HandlerFunc)    { rt.Handle(http.MethodPut, pattern, h) }
func (rt *Router) Delete(pattern string, h HandlerFunc) { rt.Handle(http.MethodDelete, pattern, h) }

// Routes returns the registered table in registration order.
func (rt *Router) Routes() []Route {
	return slices.Clone(rt.routes)
}

// Dispatch runs the handler matching req in-process. Unknown paths get 404
// and known paths with another method get 405.
func (rt *Router) Dispatch(ctx context.Context, req Request) Response {
	method := strings.ToUpper(req.Method)
	parts := split(req.Path)

	var allowed []string
	for _, route := range rt.routes {
		params, ok := match(route.segments, parts)
		if !ok {
			continue
		}
		if route.Method != method {
			allowed = append(allowed, route.Method)
			continue
		}

		req.Method = method
		req.Params = params
		if req.Query == nil {
			req.Query = url.Values{}
		}
		return rt.call(ctx, route, req)
	}

	if len(allowed) > 0 {
		return rt.Fail(&internal.AppError{
			Type:       internal.ErrorTypeValidation,
			Code:       internal.ErrCodeNotAllowed,
			Message:    "Method " + method + " not allowed, expected one of: " + strings.Join(allowed, ", "),
			StatusCode: http.StatusMethodNotAllowed,
		})
	}
	return rt.Fail(internal.NewNotFoundError("No route for "+method+" "+req.Path, internal.ErrCodeRouteNotFound))
}

func (rt *Router) call(ctx context.Context, route Route, req Request) Response {
	log := logger.FromOr(ctx, rt.Logger)
	resp := route.Handler(ctx, req)
	log.Debug("route handled",
		"method", route.Method,
		"pattern", route.Pattern,
		"status", resp.Status)
	return resp
}

// Mount registers every route on r with chi's {name} placeholders.
func (rt *Router) Mount(r chi.Router) {
	for _, route := range rt.routes {
		r.MethodFunc(route.Method, chiPattern(route.segments), func(w http.ResponseWriter, hr *http.Request) {
			req, err := rt.fromHTTP(hr, route)
			if err != nil {
				rt.WriteResponse(w, rt.Fail(err))
				return
			}
			rt.WriteResponse(w, rt.call(hr.Context(), route, req))
		})
	}
}

func (rt *Router) fromHTTP(hr *http.Request, route Route) (Request, error) {
	req := Request{
		Method: hr.Method,
		Path:   hr.URL.Path,
		Params: make(map[string]string),
		Query:  hr.URL.Query(),
	}
	for _, seg := range route.segments {
		if name, ok := paramName(seg); ok {
			req.Params[name] = chi.URLParam(hr, name)
		}
	}

	if hr.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(nil, hr.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return Request{}, internal.NewValidationError("Request body too large", internal.ErrCodeInvalidBody)
			}
			return Request{}, internal.NewValidationError("Failed to read request body", internal.ErrCodeInvalidBody).WithCause(err)
		}
		req.Body = body
	}
	return req, nil
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func paramName(seg string) (string, bool) {
	if strings.HasPrefix(seg, ":") && len(seg) > 1 {
		return seg[1:], true
	}
	return "", false
}

func match(pattern, parts []string) (map[string]string, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	params := make(map[string]string)
	for i, seg := range pattern {
		if name, ok := paramName(seg); ok {
			if parts[i] == "" {
				return nil, false
			}
			value, err := url.PathUnescape(parts[i])
			if err != nil {
				return nil, false
			}
			params[name] = value
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}

func chiPattern(segments []string) string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		if name, ok := paramName(seg); ok {
			out[i] = "{" + name + "}"
			continue
		}
		out[i] = seg
	}
	return "/" + strings.Join(out, "/")
}
