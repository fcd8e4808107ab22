package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

// maxLoggedBody caps how much of a request or response body is inspected.
const maxLoggedBody = 4 << 10

// LoggingMiddleware writes one line per request once the response is done.
// Request bodies are reduced to their top-level field names so entity values
// never reach the log; error responses contribute their message.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.FromOr(r.Context(), lg)

			fields, truncated := peekBody(r)

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
				"remote_addr", r.RemoteAddr,
			}
			if r.URL.RawQuery != "" {
				attrs = append(attrs, "query", r.URL.RawQuery)
			}
			if len(fields) > 0 {
				attrs = append(attrs, "body_fields", fields)
			}
			if truncated {
				attrs = append(attrs, "body_truncated", true)
			}
			if msg := rec.errorMessage(); msg != "" {
				attrs = append(attrs, "error", msg)
			}

			reqLogger.Log(r.Context(), levelFor(status), "request completed", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// peekBody reads at most maxLoggedBody+1 bytes and puts them back in front of
// the unread remainder, so downstream limits still see the whole body.
func peekBody(r *http.Request) (fields []string, truncated bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	if err != nil || len(head) == 0 {
		return nil, false
	}
	if len(head) > maxLoggedBody {
		return nil, true
	}
	return bodyFields(head), false
}

// bodyFields returns the sorted top-level keys of a JSON object.
func bodyFields(body []byte) []string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return slices.Sorted(maps.Keys(obj))
}

// recorder tracks the status and size, and keeps the head of error bodies.
type recorder struct {
	http.ResponseWriter
	code    int
	size    int
	errBody bytes.Buffer
}

func (rw *recorder) WriteHeader(code int) {
	if rw.code == 0 {
		rw.code = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if rw.code == 0 {
		rw.code = http.StatusOK
	}
	if rw.code >= http.StatusBadRequest {
		if room := maxLoggedBody - rw.errBody.Len(); room > 0 {
			rw.errBody.Write(b[:min(len(b), room)])
		}
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *recorder) status() int {
	if rw.code == 0 {
		return http.StatusOK
	}
	return rw.code
}

func (rw *recorder) errorMessage() string {
	if rw.errBody.Len() == 0 {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rw.errBody.Bytes(), &body); err != nil {
		return ""
	}
	return body.Error
}
