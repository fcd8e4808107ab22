package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

const TraceHeader = "X-Trace-ID"

// RequestID tags the request with a trace id and puts a logger carrying it,
// derived from lg, into the request context.
func RequestID(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := internal.ContextWithTraceID(r.Context(), traceID)
			ctx = logger.NewContext(ctx, logger.FromOr(ctx, lg).With("trace_id", traceID))

			w.Header().Set(TraceHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
