package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport/middleware"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("should generate a trace id and expose it on the context", func() {
		var seen string
		h := middleware.RequestID(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.TraceIDFromContext(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(seen).NotTo(BeEmpty())
		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal(seen))
	})

	It("should keep an incoming trace id", func() {
		h := middleware.RequestID(logger.Discard())(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "abc")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("abc"))
	})
})

var _ = Describe("RequestID logger", func() {
	It("should derive the request logger from the injected one", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))

		h := middleware.RequestID(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("handled")
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "trace-42")
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).To(ContainSubstring(`"msg":"handled"`))
		Expect(buf.String()).To(ContainSubstring(`"trace_id":"trace-42"`))
	})
})

var _ = Describe("RateLimit", func() {
	It("should answer 429 once the burst is spent", func() {
		h := middleware.RateLimit(0.001, 2, logger.Discard())(ok)

		codes := make([]int, 3)
		for i := range codes {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))
			codes[i] = w.Code
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should turn a panic into a 500 without the panic value", func() {
		h := middleware.RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("secret detail")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret detail"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should pass the request through unchanged", func() {
		var body string
		h := middleware.LoggingMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := make([]byte, 64)
			n, _ := r.Body.Read(buf)
			body = string(buf[:n])
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Ann"}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(body).To(Equal(`{"name":"Ann"}`))
	})

	It("should log field names and the error message but not values", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))

		h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"status must be one of: Active, Inactive"}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/users?x=1", strings.NewReader(`{"name":"Ann","status":"Gone"}`))
		h.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		Expect(out).To(ContainSubstring(`"level":"WARN"`))
		Expect(out).To(ContainSubstring(`"status":400`))
		Expect(out).To(ContainSubstring(`"body_fields":["name","status"]`))
		Expect(out).To(ContainSubstring(`"error":"status must be one of: Active, Inactive"`))
		Expect(out).NotTo(ContainSubstring("Ann"))
	})

	It("should still hand an oversized body to the handler in full", func() {
		payload := strings.Repeat("x", 1<<20)
		var got int
		h := middleware.LoggingMiddleware(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			got = len(b)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(payload)))
		Expect(got).To(Equal(len(payload)))
	})
})
