package role_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/persistence/memory"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Role Handler", func() {
	var (
		ctx     context.Context
		service *role.Service
		router  *transport.Router
	)

	call := func(method, path, body string) transport.Response {
		req := transport.Request{Method: method, Path: path}
		if body != "" {
			req.Body = json.RawMessage(body)
		}
		return router.Dispatch(ctx, req)
	}

	BeforeEach(func() {
		ctx = context.Background()
		service = role.NewService(role.NewStore(memory.New(), logger.Discard()), nil, "en", logger.Discard())
		Expect(service.Reset(ctx, role.Seed())).To(Succeed())

		router = transport.NewRouter(logger.Discard())
		role.NewHandler(transport.NewBaseHandler(logger.Discard()), service).Register(router)
	})

	It("should handle GET /roles", func() {
		resp := call(http.MethodGet, "/roles", "")
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(role.RolesResponse{Roles: role.Seed()}))
	})

	It("should reject a status filter on GET /roles", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   "/roles",
			Query:  url.Values{"status": {"Active"}},
		})
		Expect(resp.Status).To(Equal(http.StatusBadRequest))

		body := resp.Body.(transport.ErrorBody)
		details := body.Details.(internal.ValidationErrors)
		Expect(details.Errors).To(HaveLen(1))
		Expect(details.Errors[0].Field).To(Equal("status"))
		Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidQuery)))
	})

	It("should still filter and sort roles", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   "/roles",
			Query:  url.Values{"q": {"edit"}, "sort": {"name"}},
		})
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body.(role.RolesResponse).Roles).To(HaveLen(1))
	})

	It("should handle POST /roles", func() {
		resp := call(http.MethodPost, "/roles", `{"name":"Viewer","permissions":["read"]}`)
		Expect(resp.Status).To(Equal(http.StatusCreated))
		Expect(resp.Body.(role.Role).Name).To(Equal("Viewer"))
	})

	It("should answer 400 for POST /roles without permissions", func() {
		resp := call(http.MethodPost, "/roles", `{"name":"Viewer"}`)
		Expect(resp.Status).To(Equal(http.StatusBadRequest))
	})

	It("should handle PUT /roles/:id", func() {
		resp := call(http.MethodPut, "/roles/4", `{"name":"Writer"}`)
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(role.Role{ID: "4", Name: "Writer", Permissions: []string{"read", "write"}}))

		Expect(call(http.MethodPut, "/roles/999", `{"name":"Writer"}`).Status).To(Equal(http.StatusNotFound))
	})

	It("should handle DELETE /roles/:id", func() {
		Expect(call(http.MethodDelete, "/roles/4", "").Status).To(Equal(http.StatusNoContent))
		Expect(call(http.MethodDelete, "/roles/4", "").Status).To(Equal(http.StatusNotFound))
	})

	It("should handle GET /roles/:id/permissions", func() {
		resp := call(http.MethodGet, "/roles/3/permissions", "")
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(role.PermissionsResponse{Permissions: []string{"read", "write", "delete"}}))

		resp = call(http.MethodGet, "/roles/999/permissions", "")
		Expect(resp.Status).To(Equal(http.StatusNotFound))
		Expect(resp.Body.(transport.ErrorBody).Error).To(Equal("Role with ID 999 not found"))
	})

	It("should replace permissions on PUT /roles/3/permissions", func() {
		resp := call(http.MethodPut, "/roles/3/permissions", `{"permissions":["read"]}`)
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body.(role.Role).Permissions).To(Equal([]string{"read"}))

		resp = call(http.MethodGet, "/roles/3/permissions", "")
		Expect(resp.Body).To(Equal(role.PermissionsResponse{Permissions: []string{"read"}}))
	})

	DescribeTable("should answer 400 for invalid permission bodies",
		func(body string) {
			Expect(call(http.MethodPut, "/roles/3/permissions", body).Status).To(Equal(http.StatusBadRequest))
		},
		Entry("missing key", `{}`),
		Entry("not an array", `{"permissions":"read"}`),
		Entry("null", `{"permissions":null}`),
		Entry("empty body", ``),
	)

	It("should answer 404 for PUT permissions on an unknown role", func() {
		Expect(call(http.MethodPut, "/roles/999/permissions", `{"permissions":["read"]}`).Status).To(Equal(http.StatusNotFound))
	})

	It("should handle GET /permissions", func() {
		resp := call(http.MethodGet, "/permissions", "")
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body.(role.CatalogueResponse).Permissions).To(HaveLen(9))
	})
})
