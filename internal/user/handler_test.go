package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/frahmantamala/rbac-admin/internal/persistence/memory"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/internal/user"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var (
		ctx     context.Context
		service *user.Service
		router  *transport.Router
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = user.NewService(user.NewStore(memory.New(), logger.Discard()), nil, "en", logger.Discard())
		Expect(service.Reset(ctx, user.Seed())).To(Succeed())

		router = transport.NewRouter(logger.Discard())
		user.NewHandler(transport.NewBaseHandler(logger.Discard()), service).Register(router)
	})

	It("should handle GET /users", func() {
		resp := router.Dispatch(ctx, transport.Request{Method: http.MethodGet, Path: "/users"})
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(user.UsersResponse{Users: user.Seed()}))
	})

	It("should filter and sort GET /users", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   "/users",
			Query:  url.Values{"q": {"edi"}},
		})
		Expect(resp.Body.(user.UsersResponse).Users).To(HaveLen(1))
		Expect(resp.Body.(user.UsersResponse).Users[0].ID).To(Equal("2"))

		resp = router.Dispatch(ctx, transport.Request{
			Method: http.MethodGet,
			Path:   "/users",
			Query:  url.Values{"sort": {"secret"}},
		})
		Expect(resp.Status).To(Equal(http.StatusBadRequest))
	})

	It("should handle POST /users", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodPost,
			Path:   "/users",
			Body:   json.RawMessage(`{"name":"Ann","role":"Editor","status":"Active"}`),
		})
		Expect(resp.Status).To(Equal(http.StatusCreated))
		Expect(resp.Body.(user.User).ID).NotTo(BeEmpty())
	})

	It("should answer 400 for a POST /users with missing fields", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodPost,
			Path:   "/users",
			Body:   json.RawMessage(`{"name":"Ann"}`),
		})
		Expect(resp.Status).To(Equal(http.StatusBadRequest))
		Expect(resp.Body.(transport.ErrorBody).Error).NotTo(BeEmpty())
	})

	It("should handle PUT /users/:id", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodPut,
			Path:   "/users/1",
			Body:   json.RawMessage(`{"role":"Viewer"}`),
		})
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Body).To(Equal(user.User{ID: "1", Name: "Admin", Role: "Viewer", Status: "Active"}))
	})

	It("should answer 404 for PUT on an unknown user", func() {
		resp := router.Dispatch(ctx, transport.Request{
			Method: http.MethodPut,
			Path:   "/users/999",
			Body:   json.RawMessage(`{"role":"Viewer"}`),
		})
		Expect(resp.Status).To(Equal(http.StatusNotFound))
	})

	It("should handle DELETE /users/:id", func() {
		resp := router.Dispatch(ctx, transport.Request{Method: http.MethodDelete, Path: "/users/1"})
		Expect(resp.Status).To(Equal(http.StatusNoContent))
		Expect(resp.Body).To(BeNil())
	})

	It("should answer 404 for DELETE /users/999 and keep the collection", func() {
		resp := router.Dispatch(ctx, transport.Request{Method: http.MethodDelete, Path: "/users/999"})
		Expect(resp.Status).To(Equal(http.StatusNotFound))
		Expect(resp.Body.(transport.ErrorBody).Error).To(Equal("User with ID 999 not found"))

		users, err := service.FetchAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(Equal(user.Seed()))
	})
})
