package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should load and validate", func() {
		doc, err := swagger.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Servers[0].URL).To(Equal("/api"))
		Expect(doc.Paths.Find("/roles/{id}/permissions")).NotTo(BeNil())
	})

	It("should be served as yaml", func() {
		w := httptest.NewRecorder()
		swagger.DocHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, swagger.DocPath, nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(w.Body.Bytes()).To(Equal(swagger.Document()))
	})
})
