package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// countingReader records how many bytes have been pulled from it.
type countingReader struct {
	r    io.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += n
	return n, err
}

var _ = Describe("bodyFields", func() {
	It("should list top-level keys in order", func() {
		Expect(bodyFields([]byte(`{"status":"Active","name":"Ann","role":"Editor"}`))).
			To(Equal([]string{"name", "role", "status"}))
	})

	It("should ignore bodies that are not JSON objects", func() {
		Expect(bodyFields([]byte(`["read"]`))).To(BeNil())
		Expect(bodyFields([]byte(`name=Ann`))).To(BeNil())
	})
})

var _ = Describe("peekBody", func() {
	It("should not pull more than the logged prefix from a large body", func() {
		payload := strings.Repeat("a", 2<<20)
		src := &countingReader{r: strings.NewReader(payload)}
		req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
		req.Body = io.NopCloser(src)

		fields, truncated := peekBody(req)
		Expect(fields).To(BeNil())
		Expect(truncated).To(BeTrue())
		Expect(src.read).To(BeNumerically("<=", maxLoggedBody+1))

		rest, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(rest).To(HaveLen(len(payload)))
	})

	It("should restore a small body untouched", func() {
		req := httptest.NewRequest(http.MethodPut, "/api/roles/3", bytes.NewBufferString(`{"name":"Owner"}`))

		fields, truncated := peekBody(req)
		Expect(truncated).To(BeFalse())
		Expect(fields).To(Equal([]string{"name"}))

		body, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal(`{"name":"Owner"}`))
	})
})

var _ = Describe("recorder", func() {
	It("should keep the message of an error body", func() {
		w := httptest.NewRecorder()
		rec := &recorder{ResponseWriter: w}
		rec.WriteHeader(http.StatusNotFound)
		_, _ = rec.Write([]byte(`{"error":"User with ID 9 not found"}`))

		Expect(rec.status()).To(Equal(http.StatusNotFound))
		Expect(rec.errorMessage()).To(Equal("User with ID 9 not found"))
		Expect(rec.size).To(Equal(w.Body.Len()))
	})

	It("should not buffer successful bodies", func() {
		rec := &recorder{ResponseWriter: httptest.NewRecorder()}
		_, _ = rec.Write([]byte(`{"users":[]}`))

		Expect(rec.status()).To(Equal(http.StatusOK))
		Expect(rec.errBody.Len()).To(BeZero())
	})
})
