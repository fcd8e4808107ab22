package memory_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/persistence/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMemoryStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Memory Store Suite")
}

var _ = Describe("Memory Store", func() {
	var (
		ctx   context.Context
		store *memory.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.New()
	})

	It("should return nil for a missing key", func() {
		v, err := store.Get(ctx, "usersData")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNil())
	})

	It("should overwrite an existing value", func() {
		Expect(store.Set(ctx, "k", []byte("one"))).To(Succeed())
		Expect(store.Set(ctx, "k", []byte("two"))).To(Succeed())

		v, err := store.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal("two"))
	})

	It("should not share buffers with callers", func() {
		in := []byte("abc")
		Expect(store.Set(ctx, "k", in)).To(Succeed())
		in[0] = 'z'

		out, _ := store.Get(ctx, "k")
		out[1] = 'z'

		again, _ := store.Get(ctx, "k")
		Expect(string(again)).To(Equal("abc"))
	})

	It("should delete keys", func() {
		Expect(store.Set(ctx, "k", []byte("v"))).To(Succeed())
		Expect(store.Delete(ctx, "k")).To(Succeed())

		v, _ := store.Get(ctx, "k")
		Expect(v).To(BeNil())
	})
})
