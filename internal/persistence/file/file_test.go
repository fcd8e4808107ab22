package file_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/persistence/file"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
)

func TestFileStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "File Store Suite")
}

var _ = Describe("File Store", func() {
	var (
		ctx   context.Context
		fs    afero.Fs
		store *file.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		fs = afero.NewMemMapFs()
		store = file.New(fs, "/var/lib/rbac")
	})

	It("should return nil when the file does not exist", func() {
		v, err := store.Get(ctx, "usersData")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNil())
	})

	It("should write one json file per key", func() {
		Expect(store.Set(ctx, "usersData", []byte(`[{"id":"1"}]`))).To(Succeed())

		raw, err := afero.ReadFile(fs, "/var/lib/rbac/usersData.json")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(`[{"id":"1"}]`))

		exists, err := afero.Exists(fs, "/var/lib/rbac/usersData.json.tmp")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("should read back what was written", func() {
		Expect(store.Set(ctx, "rolesData", []byte(`[]`))).To(Succeed())
		Expect(store.Set(ctx, "rolesData", []byte(`[{"id":"3"}]`))).To(Succeed())

		v, err := store.Get(ctx, "rolesData")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal(`[{"id":"3"}]`))
	})

	It("should ignore deleting a missing key", func() {
		Expect(store.Delete(ctx, "usersData")).To(Succeed())
	})

	Context("on a read-only filesystem", func() {
		BeforeEach(func() {
			store = file.New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")
		})

		It("should fail writes", func() {
			Expect(store.Set(ctx, "usersData", []byte(`[]`))).NotTo(Succeed())
		})
	})

	It("should report healthy before the directory exists", func() {
		Expect(store.Ping(ctx)).To(Succeed())
	})
})
