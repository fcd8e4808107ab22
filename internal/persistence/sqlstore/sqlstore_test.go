package sqlstore_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal/persistence/sqlstore"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSQLStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQL Store Suite")
}

var _ = Describe("SQL Store", func() {
	var (
		ctx   context.Context
		db    *sqlx.DB
		store *sqlstore.Store
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		// a single connection keeps every query on the same in-memory database
		db, err = sqlstore.Open("sqlite3", ":memory:", sqlstore.Options{MaxOpenConns: 1})
		Expect(err).NotTo(HaveOccurred())

		store = sqlstore.New(db)
		Expect(store.EnsureSchema(ctx)).To(Succeed())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("should return nil for a missing collection", func() {
		v, err := store.Get(ctx, "usersData")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNil())
	})

	It("should insert and then upsert a collection", func() {
		Expect(store.Set(ctx, "usersData", []byte(`[{"id":"1"}]`))).To(Succeed())
		Expect(store.Set(ctx, "usersData", []byte(`[{"id":"2"}]`))).To(Succeed())

		v, err := store.Get(ctx, "usersData")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal(`[{"id":"2"}]`))

		var count int
		Expect(db.Get(&count, `SELECT COUNT(*) FROM collections`)).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("should delete a collection", func() {
		Expect(store.Set(ctx, "rolesData", []byte(`[]`))).To(Succeed())
		Expect(store.Delete(ctx, "rolesData")).To(Succeed())

		v, err := store.Get(ctx, "rolesData")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNil())
	})

	It("should apply the schema more than once", func() {
		Expect(store.EnsureSchema(ctx)).To(Succeed())
	})

	It("should ping the database", func() {
		Expect(store.Ping(ctx)).To(Succeed())
	})
})
