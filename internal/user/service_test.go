package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/events"
	"github.com/frahmantamala/rbac-admin/internal/persistence/memory"
	"github.com/frahmantamala/rbac-admin/internal/store"
	"github.com/frahmantamala/rbac-admin/internal/user"
	"github.com/frahmantamala/rbac-admin/internal/view"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// RecordingPublisher keeps every published event for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *RecordingPublisher) PublishSync(ctx context.Context, evt events.Event) error {
	return p.Publish(ctx, evt)
}

func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// BrokenAdapter fails every read and write.
type BrokenAdapter struct{}

func (BrokenAdapter) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (BrokenAdapter) Set(context.Context, string, []byte) error {
	return errors.New("storage unavailable")
}

func ptr(s string) *string { return &s }

var _ = Describe("User Service", func() {
	var (
		ctx       context.Context
		st        *store.Store[user.User]
		publisher *RecordingPublisher
		service   *user.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = user.NewStore(memory.New(), logger.Discard())
		publisher = &RecordingPublisher{}
		service = user.NewService(st, publisher, "en", logger.Discard())
		Expect(service.Reset(ctx, user.Seed())).To(Succeed())
	})

	Describe("Create", func() {
		It("should create a user with a fresh id", func() {
			created, err := service.Create(ctx, user.CreateUserDTO{Name: "Ann", Role: "Editor", Status: user.StatusActive})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeElementOf("1", "2"))
			Expect(created.Name).To(Equal("Ann"))

			Expect(service.State().Data).To(HaveLen(3))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeUserCreated}))
		})

		DescribeTable("should reject invalid input before persisting",
			func(dto user.CreateUserDTO, field string) {
				_, err := service.Create(ctx, dto)
				Expect(internal.IsValidation(err)).To(BeTrue())

				appErr, _ := internal.IsAppError(err)
				details := appErr.Details.(internal.ValidationErrors)
				Expect(details.Errors[0].Field).To(Equal(field))

				users, _ := service.FetchAll(ctx)
				Expect(users).To(HaveLen(2))
				Expect(publisher.Types()).To(BeEmpty())
			},
			Entry("missing name", user.CreateUserDTO{Role: "Editor", Status: "Active"}, "name"),
			Entry("blank role", user.CreateUserDTO{Name: "Ann", Role: "   ", Status: "Active"}, "role"),
			Entry("unknown status", user.CreateUserDTO{Name: "Ann", Role: "Editor", Status: "Suspended"}, "status"),
		)
	})

	Describe("Update", func() {
		It("should change only the supplied fields", func() {
			updated, err := service.Update(ctx, "2", user.UpdateUserDTO{Status: ptr(user.StatusActive)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(Equal(user.User{ID: "2", Name: "User", Role: "Editor", Status: user.StatusActive}))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeUserUpdated}))
		})

		It("should report an unknown id", func() {
			_, err := service.Update(ctx, "999", user.UpdateUserDTO{Name: ptr("Ghost")})
			Expect(internal.IsNotFound(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("User with ID 999 not found"))
		})

		It("should validate supplied fields", func() {
			_, err := service.Update(ctx, "1", user.UpdateUserDTO{Status: ptr("active")})
			Expect(internal.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should remove the user", func() {
			Expect(service.Delete(ctx, "1")).To(Succeed())

			users, err := service.FetchAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(ConsistOf(user.Seed()[1]))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeUserDeleted}))
		})

		It("should report an unknown id", func() {
			Expect(internal.IsNotFound(service.Delete(ctx, "999"))).To(BeTrue())
			Expect(publisher.Types()).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("should apply the derived view", func() {
			users, err := service.List(ctx, view.Query{Status: user.StatusActive})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(Equal([]user.User{user.Seed()[0]}))

			users, err = service.List(ctx, view.Query{SortKey: "name"})
			Expect(err).NotTo(HaveOccurred())
			Expect(users[0].ID).To(Equal("2"))
		})
	})

	Context("when storage is down", func() {
		BeforeEach(func() {
			st = user.NewStore(BrokenAdapter{}, logger.Discard())
			service = user.NewService(st, nil, "en", logger.Discard())
		})

		It("should surface a storage error and record it on the state", func() {
			_, err := service.Create(ctx, user.CreateUserDTO{Name: "Ann", Role: "Editor", Status: "Active"})
			Expect(internal.IsStorage(err)).To(BeTrue())
			Expect(service.State().Error).NotTo(BeEmpty())
			Expect(service.State().Loading).To(BeFalse())
		})
	})
})
