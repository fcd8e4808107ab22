package user

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/persistence"
	"github.com/frahmantamala/rbac-admin/internal/store"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// SortableFields are the keys accepted by the list view.
var SortableFields = []string{"id", "name", "role", "status"}

// User carries a free-text role label; it is not checked against the roles
// collection.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (u User) GetID() string {
	return u.ID
}

func (u User) WithID(id string) User {
	u.ID = id
	return u
}

func (u User) SearchFields() []string {
	return []string{u.Name, u.Role}
}

func (u User) Field(name string) (string, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "role":
		return u.Role, true
	case "status":
		return u.Status, true
	default:
		return "", false
	}
}

func (u User) IsActive() bool {
	return u.Status == StatusActive
}

func ErrNotFound(id string) error {
	return internal.NewNotFoundError(fmt.Sprintf("User with ID %s not found", id), internal.ErrCodeUserNotFound)
}

// NewStore builds the users store over the usersData collection.
func NewStore(adapter persistence.Adapter, logger *slog.Logger) *store.Store[User] {
	col := persistence.NewCollection[User](adapter, persistence.UsersKey, logger)
	return store.New(col, store.Options{Name: "user", NotFound: ErrNotFound}, logger)
}

// Seed is the initial users collection.
func Seed() []User {
	return []User{
		{ID: "1", Name: "Admin", Role: "Admin", Status: StatusActive},
		{ID: "2", Name: "User", Role: "Editor", Status: StatusInactive},
	}
}
