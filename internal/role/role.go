package role

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/persistence"
	"github.com/frahmantamala/rbac-admin/internal/store"
)

var SortableFields = []string{"id", "name"}

// Role permissions keep their order; duplicates are tolerated.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (r Role) GetID() string {
	return r.ID
}

func (r Role) WithID(id string) Role {
	r.ID = id
	return r
}

func (r Role) SearchFields() []string {
	return append([]string{r.Name}, r.Permissions...)
}

func (r Role) Field(name string) (string, bool) {
	switch name {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "permissions":
		return strings.Join(r.Permissions, ","), true
	default:
		return "", false
	}
}

func (r Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func ErrNotFound(id string) error {
	return internal.NewNotFoundError(fmt.Sprintf("Role with ID %s not found", id), internal.ErrCodeRoleNotFound)
}

func NewStore(adapter persistence.Adapter, logger *slog.Logger) *store.Store[Role] {
	col := persistence.NewCollection[Role](adapter, persistence.RolesKey, logger)
	return store.New(col, store.Options{Name: "role", NotFound: ErrNotFound}, logger)
}

func Seed() []Role {
	return []Role{
		{ID: "3", Name: "Admin", Permissions: []string{"read", "write", "delete"}},
		{ID: "4", Name: "Editor", Permissions: []string{"read", "write"}},
	}
}
