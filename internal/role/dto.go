package role

import (
	"slices"
	"strings"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string   `json:"name" validate:"required,notblank,max=100"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,notblank"`
}

func (d CreateRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d CreateRoleDTO) ToRole() Role {
	return Role{Name: d.Name, Permissions: slices.Clone(d.Permissions)}
}

// UpdateRoleDTO changes only the fields that are present. A present
// permissions list replaces the old one.
type UpdateRoleDTO struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Permissions *[]string `json:"permissions,omitempty"`
}

func (d UpdateRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	if d.Permissions != nil {
		return validatePermissionList(*d.Permissions)
	}
	return nil
}

func (d UpdateRoleDTO) Apply(r *Role) {
	if d.Name != nil {
		r.Name = *d.Name
	}
	if d.Permissions != nil {
		r.Permissions = slices.Clone(*d.Permissions)
	}
}

func (d UpdateRoleDTO) Fields() []string {
	var fields []string
	if d.Name != nil {
		fields = append(fields, "name")
	}
	if d.Permissions != nil {
		fields = append(fields, "permissions")
	}
	return fields
}

// PermissionsDTO is the body of PUT /roles/:id/permissions. The list may be
// empty but must be present.
type PermissionsDTO struct {
	Permissions *[]string `json:"permissions"`
}

func (d PermissionsDTO) Validate() error {
	if d.Permissions == nil {
		return internal.NewValidationFieldError("permissions", "Invalid permissions data", internal.ErrCodeMissingPermissions)
	}
	return validatePermissionList(*d.Permissions)
}

func (d PermissionsDTO) List() []string {
	if d.Permissions == nil {
		return []string{}
	}
	out := slices.Clone(*d.Permissions)
	if out == nil {
		out = []string{}
	}
	return out
}

func validatePermissionList(perms []string) error {
	for _, p := range perms {
		if strings.TrimSpace(p) == "" {
			return internal.NewValidationFieldError("permissions", "permissions must not contain blank entries", internal.ErrCodeMissingPermissions)
		}
	}
	return nil
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

type CatalogueResponse struct {
	Permissions []Permission `json:"permissions"`
}
