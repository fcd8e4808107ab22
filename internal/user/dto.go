package user

import (
	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name   string `json:"name" validate:"required,notblank,max=100"`
	Role   string `json:"role" validate:"required,notblank,max=100"`
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
}

func (d CreateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d CreateUserDTO) ToUser() User {
	return User{Name: d.Name, Role: d.Role, Status: d.Status}
}

// UpdateUserDTO changes only the fields that are present.
type UpdateUserDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Role   *string `json:"role,omitempty" validate:"omitempty,notblank,max=100"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
}

func (d UpdateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d UpdateUserDTO) Apply(u *User) {
	if d.Name != nil {
		u.Name = *d.Name
	}
	if d.Role != nil {
		u.Role = *d.Role
	}
	if d.Status != nil {
		u.Status = *d.Status
	}
}

// Fields lists the supplied field names, for audit details.
func (d UpdateUserDTO) Fields() []string {
	var fields []string
	if d.Name != nil {
		fields = append(fields, "name")
	}
	if d.Role != nil {
		fields = append(fields, "role")
	}
	if d.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

type UsersResponse struct {
	Users []User `json:"users"`
}
