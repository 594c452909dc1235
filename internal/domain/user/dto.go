package user

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/validator"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	SedeID    *string   `json:"sede_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		SedeID:    u.SedeID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ListUsersFilter struct {
	Role   *Role   `json:"role,omitempty"`
	SedeID *string `json:"sede_id,omitempty"`
}

type CreateUserRequest struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Role   Role    `json:"role" validate:"required,oneof=admin employee"`
	Pin    string  `json:"pin" validate:"required,min=4,max=32"`
	SedeID *string `json:"sede_id,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Role == RoleEmployee && (r.SedeID == nil || validator.IsEmpty(*r.SedeID)) {
		errs = append(errs, validator.ValidationError{
			Field:   "sede_id",
			Message: ErrSedeRequired.Error(),
		})
	}
	return validator.Merge(validator.Struct(r), errs)
}

// UpdateUserRequest only touches the fields that are set. ClearSede removes
// the sede assignment and wins over SedeID.
type UpdateUserRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Role      *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
	Pin       *string `json:"pin,omitempty" validate:"omitempty,min=4,max=32"`
	SedeID    *string `json:"sede_id,omitempty"`
	ClearSede bool    `json:"clear_sede,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	return validator.Merge(validator.Struct(r), errs)
}
