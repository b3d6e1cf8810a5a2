package employee

import (
	"net/mail"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

type EmployeeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PersonalEmail string `json:"personal_email,omitempty"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	ManagerID     string `json:"manager_id,omitempty"`
}

type EmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

type CreateEmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PersonalEmail string `json:"personal_email"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	ManagerID     string `json:"manager_id"`
	Password      string `json:"password"`
}

func (d *CreateEmployeeDTO) Validate() error {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.PersonalEmail = strings.ToLower(strings.TrimSpace(d.PersonalEmail))
	d.ManagerID = strings.TrimSpace(d.ManagerID)

	v := validation.NewValidator()
	v.Field("id", d.ID).Required().MaxLength(32)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("personal_email", d.PersonalEmail).Email()
	v.Field("role", d.Role).Custom(func(value interface{}) *internal.AppError {
		if _, err := ParseRole(d.Role); err != nil {
			appErr, _ := internal.IsAppError(err)
			return appErr
		}
		return nil
	})
	v.Field("password", d.Password).MinLength(8)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateEmployeeDTO applies only the fields that are set.
type UpdateEmployeeDTO struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	PersonalEmail *string `json:"personal_email"`
	Role          *string `json:"role"`
	Department    *string `json:"department"`
	ManagerID     *string `json:"manager_id"`
}

func (d *UpdateEmployeeDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Email != nil {
		if _, err := mail.ParseAddress(*d.Email); err != nil {
			return internal.NewValidationFieldError("email", "a valid work email is required", internal.ErrCodeValidationFailed)
		}
	}
	if d.Role != nil {
		if _, err := ParseRole(*d.Role); err != nil {
			return err
		}
	}
	return nil
}

func (d *UpdateEmployeeDTO) apply(e *Employee) {
	if d.Name != nil {
		e.Name = strings.TrimSpace(*d.Name)
	}
	if d.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*d.Email))
	}
	if d.PersonalEmail != nil {
		e.PersonalEmail = strings.ToLower(strings.TrimSpace(*d.PersonalEmail))
	}
	if d.Role != nil {
		e.Role, _ = ParseRole(*d.Role)
	}
	if d.Department != nil {
		e.Department = strings.TrimSpace(*d.Department)
	}
	if d.ManagerID != nil {
		e.ManagerID = strings.TrimSpace(*d.ManagerID)
	}
}

type TeamResponse struct {
	Members []EmployeeResponse `json:"members"`
}
