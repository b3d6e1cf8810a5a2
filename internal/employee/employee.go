package employee

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
)

type Employee struct {
	ID            string
	Name          string
	Email         string
	PersonalEmail string
	Role          Role
	Department    string
	ManagerID     string
	CreatedAt     time.Time
}

func (e *Employee) IsAdmin() bool {
	_, ok := e.Role.(AdminRole)
	return ok
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		PersonalEmail: e.PersonalEmail,
		Role:          e.Role.Name(),
		Department:    e.Department,
		ManagerID:     e.ManagerID,
	}
}

func (e *Employee) ToCaller() *internal.Caller {
	return &internal.Caller{
		EmployeeID: e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Role:       e.Role.Name(),
	}
}

func FromDataModel(m *employeeDatamodel.Employee) (*Employee, error) {
	role, err := ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	e := &Employee{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		PersonalEmail: m.PersonalEmail,
		Role:          role,
		Department:    m.Department,
		CreatedAt:     m.CreatedAt,
	}
	if m.ManagerID != nil {
		e.ManagerID = *m.ManagerID
	}
	return e, nil
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	m := &employeeDatamodel.Employee{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		PersonalEmail: e.PersonalEmail,
		Role:          e.Role.Name(),
		Department:    e.Department,
	}
	if e.ManagerID != "" {
		managerID := e.ManagerID
		m.ManagerID = &managerID
	}
	return m
}
