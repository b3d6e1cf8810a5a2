package employee

import (
	"fmt"

	"github.com/frahmantamala/leave-management/internal"
)

// Role is a closed set: StaffRole, ManagerRole and AdminRole. Each variant
// decides who approves leave for an employee holding it.
type Role interface {
	Name() string
	// CanManage reports whether holders of this role may appear as someone's manager.
	CanManage() bool
	approver(d *Directory, e *Employee) (*Employee, error)
}

type StaffRole struct{}

type ManagerRole struct{}

type AdminRole struct{}

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

func (StaffRole) Name() string   { return RoleEmployee }
func (ManagerRole) Name() string { return RoleManager }
func (AdminRole) Name() string   { return RoleAdmin }

func (StaffRole) CanManage() bool   { return false }
func (ManagerRole) CanManage() bool { return true }
func (AdminRole) CanManage() bool   { return true }

// Staff are approved by their direct manager.
func (StaffRole) approver(d *Directory, e *Employee) (*Employee, error) {
	if e.ManagerID == "" {
		return nil, internal.ErrApproverNotFound
	}
	manager, ok := d.Get(e.ManagerID)
	if !ok {
		return nil, internal.ErrApproverNotFound
	}
	return manager, nil
}

// Managers are approved by the approval root.
func (ManagerRole) approver(d *Directory, _ *Employee) (*Employee, error) {
	if d.admin == nil {
		return nil, internal.ErrApproverNotFound
	}
	return d.admin, nil
}

func (AdminRole) approver(*Directory, *Employee) (*Employee, error) {
	return nil, internal.ErrAdminCannotSubmit
}

func ParseRole(name string) (Role, error) {
	switch name {
	case RoleEmployee:
		return StaffRole{}, nil
	case RoleManager:
		return ManagerRole{}, nil
	case RoleAdmin:
		return AdminRole{}, nil
	default:
		return nil, internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", name), internal.ErrCodeInvalidRole)
	}
}
