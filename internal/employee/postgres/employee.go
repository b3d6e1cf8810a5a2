package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	notificationDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/leave-management/internal/employee"
	"gorm.io/gorm"
)

const pendingStatus = "pending"

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.RepositoryAPI = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return database.Conn(ctx, r.db).Create(e).Error
}

// Update never touches the password hash.
func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	res := database.Conn(ctx, r.db).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"name":           e.Name,
			"email":          e.Email,
			"personal_email": e.PersonalEmail,
			"role":           e.Role,
			"department":     e.Department,
			"manager_id":     e.ManagerID,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) DeleteCascade(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.db)

	if err := conn.Where("employee_id = ?", id).Delete(&notificationDatamodel.Notification{}).Error; err != nil {
		return err
	}
	if err := conn.Where("employee_id = ?", id).Delete(&leaveDatamodel.LeaveRequest{}).Error; err != nil {
		return err
	}
	if err := conn.Where("employee_id = ?", id).Delete(&balanceDatamodel.LeaveBalance{}).Error; err != nil {
		return err
	}
	if err := conn.Model(&employeeDatamodel.Employee{}).
		Where("manager_id = ?", id).
		Update("manager_id", nil).Error; err != nil {
		return err
	}

	res := conn.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

// PendingApprovalOwners lists employees with pending requests waiting on approverID.
func (r *EmployeeRepository) PendingApprovalOwners(ctx context.Context, approverID string) ([]string, error) {
	var owners []string
	err := database.Conn(ctx, r.db).Model(&leaveDatamodel.LeaveRequest{}).
		Where("approver_id = ? AND status = ?", approverID, pendingStatus).
		Distinct().
		Order("employee_id ASC").
		Pluck("employee_id", &owners).Error
	return owners, err
}

func (r *EmployeeRepository) ReassignPending(ctx context.Context, employeeID, fromApproverID, toApproverID string) error {
	return database.Conn(ctx, r.db).Model(&leaveDatamodel.LeaveRequest{}).
		Where("employee_id = ? AND approver_id = ? AND status = ?", employeeID, fromApproverID, pendingStatus).
		Updates(map[string]interface{}{
			"approver_id": toApproverID,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// GetPasswordForEmail returns the stored hash and employee id for a login email.
func (r *EmployeeRepository) GetPasswordForEmail(ctx context.Context, email string) (string, string, error) {
	var row employeeDatamodel.Employee
	err := database.Conn(ctx, r.db).
		Select("id", "password_hash").
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", internal.ErrEmployeeNotFound
		}
		return "", "", err
	}
	return row.PasswordHash, row.ID, nil
}
