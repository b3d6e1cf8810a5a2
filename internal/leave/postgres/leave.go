package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

var _ leave.RepositoryAPI = (*LeaveRepository)(nil)

func (r *LeaveRepository) Create(ctx context.Context, req *leave.Request) error {
	row, err := leave.ToDataModel(req)
	if err != nil {
		return err
	}
	if err := database.Conn(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leave.Request, error) {
	var row leaveDatamodel.LeaveRequest
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*leave.Request, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := database.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("applied_date DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

// ListActiveOverlapping narrows candidates in SQL; classification happens in the leave package.
func (r *LeaveRepository) ListActiveOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]*leave.Request, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := database.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{string(leave.StatusPending), string(leave.StatusApproved)}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *LeaveRepository) ListPendingByApprover(ctx context.Context, approverID string) ([]*leave.Request, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := database.Conn(ctx, r.db).
		Where("approver_id = ? AND status = ?", approverID, string(leave.StatusPending)).
		Order("applied_date DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *LeaveRepository) SumApprovedLOP(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	var total int64
	err := database.Conn(ctx, r.db).
		Model(&leaveDatamodel.LeaveRequest{}).
		Select("COALESCE(SUM(lop_days), 0)").
		Where("employee_id = ? AND status = ?", employeeID, string(leave.StatusApproved)).
		Where("start_date >= ? AND start_date < ?", from, to).
		Scan(&total).Error
	return int(total), err
}

// Transition only touches rows that are still pending, so of two racing
// decisions exactly one affects a row.
func (r *LeaveRepository) Transition(ctx context.Context, id string, t leave.Transition) error {
	if !leave.StatusPending.CanTransitionTo(t.To) {
		return internal.NewValidationError("invalid target status "+string(t.To), internal.ErrCodeInvalidAction)
	}

	updates := map[string]interface{}{
		"status":     string(t.To),
		"comments":   t.Comments,
		"updated_at": t.At,
	}
	if t.To != leave.StatusCancelled {
		updates["decided_at"] = t.At
	}
	if t.To == leave.StatusRejected {
		updates["rejection_reason"] = t.RejectionReason
	}

	conn := database.Conn(ctx, r.db)
	res := conn.Model(&leaveDatamodel.LeaveRequest{}).
		Where("id = ? AND status = ?", id, string(leave.StatusPending)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := conn.Model(&leaveDatamodel.LeaveRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrRequestNotFound
	}
	return internal.ErrRequestNotPending
}

func toDomain(rows []*leaveDatamodel.LeaveRequest) []*leave.Request {
	out := make([]*leave.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, leave.FromDataModel(row))
	}
	return out
}
