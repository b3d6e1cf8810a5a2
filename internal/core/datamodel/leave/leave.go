package leave

import "time"

type LeaveRequest struct {
	ID              string     `gorm:"primaryKey;column:id;size:36"`
	EmployeeID      string     `gorm:"column:employee_id;size:32;not null;index"`
	CategoryID      string     `gorm:"column:category_id;size:32;not null"`
	StartDate       time.Time  `gorm:"column:start_date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;not null"`
	Days            int        `gorm:"column:days;not null"`
	Reason          string     `gorm:"column:reason"`
	Status          string     `gorm:"column:status;not null;default:pending;index"`
	AppliedDate     time.Time  `gorm:"column:applied_date;not null"`
	ApproverID      string     `gorm:"column:approver_id;size:32;index"`
	Comments        string     `gorm:"column:comments"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	LOPDays         int        `gorm:"column:lop_days;not null;default:0"`
	IsLOP           bool       `gorm:"column:is_lop;not null;default:false"`
	PendingHeld     int        `gorm:"column:pending_held;not null;default:0"`
	HasConflicts    bool       `gorm:"column:has_conflicts;not null;default:false"`
	ConflictDetails string     `gorm:"column:conflict_details"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
