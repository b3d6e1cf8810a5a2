package balance

import "time"

type LeaveBalance struct {
	EmployeeID string    `gorm:"primaryKey;column:employee_id;size:32"`
	CategoryID string    `gorm:"primaryKey;column:category_id;size:32"`
	Allocated  int       `gorm:"column:allocated;not null"`
	Used       int       `gorm:"column:used;not null;default:0"`
	Pending    int       `gorm:"column:pending;not null;default:0"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
