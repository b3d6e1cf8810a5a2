package notification

import "time"

type Notification struct {
	ID            string     `gorm:"primaryKey;column:id;size:36"`
	EmployeeID    string     `gorm:"column:employee_id;size:32;not null;index"`
	Type          string     `gorm:"column:type;not null"`
	Priority      string     `gorm:"column:priority;not null;default:normal"`
	Title         string     `gorm:"column:title;not null"`
	Message       string     `gorm:"column:message;not null"`
	RequestID     string     `gorm:"column:request_id;size:36"`
	Read          bool       `gorm:"column:is_read;not null;default:false"`
	EmailedAt     *time.Time `gorm:"column:emailed_at"`
	DeliveryError string     `gorm:"column:delivery_error"`
	Attempts      int        `gorm:"column:attempts;not null;default:0"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
