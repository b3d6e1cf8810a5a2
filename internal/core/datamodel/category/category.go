package category

import "time"

type LeaveCategory struct {
	ID                    string    `gorm:"primaryKey;column:id;size:32"`
	Name                  string    `gorm:"column:name;not null"`
	Code                  string    `gorm:"column:code;uniqueIndex;not null"`
	Color                 string    `gorm:"column:color"`
	MaxDays               int       `gorm:"column:max_days;not null"`
	CarryForward          bool      `gorm:"column:carry_forward"`
	DocumentationRequired bool      `gorm:"column:documentation_required"`
	Description           string    `gorm:"column:description"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LeaveCategory) TableName() string {
	return "leave_categories"
}
