package employee

import "time"

type Employee struct {
	ID            string    `gorm:"primaryKey;column:id;size:32"`
	Name          string    `gorm:"column:name;not null"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	PersonalEmail string    `gorm:"column:personal_email"`
	Role          string    `gorm:"column:role;not null"`
	Department    string    `gorm:"column:department"`
	ManagerID     *string   `gorm:"column:manager_id;size:32;index"`
	PasswordHash  string    `gorm:"column:password_hash"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
