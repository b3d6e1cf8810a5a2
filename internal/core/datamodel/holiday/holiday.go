package holiday

import "time"

type Holiday struct {
	ID        int64     `gorm:"primaryKey"`
	Date      time.Time `gorm:"column:date;not null;uniqueIndex:idx_holiday_date_name"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_holiday_date_name"`
	Type      string    `gorm:"column:type;not null;default:national"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Holiday) TableName() string {
	return "holidays"
}
