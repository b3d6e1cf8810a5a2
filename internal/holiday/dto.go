package holiday

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

type CreateHolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (d *CreateHolidayDTO) Validate() (time.Time, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.ToLower(strings.TrimSpace(d.Type))

	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if d.Name == "" {
		return time.Time{}, internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	switch d.Type {
	case "":
		d.Type = TypeNational
	case TypeNational, TypeFestival, TypeOptional:
	default:
		return time.Time{}, internal.NewValidationFieldError("type", "type must be national, festival or optional", internal.ErrCodeValidationFailed)
	}
	return date, nil
}

type HolidaysResponse struct {
	Holidays []*Holiday `json:"holidays"`
}
