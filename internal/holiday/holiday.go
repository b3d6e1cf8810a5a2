package holiday

import (
	"time"

	holidayDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/holiday"
)

const (
	TypeNational = "national"
	TypeFestival = "festival"
	TypeOptional = "optional"
)

type Holiday struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

func (h Holiday) DateString() string {
	return h.Date.Format("2006-01-02")
}

func FromDataModel(m *holidayDatamodel.Holiday) *Holiday {
	return &Holiday{
		ID:   m.ID,
		Date: m.Date.UTC(),
		Name: m.Name,
		Type: m.Type,
	}
}

func ToDataModel(h *Holiday) *holidayDatamodel.Holiday {
	return &holidayDatamodel.Holiday{
		ID:   h.ID,
		Date: h.Date,
		Name: h.Name,
		Type: h.Type,
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// Calendar2025 is the public holiday list shipped with the seed data.
func Calendar2025() []Holiday {
	return []Holiday{
		{Date: day("2025-01-01"), Name: "New Year Day", Type: TypeNational},
		{Date: day("2025-01-26"), Name: "Republic Day", Type: TypeNational},
		{Date: day("2025-03-14"), Name: "Holi", Type: TypeFestival},
		{Date: day("2025-04-14"), Name: "Good Friday", Type: TypeFestival},
		{Date: day("2025-08-15"), Name: "Independence Day", Type: TypeNational},
		{Date: day("2025-10-02"), Name: "Gandhi Jayanti", Type: TypeNational},
		{Date: day("2025-10-24"), Name: "Dussehra", Type: TypeFestival},
		{Date: day("2025-11-12"), Name: "Diwali", Type: TypeFestival},
		{Date: day("2025-12-25"), Name: "Christmas", Type: TypeFestival},
	}
}
