package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	holidayDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/holiday"
	"github.com/frahmantamala/leave-management/internal/holiday"
	"gorm.io/gorm"
)

type HolidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

var _ holiday.RepositoryAPI = (*HolidayRepository)(nil)

func (r *HolidayRepository) List(ctx context.Context) ([]*holiday.Holiday, error) {
	var rows []*holidayDatamodel.Holiday
	if err := database.Conn(ctx, r.db).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *HolidayRepository) Between(ctx context.Context, from, to time.Time) ([]*holiday.Holiday, error) {
	var rows []*holidayDatamodel.Holiday
	err := database.Conn(ctx, r.db).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *HolidayRepository) Create(ctx context.Context, h *holiday.Holiday) error {
	row := holiday.ToDataModel(h)
	if err := database.Conn(ctx, r.db).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.NewConflictError("holiday already exists for this date", internal.ErrCodeDuplicateHoliday)
		}
		return err
	}
	h.ID = row.ID
	return nil
}

func (r *HolidayRepository) DeleteByDate(ctx context.Context, date time.Time) (int64, error) {
	res := database.Conn(ctx, r.db).Where("date = ?", date).Delete(&holidayDatamodel.Holiday{})
	return res.RowsAffected, res.Error
}

func toDomain(rows []*holidayDatamodel.Holiday) []*holiday.Holiday {
	out := make([]*holiday.Holiday, 0, len(rows))
	for _, row := range rows {
		out = append(out, holiday.FromDataModel(row))
	}
	return out
}

// isUniqueViolation covers both postgres (23505) and sqlite wording.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
