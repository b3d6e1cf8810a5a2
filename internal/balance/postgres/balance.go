package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/core/database"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

var _ balance.RepositoryAPI = (*BalanceRepository)(nil)

func (r *BalanceRepository) Get(ctx context.Context, employeeID, categoryID string) (*balance.Balance, error) {
	var row balanceDatamodel.LeaveBalance
	err := database.Conn(ctx, r.db).
		Where("employee_id = ? AND category_id = ?", employeeID, categoryID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBalanceNotFound
		}
		return nil, err
	}
	return balance.FromDataModel(&row), nil
}

// Adjust is a single conditional UPDATE so concurrent writers on the same key
// cannot interleave a read-modify-write. A raise of used+pending must also fit
// inside the allocation.
func (r *BalanceRepository) Adjust(ctx context.Context, employeeID, categoryID string, usedDelta, pendingDelta int) error {
	if usedDelta == 0 && pendingDelta == 0 {
		return nil
	}
	total := usedDelta + pendingDelta

	conn := database.Conn(ctx, r.db)
	res := conn.Model(&balanceDatamodel.LeaveBalance{}).
		Where("employee_id = ? AND category_id = ?", employeeID, categoryID).
		Where("used + ? >= 0 AND pending + ? >= 0", usedDelta, pendingDelta).
		Where("(? <= 0 OR used + pending + ? <= allocated)", total, total).
		Updates(map[string]interface{}{
			"used":       gorm.Expr("used + ?", usedDelta),
			"pending":    gorm.Expr("pending + ?", pendingDelta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := r.Get(ctx, employeeID, categoryID)
	if err != nil {
		return err
	}
	if current.Used+usedDelta < 0 || current.Pending+pendingDelta < 0 {
		return internal.ErrBalanceWouldGoNegative
	}
	return internal.ErrAllocationExceeded
}

func (r *BalanceRepository) Initialize(ctx context.Context, employeeID string, categories []category.Category) error {
	if len(categories) == 0 {
		return nil
	}
	rows := make([]balanceDatamodel.LeaveBalance, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, balanceDatamodel.LeaveBalance{
			EmployeeID: employeeID,
			CategoryID: cat.ID,
			Allocated:  cat.MaxDays,
		})
	}
	return database.Conn(ctx, r.db).Create(&rows).Error
}

func (r *BalanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*balance.Balance, error) {
	var rows []*balanceDatamodel.LeaveBalance
	err := database.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("category_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *BalanceRepository) ListAll(ctx context.Context) ([]*balance.Balance, error) {
	var rows []*balanceDatamodel.LeaveBalance
	err := database.Conn(ctx, r.db).
		Order("employee_id ASC, category_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *BalanceRepository) SetAllocation(ctx context.Context, employeeID, categoryID string, allocated int) error {
	row := balanceDatamodel.LeaveBalance{
		EmployeeID: employeeID,
		CategoryID: categoryID,
		Allocated:  allocated,
		UpdatedAt:  time.Now().UTC(),
	}
	return database.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"allocated", "updated_at"}),
	}).Create(&row).Error
}

func toDomain(rows []*balanceDatamodel.LeaveBalance) []*balance.Balance {
	out := make([]*balance.Balance, 0, len(rows))
	for _, row := range rows {
		out = append(out, balance.FromDataModel(row))
	}
	return out
}
