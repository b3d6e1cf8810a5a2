package balance

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal/category"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
)

// Balance is the allocated/used/pending triad for one employee and category.
type Balance struct {
	EmployeeID string    `json:"employee_id"`
	CategoryID string    `json:"category_id"`
	Allocated  int       `json:"allocated"`
	Used       int       `json:"used"`
	Pending    int       `json:"pending"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Available never reports less than zero, even when LOP pushed used+pending past the allocation.
func (b *Balance) Available() int {
	if b == nil {
		return 0
	}
	if avail := b.Allocated - b.Used - b.Pending; avail > 0 {
		return avail
	}
	return 0
}

// Store is the single mutation point for balance counters.
type Store interface {
	Get(ctx context.Context, employeeID, categoryID string) (*Balance, error)
	// Adjust applies both deltas in one guarded update; it fails instead of letting a counter go negative.
	Adjust(ctx context.Context, employeeID, categoryID string, usedDelta, pendingDelta int) error
	Initialize(ctx context.Context, employeeID string, categories []category.Category) error
}

func FromDataModel(b *balanceDatamodel.LeaveBalance) *Balance {
	return &Balance{
		EmployeeID: b.EmployeeID,
		CategoryID: b.CategoryID,
		Allocated:  b.Allocated,
		Used:       b.Used,
		Pending:    b.Pending,
		UpdatedAt:  b.UpdatedAt,
	}
}
