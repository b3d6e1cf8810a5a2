package balance

import (
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/category"
)

type SetAllocationDTO struct {
	EmployeeID string `json:"employee_id"`
	CategoryID string `json:"category_id"`
	Allocated  int    `json:"allocated"`
}

func (d *SetAllocationDTO) Validate() error {
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
	d.CategoryID = strings.TrimSpace(d.CategoryID)
	if d.EmployeeID == "" {
		return internal.NewValidationFieldError("employee_id", "employee id is required", internal.ErrCodeValidationFailed)
	}
	if d.CategoryID == "" {
		return internal.NewValidationFieldError("category_id", "category id is required", internal.ErrCodeInvalidCategory)
	}
	if d.Allocated < 0 {
		return internal.NewValidationFieldError("allocated", "allocated days cannot be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

// BalanceView joins a balance with its category for display.
type BalanceView struct {
	Balance
	Available     int    `json:"available"`
	CategoryName  string `json:"category_name"`
	CategoryCode  string `json:"category_code"`
	CategoryColor string `json:"category_color"`
}

func NewBalanceView(b *Balance, cat category.Category) BalanceView {
	return BalanceView{
		Balance:       *b,
		Available:     b.Available(),
		CategoryName:  cat.Name,
		CategoryCode:  cat.Code,
		CategoryColor: cat.Color,
	}
}

type BalancesResponse struct {
	Balances []BalanceView `json:"balances"`
}
