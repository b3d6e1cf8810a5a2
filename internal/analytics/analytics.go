package analytics

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/shopspring/decimal"
)

// LOPAnalytics reports how much of the yearly loss-of-pay allowance an employee has used.
type LOPAnalytics struct {
	Year               int             `json:"year"`
	TotalLOPDays       int             `json:"total_lop_days"`
	Breakdown          map[string]int  `json:"lop_breakdown"`
	MaxLOPPerYear      int             `json:"max_lop_per_year"`
	RemainingLOPDays   int             `json:"remaining_lop_days"`
	UtilizationPercent decimal.Decimal `json:"lop_utilization_percent"`
}

type Summary struct {
	Year             int                   `json:"year"`
	ApprovedRequests int                   `json:"total_leaves_approved"`
	ApprovedDays     int                   `json:"total_days_approved"`
	PendingRequests  int                   `json:"pending_requests"`
	Balances         []balance.BalanceView `json:"leave_balances"`
}

type TeamMember struct {
	EmployeeID      string `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Department      string `db:"department" json:"department"`
	TotalRequests   int    `db:"total_requests" json:"total_requests"`
	ApprovedDays    int    `db:"approved_days" json:"approved_days"`
	PendingRequests int    `db:"pending_requests" json:"pending_requests"`
}

type TeamResponse struct {
	Year    int          `json:"year"`
	Members []TeamMember `json:"members"`
}

type CategoryLOP struct {
	CategoryID string `db:"category_id"`
	LOPDays    int    `db:"lop_days"`
}

type ApprovedTotals struct {
	Requests int `db:"requests"`
	Days     int `db:"days"`
}

// Count is one GROUP BY bucket.
type Count struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

type Breakdown struct {
	Total int            `json:"total"`
	By    map[string]int `json:"by"`
}

func newBreakdown(counts []Count) Breakdown {
	b := Breakdown{By: make(map[string]int, len(counts))}
	for _, c := range counts {
		b.Total += c.Count
		b.By[c.Label] = c.Count
	}
	return b
}

type OrgAnalytics struct {
	Year          int       `json:"year"`
	EmployeesRole Breakdown `json:"employees_by_role"`
	EmployeesDept Breakdown `json:"employees_by_department"`
	Leaves        Breakdown `json:"leaves_by_status"`
	Holidays      Breakdown `json:"holidays_by_type"`
}

// RegisterRow is one line of the exported leave register.
type RegisterRow struct {
	RequestID    string    `db:"id"`
	EmployeeID   string    `db:"employee_id"`
	EmployeeName string    `db:"employee_name"`
	Department   string    `db:"department"`
	CategoryName string    `db:"category_name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	Days         int       `db:"days"`
	LOPDays      int       `db:"lop_days"`
	Status       string    `db:"status"`
	ApproverName string    `db:"approver_name"`
	AppliedDate  time.Time `db:"applied_date"`
	Comments     string    `db:"comments"`
}

var hundred = decimal.NewFromInt(100)

// utilization is used/max as a percentage rounded to one decimal place.
func utilization(used, max int) decimal.Decimal {
	if max <= 0 {
		if used > 0 {
			return hundred
		}
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(used)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(max))).
		Round(1)
}
