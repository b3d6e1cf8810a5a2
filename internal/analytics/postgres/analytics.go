package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal/analytics"
	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository runs the reporting queries with sqlx. Statements are
// written with "?" and rebound for the connected driver.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ analytics.RepositoryAPI = (*AnalyticsRepository)(nil)

const (
	statusApproved = "approved"
	statusPending  = "pending"
)

func (r *AnalyticsRepository) LOPByCategory(ctx context.Context, employeeID string, from, to time.Time) ([]analytics.CategoryLOP, error) {
	query := r.db.Rebind(`
		SELECT category_id, SUM(lop_days) AS lop_days
		FROM leave_requests
		WHERE employee_id = ? AND status = ? AND lop_days > 0
		  AND start_date >= ? AND start_date < ?
		GROUP BY category_id
		ORDER BY category_id`)

	var rows []analytics.CategoryLOP
	if err := r.db.SelectContext(ctx, &rows, query, employeeID, statusApproved, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) ApprovedTotals(ctx context.Context, employeeID string, from, to time.Time) (analytics.ApprovedTotals, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) AS requests, COALESCE(SUM(days), 0) AS days
		FROM leave_requests
		WHERE employee_id = ? AND status = ?
		  AND start_date >= ? AND start_date < ?`)

	var totals analytics.ApprovedTotals
	err := r.db.GetContext(ctx, &totals, query, employeeID, statusApproved, from, to)
	return totals, err
}

func (r *AnalyticsRepository) PendingCount(ctx context.Context, employeeID string) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM leave_requests WHERE employee_id = ? AND status = ?`)

	var count int
	err := r.db.GetContext(ctx, &count, query, employeeID, statusPending)
	return count, err
}

// TeamStats lists the manager's direct reports, or every employee when managerID is empty.
func (r *AnalyticsRepository) TeamStats(ctx context.Context, managerID string, from, to time.Time) ([]analytics.TeamMember, error) {
	query := `
		SELECT e.id, e.name, COALESCE(e.department, '') AS department,
		       COUNT(lr.id) AS total_requests,
		       COALESCE(SUM(CASE WHEN lr.status = ? THEN lr.days ELSE 0 END), 0) AS approved_days,
		       COALESCE(SUM(CASE WHEN lr.status = ? THEN 1 ELSE 0 END), 0) AS pending_requests
		FROM employees e
		LEFT JOIN leave_requests lr
		       ON lr.employee_id = e.id AND lr.start_date >= ? AND lr.start_date < ?`
	args := []interface{}{statusApproved, statusPending, from, to}
	if managerID != "" {
		query += ` WHERE e.manager_id = ?`
		args = append(args, managerID)
	}
	query += ` GROUP BY e.id, e.name, e.department ORDER BY e.name`

	var rows []analytics.TeamMember
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) EmployeesByRole(ctx context.Context) ([]analytics.Count, error) {
	return r.counts(ctx, `SELECT role AS label, COUNT(*) AS count FROM employees GROUP BY role ORDER BY role`)
}

func (r *AnalyticsRepository) EmployeesByDepartment(ctx context.Context) ([]analytics.Count, error) {
	return r.counts(ctx, `
		SELECT department AS label, COUNT(*) AS count
		FROM employees
		WHERE department IS NOT NULL AND department <> ''
		GROUP BY department
		ORDER BY department`)
}

func (r *AnalyticsRepository) RequestsByStatus(ctx context.Context, from, to time.Time) ([]analytics.Count, error) {
	return r.counts(ctx, `
		SELECT status AS label, COUNT(*) AS count
		FROM leave_requests
		WHERE start_date >= ? AND start_date < ?
		GROUP BY status
		ORDER BY status`, from, to)
}

func (r *AnalyticsRepository) HolidaysByType(ctx context.Context) ([]analytics.Count, error) {
	return r.counts(ctx, `SELECT type AS label, COUNT(*) AS count FROM holidays GROUP BY type ORDER BY type`)
}

func (r *AnalyticsRepository) Register(ctx context.Context, from, to time.Time) ([]analytics.RegisterRow, error) {
	query := r.db.Rebind(`
		SELECT lr.id, lr.employee_id, e.name AS employee_name,
		       COALESCE(e.department, '') AS department,
		       COALESCE(c.name, lr.category_id) AS category_name,
		       lr.start_date, lr.end_date, lr.days, lr.lop_days, lr.status,
		       COALESCE(a.name, '') AS approver_name,
		       lr.applied_date,
		       COALESCE(lr.comments, '') AS comments
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		LEFT JOIN leave_categories c ON c.id = lr.category_id
		LEFT JOIN employees a ON a.id = lr.approver_id
		WHERE lr.start_date >= ? AND lr.start_date < ?
		ORDER BY lr.start_date, e.name`)

	var rows []analytics.RegisterRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) counts(ctx context.Context, query string, args ...interface{}) ([]analytics.Count, error) {
	var rows []analytics.Count
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}
