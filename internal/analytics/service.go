package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/leave"
)

type RepositoryAPI interface {
	LOPByCategory(ctx context.Context, employeeID string, from, to time.Time) ([]CategoryLOP, error)
	ApprovedTotals(ctx context.Context, employeeID string, from, to time.Time) (ApprovedTotals, error)
	PendingCount(ctx context.Context, employeeID string) (int, error)
	TeamStats(ctx context.Context, managerID string, from, to time.Time) ([]TeamMember, error)
	EmployeesByRole(ctx context.Context) ([]Count, error)
	EmployeesByDepartment(ctx context.Context) ([]Count, error)
	RequestsByStatus(ctx context.Context, from, to time.Time) ([]Count, error)
	HolidaysByType(ctx context.Context) ([]Count, error)
	Register(ctx context.Context, from, to time.Time) ([]RegisterRow, error)
}

type BalanceReader interface {
	GetBalances(ctx context.Context, employeeID string) ([]balance.BalanceView, error)
}

type Service struct {
	repo          RepositoryAPI
	balances      BalanceReader
	maxLOPPerYear int
	loc           *time.Location
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(repo RepositoryAPI, balances BalanceReader, maxLOPPerYear int, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:          repo,
		balances:      balances,
		maxLOPPerYear: maxLOPPerYear,
		loc:           loc,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CurrentYear is the calendar year in the configured timezone.
func (s *Service) CurrentYear() int {
	return s.now().In(s.loc).Year()
}

func (s *Service) resolveYear(year int) (int, error) {
	if year == 0 {
		return s.CurrentYear(), nil
	}
	if year < 1970 || year > 9999 {
		return 0, internal.NewValidationFieldError("year", "year is out of range", internal.ErrCodeInvalidDate)
	}
	return year, nil
}

func (s *Service) LOP(ctx context.Context, employeeID string, year int) (*LOPAnalytics, error) {
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	from, to := leave.YearBounds(year)

	rows, err := s.repo.LOPByCategory(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("failed to load lop analytics", "employee_id", employeeID, "year", year, "error", err)
		return nil, err
	}

	result := &LOPAnalytics{
		Year:          year,
		Breakdown:     make(map[string]int, len(rows)),
		MaxLOPPerYear: s.maxLOPPerYear,
	}
	for _, row := range rows {
		result.Breakdown[row.CategoryID] = row.LOPDays
		result.TotalLOPDays += row.LOPDays
	}
	result.RemainingLOPDays = max(0, s.maxLOPPerYear-result.TotalLOPDays)
	result.UtilizationPercent = utilization(result.TotalLOPDays, s.maxLOPPerYear)
	return result, nil
}

func (s *Service) Summary(ctx context.Context, employeeID string, year int) (*Summary, error) {
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	from, to := leave.YearBounds(year)

	totals, err := s.repo.ApprovedTotals(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("failed to load approved totals", "employee_id", employeeID, "error", err)
		return nil, err
	}
	pending, err := s.repo.PendingCount(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	balances, err := s.balances.GetBalances(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Year:             year,
		ApprovedRequests: totals.Requests,
		ApprovedDays:     totals.Days,
		PendingRequests:  pending,
		Balances:         balances,
	}, nil
}

// Team reports direct reports to a manager and the whole organization to the admin.
func (s *Service) Team(ctx context.Context, caller *internal.Caller, year int) (*TeamResponse, error) {
	var managerID string
	switch {
	case caller.IsAdmin():
	case caller.IsManager():
		managerID = caller.EmployeeID
	default:
		return nil, internal.ErrUnauthorizedAccess
	}

	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	from, to := leave.YearBounds(year)

	members, err := s.repo.TeamStats(ctx, managerID, from, to)
	if err != nil {
		s.logger.Error("failed to load team analytics", "caller_id", caller.EmployeeID, "error", err)
		return nil, err
	}
	if members == nil {
		members = []TeamMember{}
	}
	return &TeamResponse{Year: year, Members: members}, nil
}

func (s *Service) Organization(ctx context.Context, year int) (*OrgAnalytics, error) {
	year, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}
	from, to := leave.YearBounds(year)

	byRole, err := s.repo.EmployeesByRole(ctx)
	if err != nil {
		return nil, err
	}
	byDept, err := s.repo.EmployeesByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.RequestsByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.HolidaysByType(ctx)
	if err != nil {
		return nil, err
	}

	return &OrgAnalytics{
		Year:          year,
		EmployeesRole: newBreakdown(byRole),
		EmployeesDept: newBreakdown(byDept),
		Leaves:        newBreakdown(byStatus),
		Holidays:      newBreakdown(byType),
	}, nil
}
