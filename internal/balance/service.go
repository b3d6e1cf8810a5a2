package balance

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/category"
)

type RepositoryAPI interface {
	Store
	ListByEmployee(ctx context.Context, employeeID string) ([]*Balance, error)
	ListAll(ctx context.Context) ([]*Balance, error)
	SetAllocation(ctx context.Context, employeeID, categoryID string, allocated int) error
}

type Service struct {
	repo    RepositoryAPI
	catalog *category.Catalog
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, catalog *category.Catalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *Service) GetBalances(ctx context.Context, employeeID string) ([]BalanceView, error) {
	balances, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list balances", "employee_id", employeeID, "error", err)
		return nil, err
	}
	return s.views(balances), nil
}

func (s *Service) ListAll(ctx context.Context) ([]BalanceView, error) {
	balances, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all balances", "error", err)
		return nil, err
	}
	return s.views(balances), nil
}

// SetAllocation lets an admin change the yearly quota; used and pending are untouched.
func (s *Service) SetAllocation(ctx context.Context, dto SetAllocationDTO) (*BalanceView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	cat, ok := s.catalog.Get(dto.CategoryID)
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}

	if err := s.repo.SetAllocation(ctx, dto.EmployeeID, dto.CategoryID, dto.Allocated); err != nil {
		s.logger.Error("failed to set allocation",
			"employee_id", dto.EmployeeID,
			"category_id", dto.CategoryID,
			"error", err)
		return nil, err
	}

	b, err := s.repo.Get(ctx, dto.EmployeeID, dto.CategoryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave allocation updated",
		"employee_id", dto.EmployeeID,
		"category_id", dto.CategoryID,
		"allocated", dto.Allocated)

	view := NewBalanceView(b, cat)
	return &view, nil
}

func (s *Service) views(balances []*Balance) []BalanceView {
	views := make([]BalanceView, 0, len(balances))
	for _, b := range balances {
		cat, ok := s.catalog.Get(b.CategoryID)
		if !ok {
			cat = category.Category{ID: b.CategoryID, Name: b.CategoryID}
		}
		views = append(views, NewBalanceView(b, cat))
	}
	return views
}
