package employee

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	DeleteCascade(ctx context.Context, id string) error
	PendingApprovalOwners(ctx context.Context, approverID string) ([]string, error)
	ReassignPending(ctx context.Context, employeeID, fromApproverID, toApproverID string) error
}

type BalanceInitializer interface {
	Initialize(ctx context.Context, employeeID string, categories []category.Category) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo     RepositoryAPI
	balances BalanceInitializer
	catalog  *category.Catalog
	hasher   PasswordHasher
	tx       database.Transactor
	logger   *slog.Logger

	dir atomic.Pointer[Directory]
	// writes serializes changes to the org chart so each is validated against the latest tree
	writes sync.Mutex
}

func NewService(repo RepositoryAPI, balances BalanceInitializer, catalog *category.Catalog, hasher PasswordHasher, tx database.Transactor, logger *slog.Logger) *Service {
	s := &Service{
		repo:     repo,
		balances: balances,
		catalog:  catalog,
		hasher:   hasher,
		tx:       tx,
		logger:   logger,
	}
	empty, _ := NewDirectory(nil)
	s.dir.Store(empty)
	return s
}

// Reload rebuilds the directory from storage, failing on an invalid org chart.
func (s *Service) Reload(ctx context.Context) error {
	employees, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	dir, err := NewDirectory(employees)
	if err != nil {
		s.logger.Error("org hierarchy is invalid", "error", err)
		return err
	}
	s.dir.Store(dir)
	s.logger.Info("org directory loaded", "employees", dir.Len())
	return nil
}

func (s *Service) Directory() *Directory {
	return s.dir.Load()
}

func (s *Service) ResolveApprover(ctx context.Context, employeeID string) (*Employee, error) {
	return s.Directory().ResolveApprover(employeeID)
}

func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	e, ok := s.Directory().Get(id)
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

// LookupCaller resolves an authenticated employee id to a request identity.
func (s *Service) LookupCaller(ctx context.Context, id string) (*internal.Caller, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.ToCaller(), nil
}

func (s *Service) ListEmployees(ctx context.Context) []*Employee {
	return s.Directory().All()
}

// Team returns direct reports for a manager and everyone else for the admin.
func (s *Service) Team(ctx context.Context, caller *internal.Caller) ([]*Employee, error) {
	dir := s.Directory()
	switch caller.Role {
	case RoleAdmin:
		var out []*Employee
		for _, e := range dir.All() {
			if e.ID != caller.EmployeeID {
				out = append(out, e)
			}
		}
		return out, nil
	case RoleManager:
		return dir.DirectReports(caller.EmployeeID), nil
	default:
		return nil, internal.ErrUnauthorizedAccess
	}
}

func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	if _, exists := s.Directory().Get(dto.ID); exists {
		return nil, internal.NewConflictError("employee id already exists", internal.ErrCodeDuplicateEmployee)
	}

	role, _ := ParseRole(dto.Role)
	emp := &Employee{
		ID:            dto.ID,
		Name:          dto.Name,
		Email:         dto.Email,
		PersonalEmail: dto.PersonalEmail,
		Role:          role,
		Department:    dto.Department,
		ManagerID:     dto.ManagerID,
	}

	candidate := append(s.Directory().All(), emp)
	if _, err := NewDirectory(candidate); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	model := ToDataModel(emp)
	model.PasswordHash = hash

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, model); err != nil {
			return err
		}
		return s.balances.Initialize(ctx, emp.ID, s.catalog.All())
	})
	if err != nil {
		s.logger.Error("failed to create employee", "employee_id", emp.ID, "error", err)
		return nil, err
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"role", emp.Role.Name(),
		"manager_id", emp.ManagerID)

	created, _ := s.Directory().Get(emp.ID)
	return created, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	current, ok := s.Directory().Get(id)
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}

	updated := *current
	dto.apply(&updated)

	var candidate []*Employee
	for _, e := range s.Directory().All() {
		if e.ID == id {
			candidate = append(candidate, &updated)
			continue
		}
		candidate = append(candidate, e)
	}
	if _, err := NewDirectory(candidate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ToDataModel(&updated)); err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, err
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id)
	result, _ := s.Directory().Get(id)
	return result, nil
}

// DeleteEmployee removes the employee with their balances, requests and
// notifications, and detaches their reports. Pending requests waiting on the
// employee move to each owner's new approver, or to the admin when the owner
// is left without one.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	if _, ok := s.Directory().Get(id); !ok {
		return internal.ErrEmployeeNotFound
	}

	var candidate []*Employee
	for _, e := range s.Directory().All() {
		if e.ID == id {
			continue
		}
		if e.ManagerID == id {
			detached := *e
			detached.ManagerID = ""
			e = &detached
		}
		candidate = append(candidate, e)
	}
	next, err := NewDirectory(candidate)
	if err != nil {
		return err
	}

	reassigned := 0
	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return err
		}
		owners, err := s.repo.PendingApprovalOwners(ctx, id)
		if err != nil {
			return err
		}
		for _, owner := range owners {
			approver, err := next.fallbackApprover(owner)
			if err != nil {
				return err
			}
			if err := s.repo.ReassignPending(ctx, owner, id, approver.ID); err != nil {
				return err
			}
			reassigned++
		}
		return nil
	}); err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return err
	}

	if err := s.Reload(ctx); err != nil {
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id, "reassigned_owners", reassigned)
	return nil
}

func (s *Service) loadAll(ctx context.Context) ([]*Employee, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load employees", "error", err)
		return nil, err
	}

	employees := make([]*Employee, 0, len(rows))
	var errs []error
	for _, row := range rows {
		e, err := FromDataModel(row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		employees = append(employees, e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return employees, nil
}
