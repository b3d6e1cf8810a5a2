package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/category"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	rows       map[string]*employeeDatamodel.Employee
	shouldFail bool
	failError  error
	deleted    []string

	pendingOwners map[string][]string
	reassigned    []string
}

func (m *mockRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var out []*employeeDatamodel.Employee
	for _, r := range m.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	if r, ok := m.rows[id]; ok {
		return r, nil
	}
	return nil, internal.ErrEmployeeNotFound
}

func (m *mockRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	if m.shouldFail {
		return m.failError
	}
	m.rows[e.ID] = e
	return nil
}

func (m *mockRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	if m.shouldFail {
		return m.failError
	}
	e.PasswordHash = m.rows[e.ID].PasswordHash
	m.rows[e.ID] = e
	return nil
}

func (m *mockRepository) DeleteCascade(ctx context.Context, id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rows, id)
	for _, r := range m.rows {
		if r.ManagerID != nil && *r.ManagerID == id {
			r.ManagerID = nil
		}
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepository) PendingApprovalOwners(ctx context.Context, approverID string) ([]string, error) {
	return m.pendingOwners[approverID], nil
}

func (m *mockRepository) ReassignPending(ctx context.Context, employeeID, fromApproverID, toApproverID string) error {
	m.reassigned = append(m.reassigned, employeeID+":"+fromApproverID+"->"+toApproverID)
	return nil
}

type mockBalances struct {
	initialized map[string]int
}

func (m *mockBalances) Initialize(ctx context.Context, employeeID string, categories []category.Category) error {
	m.initialized[employeeID] = len(categories)
	return nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

func seedRows() map[string]*employeeDatamodel.Employee {
	rows := map[string]*employeeDatamodel.Employee{}
	for _, e := range orgChart() {
		rows[e.ID] = employee.ToDataModel(e)
	}
	return rows
}

var _ = Describe("Employee Service", func() {
	var (
		svc      *employee.Service
		repo     *mockRepository
		balances *mockBalances
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = &mockRepository{rows: seedRows()}
		balances = &mockBalances{initialized: map[string]int{}}
		catalog, err := category.NewCatalog(category.Defaults())
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = employee.NewService(repo, balances, catalog, plainHasher{}, inlineTransactor{}, logger)
		ctx = context.Background()
		Expect(svc.Reload(ctx)).To(Succeed())
	})

	Describe("Reload", func() {
		It("should fail on an invalid stored hierarchy", func() {
			// Given
			repo.rows["TSG0010"].ManagerID = strPtr("TSG0091")

			// When
			err := svc.Reload(ctx)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(svc.Directory().Len()).To(Equal(5))
		})
	})

	Describe("CreateEmployee", func() {
		It("should persist the employee and initialize balances", func() {
			dto := employee.CreateEmployeeDTO{
				ID:         "TSG0093",
				Name:       "Dewi",
				Email:      "Dewi@Company.test",
				Role:       "employee",
				Department: "Engineering",
				ManagerID:  "TSG0010",
				Password:   "password123",
			}

			created, err := svc.CreateEmployee(ctx, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Email).To(Equal("dewi@company.test"))
			Expect(repo.rows["TSG0093"].PasswordHash).To(Equal("hashed:password123"))
			Expect(balances.initialized["TSG0093"]).To(Equal(len(category.Defaults())))

			approver, err := svc.ResolveApprover(ctx, "TSG0093")
			Expect(err).NotTo(HaveOccurred())
			Expect(approver.ID).To(Equal("TSG0010"))
		})

		It("should reject a second admin before persisting", func() {
			dto := employee.CreateEmployeeDTO{
				ID: "TSG0002", Name: "Other", Email: "other@company.test",
				Role: "admin", Password: "password123",
			}

			_, err := svc.CreateEmployee(ctx, dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.rows).NotTo(HaveKey("TSG0002"))
		})

		It("should reject a duplicate id", func() {
			dto := employee.CreateEmployeeDTO{
				ID: "TSG0091", Name: "Dup", Email: "dup@company.test",
				Role: "employee", Password: "password123",
			}

			_, err := svc.CreateEmployee(ctx, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmployee))
		})

		It("should reject a short password", func() {
			dto := employee.CreateEmployeeDTO{
				ID: "TSG0094", Name: "Short", Email: "short@company.test",
				Role: "employee", Password: "short",
			}

			_, err := svc.CreateEmployee(ctx, dto)

			Expect(err).To(HaveOccurred())
		})

		It("should surface repository failures", func() {
			repo.shouldFail = true
			repo.failError = errors.New("db down")

			_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeDTO{
				ID: "TSG0095", Name: "X", Email: "x@company.test",
				Role: "employee", Password: "password123",
			})

			Expect(err).To(MatchError("db down"))
			Expect(svc.Directory().Len()).To(Equal(5))
		})
	})

	Describe("UpdateEmployee", func() {
		It("should move an employee to a new manager", func() {
			updated, err := svc.UpdateEmployee(ctx, "TSG0091", employee.UpdateEmployeeDTO{ManagerID: strPtr("TSG0020")})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ManagerID).To(Equal("TSG0020"))
			Expect(svc.Directory().DirectReports("TSG0020")).To(HaveLen(1))
		})

		It("should reject a change that creates a cycle", func() {
			_, err := svc.UpdateEmployee(ctx, "TSG0010", employee.UpdateEmployeeDTO{ManagerID: strPtr("TSG0020")})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.UpdateEmployee(ctx, "TSG0020", employee.UpdateEmployeeDTO{ManagerID: strPtr("TSG0010")})

			Expect(err).To(HaveOccurred())
			Expect(*repo.rows["TSG0010"].ManagerID).To(Equal("TSG0020"))
			Expect(repo.rows["TSG0020"].ManagerID).To(BeNil())
		})

		It("should reject demoting a manager who still has reports", func() {
			_, err := svc.UpdateEmployee(ctx, "TSG0010", employee.UpdateEmployeeDTO{Role: strPtr("employee")})

			Expect(err).To(HaveOccurred())
		})

		It("should return not found for an unknown id", func() {
			_, err := svc.UpdateEmployee(ctx, "NOPE", employee.UpdateEmployeeDTO{Name: strPtr("x")})

			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteEmployee", func() {
		It("should detach direct reports", func() {
			Expect(svc.DeleteEmployee(ctx, "TSG0010")).To(Succeed())

			Expect(repo.deleted).To(ConsistOf("TSG0010"))
			e, err := svc.GetEmployee(ctx, "TSG0091")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ManagerID).To(BeEmpty())
		})

		It("should hand pending approvals of a deleted manager to the admin", func() {
			// Given
			repo.pendingOwners = map[string][]string{"TSG0010": {"TSG0091", "TSG0092"}}

			// When
			err := svc.DeleteEmployee(ctx, "TSG0010")

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.reassigned).To(Equal([]string{
				"TSG0091:TSG0010->TSG0001",
				"TSG0092:TSG0010->TSG0001",
			}))
		})

		It("should refuse to delete the only admin", func() {
			err := svc.DeleteEmployee(ctx, "TSG0001")

			Expect(err).To(HaveOccurred())
			Expect(repo.deleted).To(BeEmpty())
		})
	})

	Describe("Team", func() {
		It("should return direct reports for a manager", func() {
			team, err := svc.Team(ctx, &internal.Caller{EmployeeID: "TSG0010", Role: "manager"})

			Expect(err).NotTo(HaveOccurred())
			Expect(team).To(HaveLen(2))
		})

		It("should return everyone else for the admin", func() {
			team, err := svc.Team(ctx, &internal.Caller{EmployeeID: "TSG0001", Role: "admin"})

			Expect(err).NotTo(HaveOccurred())
			Expect(team).To(HaveLen(4))
		})

		It("should deny staff", func() {
			_, err := svc.Team(ctx, &internal.Caller{EmployeeID: "TSG0091", Role: "employee"})

			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})
	})

	Describe("LookupCaller", func() {
		It("should build a caller from the directory", func() {
			caller, err := svc.LookupCaller(ctx, "TSG0010")

			Expect(err).NotTo(HaveOccurred())
			Expect(caller.Role).To(Equal("manager"))
			Expect(caller.IsManager()).To(BeTrue())
		})
	})
})
