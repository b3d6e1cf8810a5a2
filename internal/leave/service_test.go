package leave_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/holiday"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLeave(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Suite")
}

type staticDirectory struct {
	dir *employee.Directory
}

func (d staticDirectory) GetEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	e, ok := d.dir.Get(id)
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

func (d staticDirectory) ResolveApprover(ctx context.Context, employeeID string) (*employee.Employee, error) {
	return d.dir.ResolveApprover(employeeID)
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fixedHolidays []*holiday.Holiday

func (f fixedHolidays) InRange(ctx context.Context, from, to time.Time) ([]*holiday.Holiday, error) {
	var out []*holiday.Holiday
	for _, h := range f {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

var _ = Describe("Leave Service", func() {
	var (
		svc       *leave.Service
		repo      *leavePostgres.LeaveRepository
		balances  *balancePostgres.BalanceRepository
		publisher *recordingPublisher
		ctx       context.Context
		withCap   func(maxLOP int) *leave.Service

		manager = &internal.Caller{EmployeeID: "TSG0094", Name: "Vishal", Role: "manager"}
		admin   = &internal.Caller{EmployeeID: "TSG0019", Name: "Teja", Role: "admin"}
	)

	// 2025-08-01 is a Friday
	now := time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)

	currentBalance := func(categoryID string) *balance.Balance {
		b, err := balances.Get(ctx, "TSG0091", categoryID)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	submit := func(categoryID, start, end string) *leave.SubmitResult {
		result, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
			CategoryID: categoryID,
			StartDate:  start,
			EndDate:    end,
			Reason:     "family function",
		})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	BeforeEach(func() {
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())
		ctx = context.Background()

		catalog, err := category.NewCatalog(category.Defaults())
		Expect(err).NotTo(HaveOccurred())

		dir, err := employee.NewDirectory([]*employee.Employee{
			{ID: "TSG0019", Name: "Teja", Role: employee.AdminRole{}},
			{ID: "TSG0094", Name: "Vishal", Role: employee.ManagerRole{}, ManagerID: "TSG0019"},
			{ID: "TSG0091", Name: "Suraj", Role: employee.StaffRole{}, ManagerID: "TSG0094"},
		})
		Expect(err).NotTo(HaveOccurred())

		repo = leavePostgres.NewLeaveRepository(db)
		balances = balancePostgres.NewBalanceRepository(db)
		Expect(balances.Initialize(ctx, "TSG0091", catalog.All())).To(Succeed())
		Expect(balances.Initialize(ctx, "TSG0094", catalog.All())).To(Succeed())

		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		withCap = func(maxLOP int) *leave.Service {
			return leave.NewService(
				repo,
				balances,
				database.NewTransactor(db),
				staticDirectory{dir: dir},
				catalog,
				fixedHolidays{{Name: "Independence Day", Date: date("2025-08-15")}},
				publisher,
				leave.Options{MaxLOPPerYear: maxLOP, Location: time.UTC, Now: func() time.Time { return now }},
				logger,
			)
		}
		svc = withCap(10)
	})

	Describe("Submit", func() {
		It("should hold the requested days on the pending counter", func() {
			// When
			result := submit("casual", "2025-08-04", "2025-08-08")

			// Then
			Expect(result.Request.Status).To(Equal(leave.StatusPending))
			Expect(result.Request.Days).To(Equal(5))
			Expect(result.Request.ApproverID).To(Equal("TSG0094"))
			Expect(result.LOPDays).To(BeZero())
			Expect(result.Request.PendingHeld).To(Equal(5))

			b := currentBalance("casual")
			Expect(b.Pending).To(Equal(5))
			Expect(b.Used).To(BeZero())
			Expect(publisher.types()).To(ConsistOf(events.EventTypeLeaveSubmitted))
		})

		It("should split the request into held days and LOP", func() {
			// Given
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 10, 0)).To(Succeed())

			// When
			result := submit("casual", "2025-08-04", "2025-08-08")

			// Then
			Expect(result.AvailableDays).To(Equal(2))
			Expect(result.LOPDays).To(Equal(3))
			Expect(result.Request.IsLOP).To(BeTrue())
			Expect(result.Request.PendingHeld).To(Equal(2))
			Expect(currentBalance("casual").Pending).To(Equal(2))
		})

		It("should leave counters untouched for a fully LOP request", func() {
			Expect(balances.Adjust(ctx, "TSG0091", "academic", 5, 0)).To(Succeed())

			result := submit("academic", "2025-08-04", "2025-08-05")

			Expect(result.LOPDays).To(Equal(2))
			b := currentBalance("academic")
			Expect(b.Used).To(Equal(5))
			Expect(b.Pending).To(BeZero())
		})

		It("should reject a request that breaches the annual LOP cap", func() {
			// Given
			Expect(repo.Create(ctx, &leave.Request{
				ID: "history", EmployeeID: "TSG0091", CategoryID: "casual",
				StartDate: date("2025-03-03"), EndDate: date("2025-03-11"), Days: 9,
				Status: leave.StatusApproved, AppliedDate: date("2025-02-20"), ApproverID: "TSG0094",
				LOPDays: 9, IsLOP: true,
			})).To(Succeed())
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 12, 0)).To(Succeed())

			// When
			_, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
				CategoryID: "casual", StartDate: "2025-08-04", EndDate: "2025-08-05", Reason: "trip",
			})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeLimitExceeded))
			Expect(appErr.Details).To(Equal(internal.LimitDetails{
				TotalUsed: 9, Requested: 2, Remaining: 1, ExceedsBy: 1, Max: 10,
			}))

			requests, _ := svc.ListForEmployee(ctx, "TSG0091")
			Expect(requests).To(HaveLen(1))
		})

		It("should refuse any LOP when the annual cap is zero", func() {
			// Given
			svc = withCap(0)
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 12, 0)).To(Succeed())

			// When
			_, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
				CategoryID: "casual", StartDate: "2025-08-04", EndDate: "2025-08-04", Reason: "trip",
			})

			// Then
			Expect(svc.MaxLOPPerYear()).To(BeZero())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeLimitExceeded))
			Expect(appErr.Details).To(Equal(internal.LimitDetails{
				TotalUsed: 0, Requested: 1, Remaining: 0, ExceedsBy: 1, Max: 0,
			}))
		})

		It("should accept covered days when the annual cap is zero", func() {
			svc = withCap(0)

			result := submit("casual", "2025-08-04", "2025-08-05")

			Expect(result.LOPDays).To(BeZero())
			Expect(result.Request.PendingHeld).To(Equal(2))
		})

		It("should only count approved LOP from the same year", func() {
			Expect(repo.Create(ctx, &leave.Request{
				ID: "last-year", EmployeeID: "TSG0091", CategoryID: "casual",
				StartDate: date("2024-12-20"), EndDate: date("2024-12-28"), Days: 9,
				Status: leave.StatusApproved, AppliedDate: date("2024-12-01"), ApproverID: "TSG0094",
				LOPDays: 9, IsLOP: true,
			})).To(Succeed())
			Expect(repo.Create(ctx, &leave.Request{
				ID: "pending-lop", EmployeeID: "TSG0091", CategoryID: "casual",
				StartDate: date("2025-02-03"), EndDate: date("2025-02-11"), Days: 9,
				Status: leave.StatusPending, AppliedDate: date("2025-01-20"), ApproverID: "TSG0094",
				LOPDays: 9, IsLOP: true,
			})).To(Succeed())

			status, err := svc.CheckAnnualCap(ctx, "TSG0091", 2025, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(status.TotalUsed).To(BeZero())
			Expect(status.WithinLimit).To(BeTrue())
		})

		It("should flag conflicts without blocking", func() {
			first := submit("casual", "2025-08-11", "2025-08-15")
			_, err := svc.Decide(ctx, first.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())

			result := submit("sick", "2025-08-10", "2025-08-12")

			Expect(result.Request.HasConflicts).To(BeTrue())
			Expect(result.Conflicts).To(HaveLen(1))
			Expect(result.Conflicts[0].Kind).To(Equal(leave.OverlapStart))

			stored, err := svc.GetRequest(ctx, result.Request.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Conflicts).To(HaveLen(1))
			Expect(stored.Conflicts[0].RequestID).To(Equal(first.Request.ID))
		})

		It("should warn about weekends and holidays in the range", func() {
			result := submit("vacation", "2025-08-14", "2025-08-18")

			Expect(result.Warnings).To(ContainElement("Request includes 2 weekend day(s)"))
			Expect(result.Warnings).To(ContainElement("Request includes holiday Independence Day on 2025-08-15"))
		})

		It("should refuse admins", func() {
			_, err := svc.Submit(ctx, "TSG0019", leave.SubmitLeaveDTO{
				CategoryID: "casual", StartDate: "2025-08-04", EndDate: "2025-08-05", Reason: "trip",
			})

			Expect(errors.Is(err, internal.ErrAdminCannotSubmit)).To(BeTrue())
		})

		It("should route a manager's request to the admin", func() {
			result, err := svc.Submit(ctx, "TSG0094", leave.SubmitLeaveDTO{
				CategoryID: "casual", StartDate: "2025-08-04", EndDate: "2025-08-05", Reason: "trip",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ApproverID).To(Equal("TSG0019"))
		})

		It("should reject an unknown category", func() {
			_, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
				CategoryID: "sabbatical", StartDate: "2025-08-04", EndDate: "2025-08-05", Reason: "trip",
			})

			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
		})

		It("should reject an end date before the start date", func() {
			_, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
				CategoryID: "casual", StartDate: "2025-08-05", EndDate: "2025-08-04", Reason: "trip",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(currentBalance("casual").Pending).To(BeZero())
		})
	})

	Describe("Decide", func() {
		It("should move held days from pending to used on approval", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			approved, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})

			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(leave.StatusApproved))
			Expect(approved.Comments).To(Equal("Approved by Vishal"))
			Expect(approved.DecidedAt).NotTo(BeNil())
			b := currentBalance("casual")
			Expect(b.Used).To(Equal(5))
			Expect(b.Pending).To(BeZero())
		})

		It("should transfer only the held part of a partially LOP request", func() {
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 10, 0)).To(Succeed())
			result := submit("casual", "2025-08-04", "2025-08-08")

			_, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})

			Expect(err).NotTo(HaveOccurred())
			b := currentBalance("casual")
			Expect(b.Used).To(Equal(12))
			Expect(b.Pending).To(BeZero())

			status, err := svc.CheckAnnualCap(ctx, "TSG0091", 2025, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.TotalUsed).To(Equal(3))
		})

		It("should release the hold on rejection", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			rejected, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{
				Action:          leave.ActionReject,
				RejectionReason: "release freeze",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(leave.StatusRejected))
			Expect(rejected.RejectionReason).To(Equal("release freeze"))
			Expect(rejected.Comments).To(Equal("Rejected by Vishal"))
			b := currentBalance("casual")
			Expect(b.Used).To(BeZero())
			Expect(b.Pending).To(BeZero())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeLeaveSubmitted, events.EventTypeLeaveRejected}))
		})

		It("should fail a second decision and leave the record unchanged", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")
			_, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionReject})

			Expect(errors.Is(err, internal.ErrRequestNotPending)).To(BeTrue())
			stored, _ := svc.GetRequest(ctx, result.Request.ID, manager)
			Expect(stored.Status).To(Equal(leave.StatusApproved))
			b := currentBalance("casual")
			Expect(b.Used).To(Equal(5))
			Expect(b.Pending).To(BeZero())
		})

		It("should let exactly one of two concurrent approvals win", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, errs[i] = svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
				}(i)
			}
			wg.Wait()

			failures := 0
			for _, err := range errs {
				if err != nil {
					Expect(errors.Is(err, internal.ErrRequestNotPending)).To(BeTrue())
					failures++
				}
			}
			Expect(failures).To(Equal(1))
			b := currentBalance("casual")
			Expect(b.Used).To(Equal(5))
			Expect(b.Pending).To(BeZero())
		})

		It("should re-check the annual cap at approval", func() {
			// Given two LOP requests that each passed the cap on submission
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 12, 0)).To(Succeed())
			first := submit("casual", "2025-08-04", "2025-08-09")
			second := submit("casual", "2025-09-01", "2025-09-06")

			// When
			_, err := svc.Decide(ctx, first.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Decide(ctx, second.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeLimitExceeded))
			Expect(appErr.Details.(internal.LimitDetails).ExceedsBy).To(Equal(2))

			stored, _ := svc.GetRequest(ctx, second.Request.ID, manager)
			Expect(stored.Status).To(Equal(leave.StatusPending))
		})

		It("should forbid anyone but the approver", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			_, err := svc.Decide(ctx, result.Request.ID, admin, leave.DecisionDTO{Action: leave.ActionApprove})

			Expect(errors.Is(err, internal.ErrNotRequestApprover)).To(BeTrue())
		})

		It("should reject an unknown action", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			_, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: "escalate"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should report an unknown request", func() {
			_, err := svc.Decide(ctx, "missing", manager, leave.DecisionDTO{Action: leave.ActionApprove})

			Expect(errors.Is(err, internal.ErrRequestNotFound)).To(BeTrue())
		})
	})

	Describe("Cancel", func() {
		It("should cancel a request starting tomorrow and restore the balance", func() {
			result := submit("casual", "2025-08-02", "2025-08-04")
			Expect(currentBalance("casual").Pending).To(Equal(3))

			cancelled, err := svc.Cancel(ctx, result.Request.ID, "TSG0091")

			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled.Status).To(Equal(leave.StatusCancelled))
			Expect(cancelled.Comments).To(Equal("Cancelled by employee on 2025-08-01"))
			Expect(currentBalance("casual").Pending).To(BeZero())
		})

		It("should refuse a request starting today", func() {
			result := submit("casual", "2025-08-01", "2025-08-04")

			_, err := svc.Cancel(ctx, result.Request.ID, "TSG0091")

			Expect(errors.Is(err, internal.ErrCancellationWindow)).To(BeTrue())
			Expect(err.Error()).To(Equal("Leave starting on 2025-08-01 can no longer be cancelled"))
			Expect(currentBalance("casual").Pending).To(Equal(4))
		})

		It("should refuse anyone but the owner", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")

			_, err := svc.Cancel(ctx, result.Request.ID, "TSG0094")

			Expect(errors.Is(err, internal.ErrNotRequestOwner)).To(BeTrue())
		})

		It("should refuse a decided request", func() {
			result := submit("casual", "2025-08-04", "2025-08-08")
			_, err := svc.Decide(ctx, result.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Cancel(ctx, result.Request.ID, "TSG0091")

			Expect(errors.Is(err, internal.ErrRequestNotPending)).To(BeTrue())
			Expect(currentBalance("casual").Used).To(Equal(5))
		})

		It("should release only the held part of a partially LOP request", func() {
			Expect(balances.Adjust(ctx, "TSG0091", "casual", 10, 0)).To(Succeed())
			result := submit("casual", "2025-08-04", "2025-08-08")

			_, err := svc.Cancel(ctx, result.Request.ID, "TSG0091")

			Expect(err).NotTo(HaveOccurred())
			b := currentBalance("casual")
			Expect(b.Used).To(Equal(10))
			Expect(b.Pending).To(BeZero())
		})
	})

	Describe("Balance invariants", func() {
		It("should keep counters non-negative through a mixed sequence", func() {
			check := func() {
				b := currentBalance("casual")
				Expect(b.Used).To(BeNumerically(">=", 0))
				Expect(b.Pending).To(BeNumerically(">=", 0))
			}

			a := submit("casual", "2025-08-04", "2025-08-08")
			check()
			_, err := svc.Cancel(ctx, a.Request.ID, "TSG0091")
			Expect(err).NotTo(HaveOccurred())
			check()

			b := submit("casual", "2025-08-11", "2025-08-20")
			check()
			c := submit("casual", "2025-09-01", "2025-09-05")
			check()
			Expect(c.LOPDays).To(Equal(3))

			_, err = svc.Decide(ctx, b.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionReject})
			Expect(err).NotTo(HaveOccurred())
			check()
			_, err = svc.Decide(ctx, c.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())
			check()

			final := currentBalance("casual")
			Expect(final.Used).To(Equal(2))
			Expect(final.Pending).To(BeZero())
		})
	})

	Describe("Queries", func() {
		It("should list the approver's pending inbox", func() {
			submit("casual", "2025-08-04", "2025-08-05")
			done := submit("sick", "2025-08-11", "2025-08-12")
			_, err := svc.Decide(ctx, done.Request.ID, manager, leave.DecisionDTO{Action: leave.ActionApprove})
			Expect(err).NotTo(HaveOccurred())

			inbox, err := svc.ListPendingApprovals(ctx, "TSG0094")

			Expect(err).NotTo(HaveOccurred())
			Expect(inbox).To(HaveLen(1))
			Expect(inbox[0].CategoryID).To(Equal("casual"))
		})

		It("should hide a request from unrelated employees", func() {
			result := submit("casual", "2025-08-04", "2025-08-05")

			_, err := svc.GetRequest(ctx, result.Request.ID, &internal.Caller{EmployeeID: "TSG0092", Role: "employee"})

			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})

		It("should preview conflicts for a candidate range", func() {
			existing := submit("casual", "2025-08-11", "2025-08-15")

			conflicts, err := svc.FindConflicts(ctx, "TSG0091", "2025-08-14", "2025-08-18", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(conflicts).To(HaveLen(1))
			Expect(conflicts[0].Kind).To(Equal(leave.OverlapEnd))

			conflicts, err = svc.FindConflicts(ctx, "TSG0091", "2025-08-14", "2025-08-18", existing.Request.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(conflicts).To(BeEmpty())
		})
	})
})

var _ = Describe("Leave Service with org changes", func() {
	var (
		svc       *leave.Service
		employees *employee.Service
		balances  *balancePostgres.BalanceRepository
		ctx       context.Context

		admin = &internal.Caller{EmployeeID: "TSG0019", Name: "Teja", Role: "admin"}
	)

	now := time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)

	BeforeEach(func() {
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())
		ctx = context.Background()

		catalog, err := category.NewCatalog(category.Defaults())
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tx := database.NewTransactor(db)
		balances = balancePostgres.NewBalanceRepository(db)
		employees = employee.NewService(employeePostgres.NewEmployeeRepository(db), balances, catalog, plainHasher{}, tx, logger)

		for _, dto := range []employee.CreateEmployeeDTO{
			{ID: "TSG0019", Name: "Teja", Email: "teja@tensor.test", Role: "admin", Password: "password123"},
			{ID: "TSG0094", Name: "Vishal", Email: "vishal@tensor.test", Role: "manager", ManagerID: "TSG0019", Password: "password123"},
			{ID: "TSG0091", Name: "Suraj", Email: "suraj@tensor.test", Role: "employee", ManagerID: "TSG0094", Password: "password123"},
		} {
			_, err := employees.CreateEmployee(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
		}

		svc = leave.NewService(
			leavePostgres.NewLeaveRepository(db),
			balances,
			tx,
			employees,
			catalog,
			fixedHolidays{},
			&recordingPublisher{},
			leave.Options{MaxLOPPerYear: 10, Location: time.UTC, Now: func() time.Time { return now }},
			logger,
		)
	})

	It("should let the admin decide requests left by a deleted manager", func() {
		// Given
		result, err := svc.Submit(ctx, "TSG0091", leave.SubmitLeaveDTO{
			CategoryID: "casual", StartDate: "2025-08-04", EndDate: "2025-08-05", Reason: "family function",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Request.ApproverID).To(Equal("TSG0094"))

		// When
		Expect(employees.DeleteEmployee(ctx, "TSG0094")).To(Succeed())

		// Then
		inbox, err := svc.ListPendingApprovals(ctx, admin.EmployeeID)
		Expect(err).NotTo(HaveOccurred())
		Expect(inbox).To(HaveLen(1))
		Expect(inbox[0].ID).To(Equal(result.Request.ID))

		decided, err := svc.Decide(ctx, result.Request.ID, admin, leave.DecisionDTO{Action: leave.ActionApprove})
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(leave.StatusApproved))

		b, err := balances.Get(ctx, "TSG0091", "casual")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Used).To(Equal(2))
		Expect(b.Pending).To(BeZero())
	})
})
