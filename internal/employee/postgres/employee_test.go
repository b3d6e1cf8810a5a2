package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestEmployeePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Postgres Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("Employee Repository", func() {
	var (
		db   *gorm.DB
		repo *employeePostgres.EmployeeRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(db)).To(Succeed())

		repo = employeePostgres.NewEmployeeRepository(db)
		ctx = context.Background()

		Expect(repo.Create(ctx, &employeeDatamodel.Employee{
			ID: "TSG0001", Name: "Admin", Email: "admin@company.test", Role: "admin", PasswordHash: "hash-admin",
		})).To(Succeed())
		Expect(repo.Create(ctx, &employeeDatamodel.Employee{
			ID: "TSG0010", Name: "Manager", Email: "manager@company.test", Role: "manager",
			ManagerID: strPtr("TSG0001"), PasswordHash: "hash-manager",
		})).To(Succeed())
		Expect(repo.Create(ctx, &employeeDatamodel.Employee{
			ID: "TSG0091", Name: "Staff", Email: "staff@company.test", Role: "employee",
			ManagerID: strPtr("TSG0010"), PasswordHash: "hash-staff",
		})).To(Succeed())
	})

	Describe("GetAll", func() {
		It("should return employees ordered by id", func() {
			rows, err := repo.GetAll(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].ID).To(Equal("TSG0001"))
			Expect(rows[2].ID).To(Equal("TSG0091"))
		})
	})

	Describe("GetByID", func() {
		It("should return not found for an unknown id", func() {
			_, err := repo.GetByID(ctx, "NOPE")
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("should keep the password hash", func() {
			Expect(repo.Update(ctx, &employeeDatamodel.Employee{
				ID: "TSG0091", Name: "Renamed", Email: "staff@company.test", Role: "employee",
				ManagerID: strPtr("TSG0010"),
			})).To(Succeed())

			row, err := repo.GetByID(ctx, "TSG0091")
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Name).To(Equal("Renamed"))
			Expect(row.PasswordHash).To(Equal("hash-staff"))
		})

		It("should report a missing employee", func() {
			err := repo.Update(ctx, &employeeDatamodel.Employee{ID: "NOPE", Name: "x", Email: "x@company.test", Role: "employee"})
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteCascade", func() {
		It("should remove balances and detach reports", func() {
			Expect(db.Create(&balanceDatamodel.LeaveBalance{EmployeeID: "TSG0010", CategoryID: "casual", Allocated: 12}).Error).To(Succeed())

			Expect(repo.DeleteCascade(ctx, "TSG0010")).To(Succeed())

			var count int64
			db.Model(&balanceDatamodel.LeaveBalance{}).Where("employee_id = ?", "TSG0010").Count(&count)
			Expect(count).To(BeZero())

			row, err := repo.GetByID(ctx, "TSG0091")
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ManagerID).To(BeNil())
		})
	})

	Describe("Pending approvals", func() {
		request := func(id, status string) *leaveDatamodel.LeaveRequest {
			day := time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC)
			return &leaveDatamodel.LeaveRequest{
				ID: id, EmployeeID: "TSG0091", CategoryID: "casual",
				StartDate: day, EndDate: day, Days: 1, Status: status,
				AppliedDate: day, ApproverID: "TSG0010", PendingHeld: 1,
			}
		}

		BeforeEach(func() {
			Expect(db.Create(request("req-pending", "pending")).Error).To(Succeed())
			Expect(db.Create(request("req-approved", "approved")).Error).To(Succeed())
		})

		It("should list owners of pending requests once", func() {
			Expect(db.Create(request("req-pending-2", "pending")).Error).To(Succeed())

			owners, err := repo.PendingApprovalOwners(ctx, "TSG0010")

			Expect(err).NotTo(HaveOccurred())
			Expect(owners).To(Equal([]string{"TSG0091"}))
		})

		It("should move only pending requests to the new approver", func() {
			Expect(repo.ReassignPending(ctx, "TSG0091", "TSG0010", "TSG0001")).To(Succeed())

			var pending, approved leaveDatamodel.LeaveRequest
			Expect(db.First(&pending, "id = ?", "req-pending").Error).To(Succeed())
			Expect(db.First(&approved, "id = ?", "req-approved").Error).To(Succeed())
			Expect(pending.ApproverID).To(Equal("TSG0001"))
			Expect(approved.ApproverID).To(Equal("TSG0010"))
		})
	})

	Describe("GetPasswordForEmail", func() {
		It("should match emails case-insensitively", func() {
			hash, id, err := repo.GetPasswordForEmail(ctx, "Manager@Company.TEST")

			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(Equal("hash-manager"))
			Expect(id).To(Equal("TSG0010"))
		})

		It("should return not found for an unknown email", func() {
			_, _, err := repo.GetPasswordForEmail(ctx, "ghost@company.test")
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})
})
