package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/category"
	categoryPostgres "github.com/frahmantamala/leave-management/internal/category/postgres"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/holiday"
	holidayPostgres "github.com/frahmantamala/leave-management/internal/holiday/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password123"

// seedEmployees is ordered so every manager exists before their reports.
var seedEmployees = []employee.CreateEmployeeDTO{
	{ID: "TSG0019", Name: "Teja", Email: "teja@tensor.com", Role: "admin", Department: "HR"},
	{ID: "TSG0092", Name: "Srinivas", Email: "srinivas@tensor.com", Role: "manager", Department: "Engineering"},
	{ID: "TSG0094", Name: "Vishal", Email: "vishal@tensor.com", Role: "manager", Department: "Marketing"},
	{ID: "TSG0091", Name: "Suraj", Email: "suraj@tensor.com", Role: "employee", Department: "Engineering", ManagerID: "TSG0019"},
	{ID: "TSG0093", Name: "Vinay", Email: "vinay@tensor.com", Role: "employee", Department: "Marketing", ManagerID: "TSG0094"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with leave categories, the sample org chart, balances and the 2025 holiday calendar.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger := setupLogger(cfg)

		db, err := database.Open(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		if cfg.Database.Driver == "sqlite" {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("failed to migrate sqlite schema: %v", err)
			}
		}

		if clearData {
			if err := clearTables(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), logger)
		created, err := categoryService.EnsureDefaults(ctx)
		if err != nil {
			log.Fatalf("failed to seed leave categories: %v", err)
		}
		fmt.Printf("Seeded %d leave categories\n", created)

		catalog, err := categoryService.LoadCatalog(ctx)
		if err != nil {
			log.Fatalf("failed to load leave categories: %v", err)
		}

		employeeService := employee.NewService(
			employeePostgres.NewEmployeeRepository(db),
			balancePostgres.NewBalanceRepository(db),
			catalog,
			auth.NewBcryptHasher(cfg.Security.BCryptCost),
			database.NewTransactor(db),
			logger,
		)
		if err := employeeService.Reload(ctx); err != nil {
			log.Fatalf("failed to load org directory: %v", err)
		}

		for _, dto := range seedEmployees {
			if _, err := employeeService.GetEmployee(ctx, dto.ID); err == nil {
				fmt.Printf("employee %s already exists; skipping\n", dto.ID)
				continue
			}
			dto.Password = seedPassword
			if _, err := employeeService.CreateEmployee(ctx, dto); err != nil {
				log.Fatalf("failed to seed employee %s: %v", dto.ID, err)
			}
			fmt.Printf("Seeded employee: %s (%s)\n", dto.Name, dto.Email)
		}

		loc, err := cfg.Leave.Location()
		if err != nil {
			log.Fatalf("invalid leave timezone: %v", err)
		}
		holidayService := holiday.NewService(holidayPostgres.NewHolidayRepository(db), loc, logger)
		for _, h := range holiday.Calendar2025() {
			_, err := holidayService.Create(ctx, holiday.CreateHolidayDTO{Date: h.DateString(), Name: h.Name, Type: h.Type})
			if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
				continue
			}
			if err != nil {
				log.Fatalf("failed to seed holiday %s: %v", h.Name, err)
			}
		}

		fmt.Println("Seed data loaded; every seeded employee signs in with password:", seedPassword)
	},
}

func clearTables(db *gorm.DB) error {
	tables := []string{"notifications", "leave_requests", "leave_balances", "employees", "holidays"}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
