package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/analytics"
	analyticsPostgres "github.com/frahmantamala/leave-management/internal/analytics/postgres"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/category"
	categoryPostgres "github.com/frahmantamala/leave-management/internal/category/postgres"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/holiday"
	holidayPostgres "github.com/frahmantamala/leave-management/internal/holiday/postgres"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/leave-management/internal/notification/postgres"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	SQLDB  *sql.DB
	Router *chi.Mux
	Logger *slog.Logger

	Employees     *employee.Service
	EventBus      *events.EventBus
	Dispatcher    *notification.Dispatcher
	Notifications *notification.Service
	Handlers      rest.Handlers
	RBAC          *auth.RBACAuthorization
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.shutdown(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.Handlers, rest.RouterOptions{
		DB:     deps.SQLDB,
		Driver: deps.Config.Database.Driver,
		HealthChecks: map[string]rest.ComponentCheck{
			"org_directory": orgDirectoryCheck(deps.Employees),
		},
		AllowedOrigins: deps.Config.Server.Origins(),
		RequestTimeout: deps.Config.Server.RequestTimeout,
		RBAC:           deps.RBAC,
		Logger:         deps.Logger,
	})
}

// orgDirectoryCheck fails until an admin exists, since no request can be
// routed for approval without one.
func orgDirectoryCheck(employees *employee.Service) rest.ComponentCheck {
	return func(ctx context.Context) (map[string]any, error) {
		dir := employees.Directory()
		details := map[string]any{"employees": dir.Len()}
		if dir.Admin() == nil {
			return details, errors.New("no admin configured")
		}
		return details, nil
	}
}

// shutdown drains event handlers before stopping the email workers, since
// handlers enqueue deliveries.
func (d *Dependencies) shutdown(ctx context.Context) {
	d.EventBus.Close()
	if err := d.EventBus.Wait(ctx); err != nil {
		d.Logger.Warn("event handlers did not finish before shutdown", "error", err)
	}
	d.Dispatcher.Shutdown()
	if err := d.SQLDB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(config)

	loc, err := config.Leave.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid leave timezone: %w", err)
	}

	if _, err := swagger.Load(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	db, err := database.Open(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if config.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	readModel, err := database.ReadModel(db)
	if err != nil {
		return nil, err
	}

	tx := database.NewTransactor(db)
	baseHandler := transport.NewBaseHandler(log)

	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), log)
	catalog, err := categoryService.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave categories: %w", err)
	}

	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)

	balanceRepo := balancePostgres.NewBalanceRepository(db)
	balanceService := balance.NewService(balanceRepo, catalog, log)

	employeeRepo := employeePostgres.NewEmployeeRepository(db)
	employeeService := employee.NewService(employeeRepo, balanceRepo, catalog, hasher, tx, log)
	if err := employeeService.Reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to load org directory: %w", err)
	}

	holidayService := holiday.NewService(holidayPostgres.NewHolidayRepository(db), loc, log)

	eventBus := events.NewEventBus(log)

	leaveService := leave.NewService(
		leavePostgres.NewLeaveRepository(db),
		balanceRepo,
		tx,
		employeeService,
		catalog,
		holidayService,
		eventBus,
		leave.Options{
			MaxLOPPerYear: config.Leave.MaxLOPPerYear,
			Location:      loc,
		},
		log,
	)

	notificationRepo := notificationPostgres.NewNotificationRepository(db)
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		MaxWorkers:   config.Notification.Workers,
		JobQueueSize: config.Notification.QueueSize,
	}, notification.NewSender(config.Notification, log), notificationRepo, log)
	notificationService := notification.NewService(notificationRepo, employeeService, dispatcher, config.Notification.MaxAttempts, log)
	notificationService.Subscribe(eventBus)

	analyticsService := analytics.NewService(
		analyticsPostgres.NewAnalyticsRepository(readModel),
		balanceService,
		leaveService.MaxLOPPerYear(),
		loc,
		log,
	)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(employeeRepo, employeeService, tokens, hasher, log)

	return &Dependencies{
		Config:        config,
		DB:            db,
		SQLDB:         sqlDB,
		Router:        chi.NewRouter(),
		Logger:        log,
		Employees:     employeeService,
		EventBus:      eventBus,
		Dispatcher:    dispatcher,
		Notifications: notificationService,
		RBAC:          auth.NewRBACAuthorization(auth.NewPermissionChecker(), log),
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(baseHandler, authService),
			Category:     category.NewHandler(baseHandler, catalog),
			Holiday:      holiday.NewHandler(baseHandler, holidayService),
			Employee:     employee.NewHandler(baseHandler, employeeService),
			Balance:      balance.NewHandler(baseHandler, balanceService),
			Leave:        leave.NewHandler(baseHandler, leaveService),
			Analytics:    analytics.NewHandler(baseHandler, analyticsService),
			Notification: notification.NewHandler(baseHandler, notificationService),
		},
	}, nil
}
