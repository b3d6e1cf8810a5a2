package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/internal/auth"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/category"
	categoryPostgres "github.com/frahmantamala/leave-management/internal/category/postgres"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/leave-management/internal/notification/postgres"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run outside the HTTP server.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the e-mail retry worker",
	Long:  `Periodically re-queue notification e-mails that were never delivered and still have attempts left.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

var (
	maxWorkers    int
	jobQueueSize  int
	retryInterval time.Duration
)

func startNotificationWorker() {
	ctx := context.Background()

	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(config)

	db, err := database.Open(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	catalog, err := category.NewService(categoryPostgres.NewCategoryRepository(db), logger).LoadCatalog(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load leave categories: %v\n", err)
		os.Exit(1)
	}

	employeeService := employee.NewService(
		employeePostgres.NewEmployeeRepository(db),
		balancePostgres.NewBalanceRepository(db),
		catalog,
		auth.NewBcryptHasher(config.Security.BCryptCost),
		database.NewTransactor(db),
		logger,
	)
	if err := employeeService.Reload(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load org directory: %v\n", err)
		os.Exit(1)
	}

	dispatcherConfig := notification.DispatcherConfig{
		MaxWorkers:   getIntFlag(maxWorkers, config.Notification.Workers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Notification.QueueSize),
	}

	logger.Info("starting notification worker",
		"max_workers", dispatcherConfig.MaxWorkers,
		"job_queue_size", dispatcherConfig.JobQueueSize,
		"retry_interval", retryInterval,
		"max_attempts", config.Notification.MaxAttempts)

	repo := notificationPostgres.NewNotificationRepository(db)
	dispatcher := notification.NewDispatcher(dispatcherConfig, notification.NewSender(config.Notification, logger), repo, logger)
	service := notification.NewService(repo, employeeService, dispatcher, config.Notification.MaxAttempts, logger)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if retryInterval <= 0 {
		retryInterval = time.Minute
	}
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	logger.Info("notification worker is running. Press Ctrl+C to stop.")

	for {
		if _, err := service.RetryUndelivered(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("notification retry pass failed", "error", err)
		}

		select {
		case <-runCtx.Done():
			logger.Info("received signal, shutting down notification worker")
			shutdownNotificationWorker(dispatcher, logger)
			return
		case <-ticker.C:
		}
	}
}

func shutdownNotificationWorker(dispatcher *notification.Dispatcher, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Info("notification worker pool shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	notificationWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	notificationWorkerCmd.Flags().DurationVar(&retryInterval, "interval", time.Minute, "Delay between retry passes")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
