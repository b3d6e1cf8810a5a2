package rest

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal/analytics"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/holiday"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth         *auth.Handler
	Category     *category.Handler
	Holiday      *holiday.Handler
	Employee     *employee.Handler
	Balance      *balance.Handler
	Leave        *leave.Handler
	Analytics    *analytics.Handler
	Notification *notification.Handler
}

type RouterOptions struct {
	DB     *sql.DB
	Driver string
	// HealthChecks are reported by /health next to the database.
	HealthChecks   map[string]ComponentCheck
	AllowedOrigins []string
	RequestTimeout time.Duration
	RBAC           *auth.RBACAuthorization
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions) {
	checks := map[string]ComponentCheck{opts.Driver: DatabaseCheck(opts.DB)}
	for name, check := range opts.HealthChecks {
		checks[name] = check
	}
	healthHandler := NewHealthHandler(checks)
	rbac := opts.RBAC

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	if opts.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	router.Get("/openapi.yml", swagger.DocumentHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Get("/categories", h.Category.GetCategories)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/holidays", h.Holiday.ListHolidays)
			pr.Get("/holidays/upcoming", h.Holiday.ListUpcoming)
			pr.Get("/holidays/{year}", h.Holiday.ListByYear)

			pr.Get("/me", h.Employee.GetMe)
			pr.Get("/balances", h.Balance.GetMyBalances)

			pr.Route("/leaves", func(lr chi.Router) {
				lr.Get("/", h.Leave.ListMyRequests)
				lr.Get("/conflicts", h.Leave.CheckConflicts)
				lr.Get("/{id}", h.Leave.GetRequest)
				lr.Post("/{id}/cancel", h.Leave.CancelRequest)

				lr.Group(func(sr chi.Router) {
					sr.Use(rbac.Middleware(auth.PermissionRequestLeave))
					sr.Post("/", h.Leave.SubmitRequest)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireApprover())
				ar.Get("/approvals", h.Leave.ListApprovals)
				ar.Post("/approvals/{id}/decision", h.Leave.Decide)
			})

			pr.Get("/analytics/lop", h.Analytics.GetLOP)
			pr.Get("/analytics/summary", h.Analytics.GetSummary)
			pr.Group(func(tr chi.Router) {
				tr.Use(rbac.RequireTeamView())
				tr.Get("/analytics/team", h.Analytics.GetTeam)
				tr.Get("/team", h.Employee.GetTeam)
			})

			pr.Get("/notifications", h.Notification.ListNotifications)
			pr.Post("/notifications/{id}/read", h.Notification.MarkRead)

			pr.Route("/admin", func(ad chi.Router) {
				ad.Use(rbac.RequireAdmin())

				ad.Get("/employees", h.Employee.ListEmployees)
				ad.Post("/employees", h.Employee.CreateEmployee)
				ad.Get("/employees/{id}", h.Employee.GetEmployee)
				ad.Put("/employees/{id}", h.Employee.UpdateEmployee)
				ad.Delete("/employees/{id}", h.Employee.DeleteEmployee)

				ad.Get("/balances", h.Balance.ListAllBalances)
				ad.Put("/balances", h.Balance.SetAllocation)

				ad.Post("/holidays", h.Holiday.CreateHoliday)
				ad.Delete("/holidays/{date}", h.Holiday.DeleteHoliday)

				ad.Get("/analytics", h.Analytics.GetOrganization)
				ad.Get("/reports/leaves.xlsx", h.Analytics.ExportRegister)
			})
		})
	})
}
