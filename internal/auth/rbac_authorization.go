package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
		logger:      logger,
	}
}

// Middleware admits callers whose role grants permission.
func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := ra.CallerOrUnauthorized(w, r)
			if !ok {
				ra.logger.Warn("authorization check failed: caller not found in context")
				return
			}

			if !ra.checker.HasPermission(caller.Role, permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"employee_id", caller.EmployeeID,
					"role", caller.Role,
					"required_permission", permission)
				ra.WriteAppError(w, internal.ErrUnauthorizedAccess)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Middleware(PermissionManageOrg)
}

func (ra *RBACAuthorization) RequireApprover() func(http.Handler) http.Handler {
	return ra.Middleware(PermissionApproveLeave)
}

func (ra *RBACAuthorization) RequireTeamView() func(http.Handler) http.Handler {
	return ra.Middleware(PermissionViewTeam)
}
