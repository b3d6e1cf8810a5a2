package auth

const (
	PermissionRequestLeave = "request_leave"
	PermissionApproveLeave = "approve_leave"
	PermissionViewTeam     = "view_team"
	PermissionManageOrg    = "manage_org"
	PermissionViewReports  = "view_reports"
)

// Admins sit at the top of the approval chain and do not request leave.
var rolePermissions = map[string][]string{
	"employee": {PermissionRequestLeave},
	"manager":  {PermissionRequestLeave, PermissionApproveLeave, PermissionViewTeam},
	"admin":    {PermissionApproveLeave, PermissionViewTeam, PermissionManageOrg, PermissionViewReports},
}

type PermissionChecker interface {
	HasPermission(role, permission string) bool
	Permissions(role string) []string
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) Permissions(role string) []string {
	return rolePermissions[role]
}

func (c *DefaultPermissionChecker) HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
