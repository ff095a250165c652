package security

import (
	"log/slog"
	"slices"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
)

// Permission represents an action permission
type Permission string

const (
	PermManageContacts  Permission = "MANAGE_CONTACTS"
	PermManageVenues    Permission = "MANAGE_VENUES"
	PermManageUsers     Permission = "MANAGE_USERS"
	PermManageIncidents Permission = "MANAGE_INCIDENTS"
	PermViewIncidents   Permission = "VIEW_INCIDENTS"
	PermViewContacts    Permission = "VIEW_CONTACTS"
	PermViewVenues      Permission = "VIEW_VENUES"
	PermManageOffenders Permission = "MANAGE_OFFENDERS"
	PermViewOffenders   Permission = "VIEW_OFFENDERS"
	PermManageWarnings  Permission = "MANAGE_WARNINGS"
	PermViewWarnings    Permission = "VIEW_WARNINGS"
	PermManageBans      Permission = "MANAGE_BANS"
	PermViewBans        Permission = "VIEW_BANS"
	PermViewDashboard   Permission = "VIEW_DASHBOARD"
	PermGenerateReports Permission = "GENERATE_REPORTS"
)

var (
	everyone   = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleStaff}
	adminOnly  = []domain.Role{domain.RoleAdmin}
	management = []domain.Role{domain.RoleAdmin, domain.RoleManager}
	floor      = []domain.Role{domain.RoleAdmin, domain.RoleStaff}
)

// Permissions maps each action to the roles allowed to perform it
var Permissions = map[Permission][]domain.Role{
	PermManageContacts:  adminOnly,
	PermManageVenues:    management,
	PermManageUsers:     adminOnly,
	PermManageIncidents: everyone,
	PermViewIncidents:   everyone,
	PermViewContacts:    everyone,
	PermViewVenues:      everyone,
	PermManageOffenders: floor,
	PermViewOffenders:   everyone,
	PermManageWarnings:  floor,
	PermViewWarnings:    floor,
	PermManageBans:      floor,
	PermViewBans:        floor,
	PermViewDashboard:   everyone,
	PermGenerateReports: management,
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission.
// Unknown permissions are denied.
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	roles, exists := Permissions[permission]
	if !exists {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		metrics.ObservePermissionDenied(string(permission))
		return domain.Unauthorized("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions granted to a role
func (as *AuthorizationService) GetRolePermissions(role domain.Role) []Permission {
	var out []Permission
	for perm := range Permissions {
		if as.HasPermission(role, perm) {
			out = append(out, perm)
		}
	}
	slices.Sort(out)
	return out
}
