package constants

const (
	ViewData              = "view_data"
	PurchaseParticipation = "purchase_participation"
	RunDistribution       = "run_distribution"
	ManageConfig          = "manage_config"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:              {Viewer, Member, Admin, Superadmin},
	PurchaseParticipation: {Member, Admin, Superadmin},
	RunDistribution:       {Admin, Superadmin},
	ManageConfig:          {Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
