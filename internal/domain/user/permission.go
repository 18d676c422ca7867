package user

type Permission string

const (
	// Outshift reports
	PermissionOutshiftView         Permission = "reports.outshift.view"
	PermissionOutshiftViewAllUnits Permission = "reports.outshift.view_all_units"

	// Business units
	PermissionBusinessUnitView        Permission = "business_unit.view"
	PermissionBusinessUnitManageHours Permission = "business_unit.manage_hours"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionOutshiftView,
		PermissionOutshiftViewAllUnits,
		PermissionBusinessUnitView,
		PermissionBusinessUnitManageHours,
	},
	RoleAuditor: {
		PermissionOutshiftView,
		PermissionOutshiftViewAllUnits,
		PermissionBusinessUnitView,
	},
	RoleTechnician: {
		PermissionOutshiftView,
		PermissionBusinessUnitView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
