package user

type Permission string

const (
	// Self service
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAnalyticsViewOwn  Permission = "analytics.view_own"

	// Administration
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceDelete  Permission = "attendance.delete"
	PermissionAnalyticsViewAll  Permission = "analytics.view_all"
	PermissionDirectoryManage   Permission = "directory.manage"
	PermissionPayrollExport     Permission = "payroll.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAnalyticsViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceDelete,
		PermissionAnalyticsViewAll,
		PermissionDirectoryManage,
		PermissionPayrollExport,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAnalyticsViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
