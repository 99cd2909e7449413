package domain

// Permission is a capability string of the form "resource:action".
type Permission string

const (
	PermUsersRead      Permission = "users:read"
	PermUsersWrite     Permission = "users:write"
	PermUsersDelete    Permission = "users:delete"
	PermToolsRead      Permission = "tools:read"
	PermToolsWrite     Permission = "tools:write"
	PermToolsDelete    Permission = "tools:delete"
	PermToolsAccess    Permission = "tools:access"
	PermLogsRead       Permission = "logs:read"
	PermLogsDelete     Permission = "logs:delete"
	PermSettingsRead   Permission = "settings:read"
	PermSettingsWrite  Permission = "settings:write"
	PermAnalyticsRead  Permission = "analytics:read"
	PermProfileRead    Permission = "profile:read"
	PermProfileWrite   Permission = "profile:write"
)

// RolePermissions maps every role to its capability set. Visibility of
// individual tools is decided separately by the per-role listing filter;
// these permissions gate whole endpoint groups.
var RolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermUsersRead, PermUsersWrite, PermUsersDelete,
		PermToolsRead, PermToolsWrite, PermToolsDelete, PermToolsAccess,
		PermLogsRead, PermLogsDelete,
		PermSettingsRead, PermSettingsWrite,
		PermAnalyticsRead,
		PermProfileRead, PermProfileWrite,
	},
	RoleWorkspace: {PermToolsRead, PermToolsAccess, PermProfileRead, PermProfileWrite},
	RoleSchool:    {PermToolsRead, PermToolsAccess, PermProfileRead, PermProfileWrite},
	RoleClient:    {PermToolsRead, PermToolsAccess, PermProfileRead, PermProfileWrite},
	RoleBeta:      {PermToolsRead, PermToolsAccess, PermProfileRead, PermProfileWrite},
	RoleFree:      {PermToolsRead, PermToolsAccess, PermProfileRead},
}

// HasPermission reports whether role carries the given capability.
// Unknown roles carry nothing.
func HasPermission(role UserRole, p Permission) bool {
	for _, perm := range RolePermissions[role] {
		if perm == p {
			return true
		}
	}
	return false
}
