package domain_test

import (
	"testing"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserRole
		perm domain.Permission
		want bool
	}{
		{"admin manages users", domain.RoleAdmin, domain.PermUsersWrite, true},
		{"admin reads logs", domain.RoleAdmin, domain.PermLogsRead, true},
		{"workspace reads tools", domain.RoleWorkspace, domain.PermToolsRead, true},
		{"workspace cannot manage users", domain.RoleWorkspace, domain.PermUsersWrite, false},
		{"client accesses tools", domain.RoleClient, domain.PermToolsAccess, true},
		{"client cannot read logs", domain.RoleClient, domain.PermLogsRead, false},
		{"free cannot edit profile", domain.RoleFree, domain.PermProfileWrite, false},
		{"free reads profile", domain.RoleFree, domain.PermProfileRead, true},
		{"unknown role has nothing", domain.UserRole("superuser"), domain.PermToolsRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.HasPermission(tt.role, tt.perm))
		})
	}
}

func TestEveryRoleHasPermissionSet(t *testing.T) {
	for _, role := range domain.AllRoles {
		assert.NotEmpty(t, domain.RolePermissions[role], "role %s has no permissions", role)
	}
}
