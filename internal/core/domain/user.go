package domain

import "time"

// UserRole is one of the six fixed access tiers determining tool visibility.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleWorkspace UserRole = "workspace"
	RoleSchool    UserRole = "school"
	RoleClient    UserRole = "client"
	RoleBeta      UserRole = "beta"
	RoleFree      UserRole = "free"
)

// AllRoles lists every valid role value. Order is not significant.
var AllRoles = []UserRole{RoleAdmin, RoleWorkspace, RoleSchool, RoleClient, RoleBeta, RoleFree}

// IsValid reports whether r is one of the known role values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleWorkspace, RoleSchool, RoleClient, RoleBeta, RoleFree:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

// UserRestrictions holds access limits applied to beta/free tiers.
type UserRestrictions struct {
	MaxToolsAccess   int        `json:"maxToolsAccess"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	DailyAccessLimit int        `json:"dailyAccessLimit"`
	LimitedFeatures  []string   `json:"limitedFeatures,omitempty"`
}

// User represents a platform user.
type User struct {
	UserID       string     `json:"userID"`
	Email        string     `json:"email"` // unique
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"displayName"`
	Avatar       string     `json:"avatar,omitempty"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`

	CompanyID       string   `json:"companyID,omitempty"`
	AssignedToolIDs []string `json:"assignedToolIDs"` // for client role
	EnrolledCourses []string `json:"enrolledCourses"` // for school role

	Restrictions *UserRestrictions `json:"restrictions,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	AuditFields
}

// IsActive reports whether the account may authenticate and access tools.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserFilters narrows a user listing.
type UserFilters struct {
	Role      UserRole
	Status    UserStatus
	CompanyID string
	Search    string // case-insensitive substring over email/displayName
}
