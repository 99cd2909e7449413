package dto

import (
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a user.
type CreateUserRequest struct {
	Email           string                   `json:"email" binding:"required,email"`
	Password        string                   `json:"password" binding:"required,min=8"`
	DisplayName     string                   `json:"displayName" binding:"required"`
	Role            string                   `json:"role" binding:"required,userrole"`
	CompanyID       string                   `json:"companyID"`
	AssignedToolIDs []string                 `json:"assignedToolIDs"`
	EnrolledCourses []string                 `json:"enrolledCourses"`
	Restrictions    *domain.UserRestrictions `json:"restrictions"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	DisplayName     *string                  `json:"displayName"`
	Avatar          *string                  `json:"avatar"`
	Password        *string                  `json:"password" binding:"omitempty,min=8"`
	Role            *string                  `json:"role" binding:"omitempty,userrole"`
	Status          *string                  `json:"status"`
	CompanyID       *string                  `json:"companyID"`
	AssignedToolIDs *[]string                `json:"assignedToolIDs"`
	EnrolledCourses *[]string                `json:"enrolledCourses"`
	Restrictions    *domain.UserRestrictions `json:"restrictions"`
}

// AssignToolsRequest replaces a user's assigned tool set.
type AssignToolsRequest struct {
	ToolIDs []string `json:"toolIDs" binding:"required"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	PaginationParams
	Role      string `form:"role" binding:"omitempty,userrole"`
	Status    string `form:"status"`
	CompanyID string `form:"companyId"`
	Search    string `form:"search"`
}

// ToFilters converts the query parameters to domain filters.
func (p ListUsersParams) ToFilters() domain.UserFilters {
	return domain.UserFilters{
		Role:      domain.UserRole(p.Role),
		Status:    domain.UserStatus(p.Status),
		CompanyID: p.CompanyID,
		Search:    p.Search,
	}
}

// UserResponse is the user shape returned to clients; no credential material.
type UserResponse struct {
	ID              string                   `json:"id"`
	Email           string                   `json:"email"`
	DisplayName     string                   `json:"displayName"`
	Avatar          string                   `json:"avatar,omitempty"`
	Role            string                   `json:"role"`
	Status          string                   `json:"status"`
	CompanyID       string                   `json:"companyID,omitempty"`
	AssignedToolIDs []string                 `json:"assignedToolIDs"`
	EnrolledCourses []string                 `json:"enrolledCourses"`
	Restrictions    *domain.UserRestrictions `json:"restrictions,omitempty"`
	LastLogin       *time.Time               `json:"lastLogin,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.UserID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Avatar:          u.Avatar,
		Role:            string(u.Role),
		Status:          string(u.Status),
		CompanyID:       u.CompanyID,
		AssignedToolIDs: u.AssignedToolIDs,
		EnrolledCourses: u.EnrolledCourses,
		Restrictions:    u.Restrictions,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
