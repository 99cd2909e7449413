package dto

import (
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// CreateToolRequest defines the data needed to create a catalog tool.
// The slug is derived server-side from the name.
type CreateToolRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	LongDescription  string   `json:"longDescription"`
	CategoryID       string   `json:"categoryID" binding:"required"`
	SectionID        string   `json:"sectionID" binding:"required"`
	Type             string   `json:"type" binding:"required"`
	Tags             []string `json:"tags"`
	AccessURL        string   `json:"accessURL" binding:"required,url"`
	AccessType       string   `json:"accessType" binding:"required"`
	Icon             string   `json:"icon"`
	Status           string   `json:"status"`
	Version          string   `json:"version"`
	AllowedRoles     []string `json:"allowedRoles" binding:"required,dive,userrole"`
	RelatedCourses   []string `json:"relatedCourses"`
	RequiresApproval bool     `json:"requiresApproval"`
}

// UpdateToolRequest defines the data allowed for updating a tool.
type UpdateToolRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	LongDescription  *string   `json:"longDescription"`
	CategoryID       *string   `json:"categoryID"`
	SectionID        *string   `json:"sectionID"`
	Type             *string   `json:"type"`
	Tags             *[]string `json:"tags"`
	AccessURL        *string   `json:"accessURL" binding:"omitempty,url"`
	AccessType       *string   `json:"accessType"`
	Icon             *string   `json:"icon"`
	Status           *string   `json:"status"`
	Version          *string   `json:"version"`
	AllowedRoles     *[]string `json:"allowedRoles" binding:"omitempty,dive,userrole"`
	RelatedCourses   *[]string `json:"relatedCourses"`
	RequiresApproval *bool     `json:"requiresApproval"`
}

// RecordAccessRequest describes one access event being recorded.
type RecordAccessRequest struct {
	Action       string `json:"action"`
	Success      *bool  `json:"success"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	ResponseTime int64  `json:"responseTime"`
}

// ListToolsParams defines query parameters for listing tools.
type ListToolsParams struct {
	PaginationParams
	CategoryID string `form:"categoryId"`
	SectionID  string `form:"sectionId"`
	Type       string `form:"type"`
	Status     string `form:"status"`
	Search     string `form:"search"`
}

// ToFilters converts the query parameters to domain filters. The role
// visibility fields are filled in by the service, never from the wire.
func (p ListToolsParams) ToFilters() domain.ToolFilters {
	return domain.ToolFilters{
		CategoryID: p.CategoryID,
		SectionID:  p.SectionID,
		Type:       domain.ToolType(p.Type),
		Status:     domain.ToolStatus(p.Status),
		Search:     p.Search,
	}
}

// ToolResponse is the tool shape returned to clients.
type ToolResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description"`
	LongDescription  string     `json:"longDescription,omitempty"`
	CategoryID       string     `json:"categoryID"`
	SectionID        string     `json:"sectionID"`
	Type             string     `json:"type"`
	Tags             []string   `json:"tags"`
	AccessURL        string     `json:"accessURL"`
	AccessType       string     `json:"accessType"`
	Icon             string     `json:"icon,omitempty"`
	Status           string     `json:"status"`
	Version          string     `json:"version,omitempty"`
	AllowedRoles     []string   `json:"allowedRoles"`
	RelatedCourses   []string   `json:"relatedCourses"`
	RequiresApproval bool       `json:"requiresApproval"`
	TotalAccess      int64      `json:"totalAccess"`
	LastAccessed     *time.Time `json:"lastAccessed,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	CreatedBy        string     `json:"createdBy,omitempty"`
	UpdatedBy        string     `json:"updatedBy,omitempty"`
}

// ToToolResponse converts a domain.Tool to its response DTO.
func ToToolResponse(t *domain.Tool) ToolResponse {
	roles := make([]string, len(t.AllowedRoles))
	for i, r := range t.AllowedRoles {
		roles[i] = string(r)
	}
	return ToolResponse{
		ID:               t.ToolID,
		Name:             t.Name,
		Slug:             t.Slug,
		Description:      t.Description,
		LongDescription:  t.LongDescription,
		CategoryID:       t.CategoryID,
		SectionID:        t.SectionID,
		Type:             string(t.Type),
		Tags:             t.Tags,
		AccessURL:        t.AccessURL,
		AccessType:       string(t.AccessType),
		Icon:             t.Icon,
		Status:           string(t.Status),
		Version:          t.Version,
		AllowedRoles:     roles,
		RelatedCourses:   t.RelatedCourses,
		RequiresApproval: t.RequiresApproval,
		TotalAccess:      t.Stats.TotalAccess,
		LastAccessed:     t.Stats.LastAccessed,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		CreatedBy:        t.CreatedBy,
		UpdatedBy:        t.UpdatedBy,
	}
}

// ToToolResponses converts a slice of domain tools.
func ToToolResponses(tools []domain.Tool) []ToolResponse {
	out := make([]ToolResponse, len(tools))
	for i := range tools {
		out[i] = ToToolResponse(&tools[i])
	}
	return out
}
