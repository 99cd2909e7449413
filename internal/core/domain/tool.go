package domain

import "time"

// ToolType classifies what kind of resource a catalog entry points at.
type ToolType string

const (
	ToolTypeWebApp        ToolType = "web-app"
	ToolTypeDesktopApp    ToolType = "desktop-app"
	ToolTypeMobileApp     ToolType = "mobile-app"
	ToolTypeAPI           ToolType = "api"
	ToolTypeScript        ToolType = "script"
	ToolTypeTemplate      ToolType = "template"
	ToolTypeResource      ToolType = "resource"
	ToolTypeDocumentation ToolType = "documentation"
)

// ToolStatus is the publication state of a tool.
type ToolStatus string

const (
	ToolStatusActive      ToolStatus = "active"
	ToolStatusBeta        ToolStatus = "beta"
	ToolStatusMaintenance ToolStatus = "maintenance"
	ToolStatusDeprecated  ToolStatus = "deprecated"
	ToolStatusComingSoon  ToolStatus = "coming-soon"
)

// AccessType describes how a permitted user reaches the tool.
type AccessType string

const (
	AccessTypeRedirect AccessType = "redirect"
	AccessTypeEmbed    AccessType = "embed"
	AccessTypeDownload AccessType = "download"
	AccessTypeAPIKey   AccessType = "api-key"
)

// ToolStats holds denormalized usage counters kept on the tool itself.
type ToolStats struct {
	TotalAccess  int64      `json:"totalAccess"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// Tool is a catalog entry representing an application or resource
// accessible to permitted users.
type Tool struct {
	ToolID          string     `json:"toolID"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"` // derived from Name, unique
	Description     string     `json:"description"`
	LongDescription string     `json:"longDescription,omitempty"`
	CategoryID      string     `json:"categoryID"`
	SectionID       string     `json:"sectionID"`
	Type            ToolType   `json:"type"`
	Tags            []string   `json:"tags"`
	AccessURL       string     `json:"accessURL"`
	AccessType      AccessType `json:"accessType"`
	Icon            string     `json:"icon,omitempty"`
	Status          ToolStatus `json:"status"`
	Version         string     `json:"version,omitempty"`

	AllowedRoles     []UserRole `json:"allowedRoles"`
	RelatedCourses   []string   `json:"relatedCourses"`
	RequiresApproval bool       `json:"requiresApproval"`

	Stats ToolStats `json:"stats"`
	AuditFields
}

// AllowsRole reports whether role appears in the tool's allowed set.
func (t *Tool) AllowsRole(role UserRole) bool {
	for _, r := range t.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ToolFilters narrows a tool listing. The visibility fields are populated
// by the role-based filter builder and interpreted by both adapters.
type ToolFilters struct {
	CategoryID string
	SectionID  string
	Type       ToolType
	Status     ToolStatus
	Search     string // case-insensitive substring over name/description

	// Role visibility predicate. Exactly one non-admin shape is set:
	//   AllowedRole: tool.allowedRoles contains it
	//   ToolIDs: tool.id in the set
	//   AllowedRole+AnyCourse: allowedRoles contains it OR relatedCourses
	//     intersects AnyCourse
	// MatchNone forces an empty result (fail closed for unknown roles).
	AllowedRole UserRole
	ToolIDs     []string
	AnyCourse   []string
	MatchNone   bool
}
