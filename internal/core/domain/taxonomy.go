package domain

// Category groups tools in the catalog. ToolCount is denormalized and
// adjusted whenever a tool under it is created, moved, or deleted.
type Category struct {
	CategoryID  string `json:"categoryID"`
	Name        string `json:"name"`
	Slug        string `json:"slug"` // derived from Name, unique
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
	ToolCount   int64  `json:"toolCount"`
	AuditFields
}

// Section is the second taxonomy axis; same shape as Category minus color.
type Section struct {
	SectionID   string `json:"sectionID"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"isActive"`
	ToolCount   int64  `json:"toolCount"`
	AuditFields
}

// CategoryWithSections is the navigation shape for the public catalog menu.
type CategoryWithSections struct {
	Category
	Sections []Section `json:"sections"`
}
