package domain

import "time"

// AccessAction is the kind of interaction recorded in an access log.
type AccessAction string

const (
	AccessActionView      AccessAction = "view"
	AccessActionAccess    AccessAction = "access"
	AccessActionDownload  AccessAction = "download"
	AccessActionAPICall   AccessAction = "api_call"
	AccessActionEmbedLoad AccessAction = "embed_load"
)

// AccessLog is an immutable, append-only record of a user interacting
// with a tool. Actor and tool fields are snapshotted at write time.
type AccessLog struct {
	LogID     string       `json:"logID"`
	UserID    string       `json:"userID"`
	UserEmail string       `json:"userEmail"`
	UserName  string       `json:"userName"`
	UserRole  UserRole     `json:"userRole"`
	ToolID    string       `json:"toolID"`
	ToolName  string       `json:"toolName"`
	Action    AccessAction `json:"action"`

	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ResponseTime int64  `json:"responseTime,omitempty"` // milliseconds

	Timestamp time.Time `json:"timestamp"`
}

// AccessLogFilters narrows an access-log listing.
type AccessLogFilters struct {
	UserID   string
	ToolID   string
	Action   AccessAction
	Success  *bool
	UserRole UserRole
	DateFrom *time.Time
	DateTo   *time.Time
}

// ErrorType classifies an error log entry.
type ErrorType string

const (
	ErrorTypeAuth        ErrorType = "auth_error"
	ErrorTypeAccess      ErrorType = "access_denied"
	ErrorTypeToolDown    ErrorType = "tool_unavailable"
	ErrorTypeAPI         ErrorType = "api_error"
	ErrorTypeValidation  ErrorType = "validation_error"
	ErrorTypeSystem      ErrorType = "system_error"
	ErrorTypeIntegration ErrorType = "integration_error"
	ErrorTypeDatabase    ErrorType = "database_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// ErrorSeverity grades an error log entry.
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorStatus is the management lifecycle state of an error log entry.
type ErrorStatus string

const (
	ErrorStatusNew           ErrorStatus = "new"
	ErrorStatusAcknowledged  ErrorStatus = "acknowledged"
	ErrorStatusInvestigating ErrorStatus = "investigating"
	ErrorStatusResolved      ErrorStatus = "resolved"
	ErrorStatusIgnored       ErrorStatus = "ignored"
)

// errorStatusTransitions encodes the allowed lifecycle moves. The
// lifecycle runs from new through acknowledged and investigating to
// resolved or ignored; resolved and ignored are terminal.
var errorStatusTransitions = map[ErrorStatus][]ErrorStatus{
	ErrorStatusNew:           {ErrorStatusAcknowledged, ErrorStatusInvestigating, ErrorStatusResolved, ErrorStatusIgnored},
	ErrorStatusAcknowledged:  {ErrorStatusInvestigating, ErrorStatusResolved, ErrorStatusIgnored},
	ErrorStatusInvestigating: {ErrorStatusResolved, ErrorStatusIgnored},
	ErrorStatusResolved:      {},
	ErrorStatusIgnored:       {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s ErrorStatus) CanTransitionTo(next ErrorStatus) bool {
	for _, allowed := range errorStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ErrorLog is a managed record of a platform error. Unlike the other log
// kinds it is mutable: its status walks the lifecycle above and it is
// resolved or ignored rather than deleted.
type ErrorLog struct {
	LogID    string        `json:"logID"`
	Type     ErrorType     `json:"type"`
	Severity ErrorSeverity `json:"severity"`

	UserID   string `json:"userID,omitempty"`
	ToolID   string `json:"toolID,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Method   string `json:"method,omitempty"`

	Code    string `json:"code"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`

	Status     ErrorStatus `json:"status"`
	AssignedTo string      `json:"assignedTo,omitempty"`
	Resolution string      `json:"resolution,omitempty"`
	ResolvedAt *time.Time  `json:"resolvedAt,omitempty"`
	ResolvedBy string      `json:"resolvedBy,omitempty"`

	Timestamp time.Time  `json:"timestamp"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ErrorLogFilters narrows an error-log listing.
type ErrorLogFilters struct {
	Type     ErrorType
	Severity ErrorSeverity
	Status   ErrorStatus
	ToolID   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// SystemLogType classifies an audit record.
type SystemLogType string

const (
	SystemLogInfo     SystemLogType = "info"
	SystemLogWarning  SystemLogType = "warning"
	SystemLogError    SystemLogType = "error"
	SystemLogAudit    SystemLogType = "audit"
	SystemLogSecurity SystemLogType = "security"
)

// SystemLog is an immutable audit record of an administrative action.
type SystemLog struct {
	LogID       string        `json:"logID"`
	Type        SystemLogType `json:"type"`
	Category    string        `json:"category"` // auth, users, tools, categories, sections, settings, system
	Action      string        `json:"action"`
	Description string        `json:"description"`

	ActorID    string   `json:"actorID,omitempty"`
	ActorEmail string   `json:"actorEmail,omitempty"`
	ActorRole  UserRole `json:"actorRole,omitempty"`

	TargetType string `json:"targetType,omitempty"`
	TargetID   string `json:"targetID,omitempty"`
	TargetName string `json:"targetName,omitempty"`

	PreviousValue map[string]any `json:"previousValue,omitempty"`
	NewValue      map[string]any `json:"newValue,omitempty"`

	IPAddress string    `json:"ipAddress,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemLogFilters narrows a system-log listing.
type SystemLogFilters struct {
	Type     SystemLogType
	Category string
	ActorID  string
	TargetID string
	Action   string
	DateFrom *time.Time
	DateTo   *time.Time
}
