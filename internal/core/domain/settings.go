package domain

// SettingsSection names one keyed block of the platform settings store.
type SettingsSection string

const (
	SettingsGeneral       SettingsSection = "general"
	SettingsAccess        SettingsSection = "access"
	SettingsRestrictions  SettingsSection = "restrictions"
	SettingsNotifications SettingsSection = "notifications"
	SettingsAppearance    SettingsSection = "appearance"
)

// AllSettingsSections lists the valid section keys.
var AllSettingsSections = []SettingsSection{
	SettingsGeneral, SettingsAccess, SettingsRestrictions,
	SettingsNotifications, SettingsAppearance,
}

// IsValid reports whether s is a known section key.
func (s SettingsSection) IsValid() bool {
	for _, sec := range AllSettingsSections {
		if sec == s {
			return true
		}
	}
	return false
}

// PlatformSettings is the full keyed settings store: one free-form object
// per section, read-modify-written as a whole section, no versioning.
type PlatformSettings map[SettingsSection]map[string]any
