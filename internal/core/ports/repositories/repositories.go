package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both storage adapters (pgsql and redisdoc) return one of these, so the
// service layer is wired identically regardless of backend.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	ToolRepo         ToolRepositoryFacade
	CategoryRepo     CategoryRepositoryFacade
	SectionRepo      SectionRepositoryFacade
	AccessLogRepo    AccessLogRepositoryFacade
	ErrorLogRepo     ErrorLogRepositoryFacade
	SystemLogRepo    SystemLogRepositoryFacade
	RefreshTokenRepo RefreshTokenRepositoryFacade
	SettingsRepo     SettingsRepositoryFacade
}
