package redisdoc

import (
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// NewRepositoryProvider wires every document-store repository over one client.
// The provider is interchangeable with the pgsql one.
func NewRepositoryProvider(rdb *redis.Client) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newRedisUserRepository(rdb),
		ToolRepo:         newRedisToolRepository(rdb),
		CategoryRepo:     newRedisCategoryRepository(rdb),
		SectionRepo:      newRedisSectionRepository(rdb),
		AccessLogRepo:    newRedisAccessLogRepository(rdb),
		ErrorLogRepo:     newRedisErrorLogRepository(rdb),
		SystemLogRepo:    newRedisSystemLogRepository(rdb),
		RefreshTokenRepo: newRedisRefreshTokenRepository(rdb),
		SettingsRepo:     newRedisSettingsRepository(rdb),
	}
}
