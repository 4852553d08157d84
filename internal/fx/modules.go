package fx

import (
	"league-history/internal/api"
	"league-history/internal/config"
	"league-history/internal/database"
	"league-history/internal/logger"
	"league-history/internal/repository"
	"league-history/internal/runner"
	"league-history/internal/service"

	"go.uber.org/fx"
)

// ProvideAPICache hands the SQLite response cache to the ESPN client.
func ProvideAPICache(cache *service.ResponseCache) api.ResponseCache {
	return cache
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewResponseRepository),
	// cache
	fx.Provide(service.NewResponseCache),
	fx.Provide(ProvideAPICache),
	// api client
	fx.Provide(api.NewESPNClient),
	// svc
	fx.Provide(service.NewLeagueService),
	// runner
	fx.Provide(runner.NewRunner),
)
