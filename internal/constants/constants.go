package constants

import "time"

const (
	// completed seasons are served from the cache forever
	CurrentSeasonCacheTTL = 1 * time.Hour
)

const (
	ExternalAPITimeout = 20 * time.Second
	DatabaseTimeout    = 5 * time.Second
	SeasonLoadTimeout  = 2 * time.Minute
	RunTimeout         = 30 * time.Minute
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 0
	DBMaxIdleTime     = 0
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultFetchConcurrency = 4
	DefaultSurvivorEndWeek  = 12
	// ESPN serves seasons before this year from the leagueHistory endpoint
	FirstModernSeason = 2018
)
