package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"league-history/internal/constants"
	"league-history/internal/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	LeagueID         int
	SWID             string
	ESPNS2           string
	StartYear        int
	EndYear          int
	OutputDir        string
	DBPath           string
	LogLevel         string
	OwnerMapPath     string
	ReportConfigPath string
	Reports          []string
	Refresh          bool
	FetchConcurrency int
	// display names keyed by owner id or team id
	Owners map[string]string
}

// Years lists the configured seasons oldest first.
func (c *Config) Years() []int {
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// Private reports whether requests must carry the ESPN session cookies.
func (c *Config) Private() bool {
	return c.SWID != "" && c.ESPNS2 != ""
}

type credentials struct {
	SWID   string `json:"swid"`
	ESPNS2 string `json:"espn_s2"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	return fromEnv(logger)
}

func fromEnv(log zerolog.Logger) (*Config, error) {
	thisYear := time.Now().Year()

	leagueID, err := getEnvInt("ESPN_LEAGUE_ID", 0)
	if err != nil {
		return nil, err
	}
	if leagueID <= 0 {
		return nil, fmt.Errorf("ESPN_LEAGUE_ID is required")
	}

	endYear, err := getEnvInt("END_YEAR", thisYear)
	if err != nil {
		return nil, err
	}
	startYear, err := getEnvInt("START_YEAR", endYear)
	if err != nil {
		return nil, err
	}
	if startYear > endYear {
		return nil, fmt.Errorf("START_YEAR %d is after END_YEAR %d", startYear, endYear)
	}

	concurrency, err := getEnvInt("FETCH_CONCURRENCY", constants.DefaultFetchConcurrency)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	refresh, err := getEnvBool("REFRESH", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LeagueID:         leagueID,
		SWID:             getEnv("ESPN_SWID", ""),
		ESPNS2:           getEnv("ESPN_S2", ""),
		StartYear:        startYear,
		EndYear:          endYear,
		OutputDir:        getEnv("OUTPUT_DIR", "out"),
		DBPath:           getEnv("DB_PATH", "league_history.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		OwnerMapPath:     getEnv("OWNER_MAP_PATH", ""),
		ReportConfigPath: getEnv("REPORT_CONFIG_PATH", ""),
		Reports:          splitList(getEnv("REPORTS", "")),
		Refresh:          refresh,
		FetchConcurrency: concurrency,
	}

	if !cfg.Private() {
		if path := getEnv("ESPN_CREDS_PATH", ""); path != "" {
			creds, err := readCredentials(path)
			if err != nil {
				return nil, err
			}
			if cfg.SWID == "" {
				cfg.SWID = creds.SWID
			}
			if cfg.ESPNS2 == "" {
				cfg.ESPNS2 = creds.ESPNS2
			}
		}
	}

	if cfg.OwnerMapPath != "" {
		owners, err := readOwnerMap(cfg.OwnerMapPath)
		if err != nil {
			return nil, err
		}
		cfg.Owners = owners
	}

	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))

	log.Info().
		Int("league_id", cfg.LeagueID).
		Int("start_year", cfg.StartYear).
		Int("end_year", cfg.EndYear).
		Str("output_dir", cfg.OutputDir).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Bool("private", cfg.Private()).
		Bool("refresh", cfg.Refresh).
		Int("owner_names", len(cfg.Owners)).
		Msg("configuration loaded")

	return cfg, nil
}

func readCredentials(path string) (credentials, error) {
	var creds credentials
	data, err := os.ReadFile(path)
	if err != nil {
		return creds, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	if creds.SWID == "" || creds.ESPNS2 == "" {
		return creds, errors.New("credentials file needs both swid and espn_s2")
	}
	return creds, nil
}

func readOwnerMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read owner map: %w", err)
	}
	owners := map[string]string{}
	if err := json.Unmarshal(data, &owners); err != nil {
		return nil, fmt.Errorf("failed to parse owner map %s: %w", path, err)
	}
	return owners, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

var Module = fx.Provide(Load, LoadReportConfig)
