package config

import (
	"fmt"
	"sort"
	"strconv"

	"league-history/internal/constants"
	"league-history/internal/domain"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ReportConfig holds the rules the weekly, survivor and payout reports run
// with. It is read from REPORT_CONFIG_PATH (JSON or YAML) when set.
type ReportConfig struct {
	// nil means use each season's own roster settings
	Lineup   domain.SlotConfiguration
	Weekly   WeeklyConfig
	Survivor SurvivorConfig
	Payouts  []domain.PayoutRule
}

type WeeklyConfig struct {
	Year   int
	Awards AwardNames
}

type AwardNames struct {
	HighScore   string
	LowScore    string
	Inefficient string
}

type SurvivorConfig struct {
	// weeks from FinalWeek on never eliminate
	FinalWeek int
}

// PayoutRule returns the rule for week, if any.
func (r *ReportConfig) PayoutRule(week int) (domain.PayoutRule, bool) {
	for _, rule := range r.Payouts {
		if rule.Week == week {
			return rule, true
		}
	}
	return domain.PayoutRule{}, false
}

func LoadReportConfig(cfg *Config, logger zerolog.Logger) (*ReportConfig, error) {
	v := viper.New()
	v.SetDefault("weekly.year", cfg.EndYear)
	v.SetDefault("weekly.awards.high_score", "Regression Incoming Plaque")
	v.SetDefault("weekly.awards.low_score", "Crawlspace Trophy")
	v.SetDefault("weekly.awards.inefficient", "Should've Played My Bench Clipboard")
	v.SetDefault("survivor.final_week", constants.DefaultSurvivorEndWeek)

	if cfg.ReportConfigPath != "" {
		v.SetConfigFile(cfg.ReportConfigPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read report config: %w", err)
		}
	}

	rc, err := decodeReportConfig(v)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("path", cfg.ReportConfigPath).
		Bool("lineup_override", rc.Lineup != nil).
		Int("weekly_year", rc.Weekly.Year).
		Int("survivor_final_week", rc.Survivor.FinalWeek).
		Int("payout_rules", len(rc.Payouts)).
		Msg("report configuration loaded")

	return rc, nil
}

func decodeReportConfig(v *viper.Viper) (*ReportConfig, error) {
	rc := &ReportConfig{
		Weekly: WeeklyConfig{
			Year: v.GetInt("weekly.year"),
			Awards: AwardNames{
				HighScore:   v.GetString("weekly.awards.high_score"),
				LowScore:    v.GetString("weekly.awards.low_score"),
				Inefficient: v.GetString("weekly.awards.inefficient"),
			},
		},
		Survivor: SurvivorConfig{FinalWeek: v.GetInt("survivor.final_week")},
	}

	if v.IsSet("lineup") {
		slots, err := domain.SlotConfigurationFromMap(v.GetStringMap("lineup"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse lineup: %w", err)
		}
		rc.Lineup = slots
	}

	rules, err := decodePayouts(v.GetStringMap("weekly_payouts"))
	if err != nil {
		return nil, err
	}
	rc.Payouts = rules

	return rc, nil
}

func decodePayouts(raw map[string]any) ([]domain.PayoutRule, error) {
	rules := make([]domain.PayoutRule, 0, len(raw))
	for key, value := range raw {
		week, err := strconv.Atoi(key)
		if err != nil || week < 1 {
			return nil, fmt.Errorf("weekly_payouts: bad week %q", key)
		}
		entry, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("weekly_payouts: week %d is not a mapping", week)
		}

		rule := domain.PayoutRule{Week: week}
		if t, ok := entry["type"].(string); ok {
			rule.Type = domain.PayoutType(t)
		}
		if slots, ok := entry["slots"].(map[string]any); ok {
			counts, err := domain.SlotConfigurationFromMap(slots)
			if err != nil {
				return nil, fmt.Errorf("weekly_payouts: week %d: %w", week, err)
			}
			for slot, n := range counts {
				rule.Slots = append(rule.Slots, domain.SlotCount{Position: domain.Position(slot), Count: n})
			}
			domain.SortSlots(rule.Slots)
		}

		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("weekly_payouts: %w", err)
		}
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].Week < rules[j].Week })
	return rules, nil
}
