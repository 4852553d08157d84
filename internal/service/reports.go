package service

import (
	"sort"

	"league-history/internal/domain"
	"league-history/internal/export"
)

// Output file names.
const (
	HistoryFile     = "league_history.csv"
	AdvancedFile    = "advanced_team_metrics.csv"
	HeadToHeadFile  = "head_to_head_lifetime.csv"
	DraftHabitsFile = "most_drafted_players.csv"
	PositionsFile   = "positional_contributions.csv"
	RecordsFile     = "all_time_records.csv"
	WeeklyFile      = "weekly_efficiency_awards.csv"
	SurvivorFile    = "survivor_results.json"
	PayoutsFile     = "weekly_payout_winners.csv"
	PayoutsJSONFile = "weekly_payout_winners.json"
	RunReportFile   = "run_report.json"
)

// teamIndex maps team ids to teams for one season.
func teamIndex(s *domain.Season) map[int]domain.Team {
	out := make(map[int]domain.Team, len(s.Teams))
	for _, t := range s.Teams {
		out[t.ID] = t
	}
	return out
}

// seasonsByYear returns the loaded seasons oldest first.
func seasonsByYear(seasons []*domain.SeasonData) []*domain.SeasonData {
	out := make([]*domain.SeasonData, 0, len(seasons))
	for _, s := range seasons {
		if s != nil && s.Season != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season.Year < out[j].Season.Year })
	return out
}

// slotsFor picks the configured lineup over the season's own.
func slotsFor(override domain.SlotConfiguration, s *domain.Season) domain.SlotConfiguration {
	if override != nil {
		return override
	}
	return s.Slots
}

func round2(v float64) float64 { return export.Round(v, 2) }

func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}
