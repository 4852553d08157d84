package service

import (
	"cmp"
	"fmt"
	"slices"

	"league-history/internal/domain"
	"league-history/internal/export"
	"league-history/internal/lineup"
)

var AdvancedHeader = []string{
	"Year", "Owner ID", "Owner Name", "Wins", "Losses", "League Games", "Scheduled Games",
	"Normalized True Wins", "Normalized True Losses", "True W/L", "True W/L %",
	"Strength of Schedule", "Luck Index", "Starter Points", "Optimal Points", "Manager Efficiency",
}

type AdvancedRow struct {
	Year                 int
	OwnerID              string
	OwnerName            string
	Wins                 int
	Losses               int
	LeagueGames          int
	ScheduledGames       int
	NormalizedTrueWins   int
	NormalizedTrueLosses int
	TrueWinPct           float64
	StrengthOfSchedule   float64
	LuckIndex            float64
	StarterPoints        float64
	OptimalPoints        float64
	Efficiency           float64
}

func (r AdvancedRow) TrueRecord() string {
	return fmt.Sprintf("%d - %d", r.NormalizedTrueWins, r.NormalizedTrueLosses)
}

func (r AdvancedRow) Record() []string {
	return []string{
		export.Int(r.Year), r.OwnerID, r.OwnerName,
		export.Int(r.Wins), export.Int(r.Losses), export.Int(r.LeagueGames), export.Int(r.ScheduledGames),
		export.Int(r.NormalizedTrueWins), export.Int(r.NormalizedTrueLosses), r.TrueRecord(),
		export.Float(r.TrueWinPct, 3), export.Float(r.StrengthOfSchedule, 2), export.Float(r.LuckIndex, 2),
		export.Float(r.StarterPoints, 2), export.Float(r.OptimalPoints, 2), export.Float(r.Efficiency, 2),
	}
}

type advancedTotals struct {
	team           domain.Team
	starterPoints  float64
	optimalPoints  float64
	opponentPoints []float64
	trueWins       int
	trueLosses     int
	gamesPlayed    int
}

// BuildAdvanced computes all-play records, strength of schedule, luck and
// lineup efficiency per owner and season from the loaded box scores.
func BuildAdvanced(seasons []*domain.SeasonData, owners *domain.OwnerDirectory, lineupOverride domain.SlotConfiguration) ([]AdvancedRow, error) {
	var rows []AdvancedRow
	for _, data := range seasonsByYear(seasons) {
		seasonRows, err := advancedSeason(data, owners, slotsFor(lineupOverride, data.Season))
		if err != nil {
			return nil, fmt.Errorf("failed to compute advanced metrics for %d: %w", data.Season.Year, err)
		}
		rows = append(rows, seasonRows...)
	}

	slices.SortStableFunc(rows, func(a, b AdvancedRow) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.OwnerName, b.OwnerName))
	})
	return rows, nil
}

func advancedSeason(data *domain.SeasonData, owners *domain.OwnerDirectory, slots domain.SlotConfiguration) ([]AdvancedRow, error) {
	s := data.Season
	teams := teamIndex(s)
	stats := map[domain.OwnerYear]*advancedTotals{}
	var order []domain.OwnerYear

	totalsFor := func(teamID int) *advancedTotals {
		team, ok := teams[teamID]
		if !ok || team.Owner.ID == "" {
			return nil
		}
		key := domain.OwnerYear{OwnerID: team.Owner.ID, Year: s.Year}
		if stats[key] == nil {
			stats[key] = &advancedTotals{team: team}
			order = append(order, key)
		}
		return stats[key]
	}

	weeks := data.LineupWeeks()
	for _, week := range weeks {
		weekly := map[domain.OwnerYear]float64{}

		for _, box := range data.BoxScores[week] {
			for _, side := range box.Sides() {
				totals := totalsFor(side.TeamID)
				if totals == nil {
					continue
				}
				best, err := lineup.Optimal(side.Lineup, slots)
				if err != nil {
					return nil, err
				}
				starter := lineup.ActualPoints(side.Lineup)
				totals.starterPoints += starter
				totals.optimalPoints += best.Points
				weekly[domain.OwnerYear{OwnerID: totals.team.Owner.ID, Year: s.Year}] = starter

				if side.OpponentID != 0 && totalsFor(side.OpponentID) != nil {
					totals.opponentPoints = append(totals.opponentPoints, side.OpponentScore)
				}
			}
		}

		for key, score := range weekly {
			totals := stats[key]
			for other, otherScore := range weekly {
				if other == key {
					continue
				}
				switch {
				case score > otherScore:
					totals.trueWins++
				case score < otherScore:
					totals.trueLosses++
				}
			}
			totals.gamesPlayed += len(weekly) - 1
		}
	}

	var allOpponents []float64
	for _, key := range order {
		allOpponents = append(allOpponents, stats[key].opponentPoints...)
	}
	avgSOS := mean(allOpponents)

	rows := make([]AdvancedRow, 0, len(order))
	for _, key := range order {
		totals := stats[key]
		team := totals.team
		leagueGames := team.LeagueGames()

		normWins := 0
		if totals.gamesPlayed > 0 {
			ratio := float64(totals.trueWins) / float64(totals.gamesPlayed)
			normWins = int(export.Round(ratio*float64(leagueGames), 0))
		}
		winPct := 0.0
		if leagueGames > 0 {
			winPct = export.Round(float64(normWins)/float64(leagueGames), 3)
		}

		sos := mean(totals.opponentPoints)
		luck := float64(team.Wins-normWins) - (sos-avgSOS)/10

		rows = append(rows, AdvancedRow{
			Year:                 s.Year,
			OwnerID:              key.OwnerID,
			OwnerName:            owners.Name(team),
			Wins:                 team.Wins,
			Losses:               team.Losses,
			LeagueGames:          leagueGames,
			ScheduledGames:       len(weeks),
			NormalizedTrueWins:   normWins,
			NormalizedTrueLosses: leagueGames - normWins,
			TrueWinPct:           winPct,
			StrengthOfSchedule:   round2(sos),
			LuckIndex:            round2(luck),
			StarterPoints:        round2(totals.starterPoints),
			OptimalPoints:        round2(totals.optimalPoints),
			Efficiency:           round2(lineup.Efficiency(totals.starterPoints, totals.optimalPoints)),
		})
	}
	return rows, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
