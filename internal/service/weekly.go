package service

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"league-history/internal/config"
	"league-history/internal/domain"
	"league-history/internal/export"
	"league-history/internal/lineup"
)

var WeeklyHeader = []string{"Week", "Team Name", "Owner", "Actual Points", "Optimal Points", "Efficiency %", "Award"}

type WeeklyRow struct {
	Week          int
	TeamName      string
	Owner         string
	ActualPoints  float64
	OptimalPoints float64
	Efficiency    float64
	Award         string
}

func (r WeeklyRow) Record() []string {
	return []string{
		export.Int(r.Week), r.TeamName, r.Owner,
		export.Float(r.ActualPoints, 2), export.Float(r.OptimalPoints, 2), export.Float(r.Efficiency, 2),
		r.Award,
	}
}

// WeeklyWeeks is the range the weekly report covers: matchup periods played
// so far, capped at the end of the regular season.
func WeeklyWeeks(s *domain.Season) int {
	last := s.CurrentMatchupPeriod
	if s.RegularSeasonWeeks > 0 && s.RegularSeasonWeeks < last {
		last = s.RegularSeasonWeeks
	}
	return last
}

// BuildWeekly scores every lineup of the configured season against its
// optimal lineup and hands out one award per team and week.
func BuildWeekly(data *domain.SeasonData, owners *domain.OwnerDirectory, rc *config.ReportConfig) ([]WeeklyRow, error) {
	if data == nil || data.Season == nil {
		return nil, fmt.Errorf("season %d was not loaded", rc.Weekly.Year)
	}
	s := data.Season
	teams := teamIndex(s)
	slots := slotsFor(rc.Lineup, s)
	last := WeeklyWeeks(s)

	var rows []WeeklyRow
	for _, week := range data.LineupWeeks() {
		if week < 1 || week > last {
			continue
		}
		var weekRows []WeeklyRow
		for _, box := range data.BoxScores[week] {
			for _, side := range box.Sides() {
				eval, err := lineup.Evaluate(side.Lineup, slots)
				if err != nil {
					return nil, fmt.Errorf("failed to evaluate week %d team %d: %w", week, side.TeamID, err)
				}
				team := teams[side.TeamID]
				weekRows = append(weekRows, WeeklyRow{
					Week:          week,
					TeamName:      team.Name,
					Owner:         owners.Name(team),
					ActualPoints:  round2(eval.Actual),
					OptimalPoints: round2(eval.Optimal),
					Efficiency:    round2(eval.Efficiency),
				})
			}
		}
		assignAwards(weekRows, rc.Weekly.Awards)
		rows = append(rows, weekRows...)
	}

	slices.SortStableFunc(rows, func(a, b WeeklyRow) int {
		return cmp.Or(cmp.Compare(a.Week, b.Week), cmp.Compare(a.TeamName, b.TeamName))
	})
	return rows, nil
}

// assignAwards gives the top scorer, the bottom scorer and the least
// efficient team their award. A team holds at most one; the first row wins
// ties.
func assignAwards(rows []WeeklyRow, names config.AwardNames) {
	if len(rows) == 0 {
		return
	}
	high, low, ineff := 0, 0, 0
	for i, r := range rows {
		if r.ActualPoints > rows[high].ActualPoints {
			high = i
		}
		if r.ActualPoints < rows[low].ActualPoints {
			low = i
		}
		if r.Efficiency < rows[ineff].Efficiency {
			ineff = i
		}
	}
	for i := range rows {
		switch i {
		case high:
			rows[i].Award = names.HighScore
		case low:
			rows[i].Award = names.LowScore
		case ineff:
			rows[i].Award = names.Inefficient
		}
	}
}

type SurvivorResult struct {
	Eliminated map[string]int `json:"eliminated"`
	Remaining  []string       `json:"remaining"`
}

// BuildSurvivor eliminates the lowest scorer still standing each week before
// finalWeek. Ties go out in row order.
func BuildSurvivor(rows []WeeklyRow, finalWeek int) SurvivorResult {
	sorted := append([]WeeklyRow(nil), rows...)
	slices.SortStableFunc(sorted, func(a, b WeeklyRow) int {
		return cmp.Or(cmp.Compare(a.Week, b.Week), cmp.Compare(a.ActualPoints, b.ActualPoints))
	})

	remaining := map[string]bool{}
	for _, r := range sorted {
		remaining[r.Owner] = true
	}

	result := SurvivorResult{Eliminated: map[string]int{}, Remaining: []string{}}
	out := map[int]bool{}
	for _, r := range sorted {
		if r.Week >= finalWeek || out[r.Week] || !remaining[r.Owner] {
			continue
		}
		delete(remaining, r.Owner)
		result.Eliminated[r.Owner] = r.Week
		out[r.Week] = true
	}

	for owner := range remaining {
		result.Remaining = append(result.Remaining, owner)
	}
	sort.Strings(result.Remaining)
	return result
}
