package service

import (
	"fmt"
	"slices"
	"strings"

	"league-history/internal/config"
	"league-history/internal/domain"
	"league-history/internal/export"
)

var PayoutsHeader = []string{"Week", "Award", "Team", "Owner", "Points", "Players"}

type PayoutWinner struct {
	Week    int      `json:"week"`
	Text    string   `json:"payout_text"`
	Team    string   `json:"team"`
	Owner   string   `json:"owner"`
	Points  float64  `json:"points"`
	Players []string `json:"players"`
}

func (w PayoutWinner) Record() []string {
	return []string{
		export.Int(w.Week), w.Text, w.Team, w.Owner,
		export.Float(w.Points, 2), strings.Join(w.Players, "; "),
	}
}

// BuildPayouts picks the winner of each completed week that has a payout
// rule. Only started players with a stat line count.
func BuildPayouts(data *domain.SeasonData, owners *domain.OwnerDirectory, rc *config.ReportConfig) ([]PayoutWinner, error) {
	if data == nil || data.Season == nil {
		return nil, fmt.Errorf("season %d was not loaded", rc.Weekly.Year)
	}
	s := data.Season
	teams := teamIndex(s)

	var winners []PayoutWinner
	for week := 1; week < s.CurrentMatchupPeriod; week++ {
		rule, ok := rc.PayoutRule(week)
		if !ok {
			continue
		}
		boxes, loaded := data.BoxScores[week]
		if !loaded || len(s.ScoringPeriodsOf(week)) > 1 {
			continue
		}

		var best *PayoutWinner
		for _, box := range boxes {
			for _, side := range box.Sides() {
				entry, ok := scorePayout(rule, startersWithPoints(side.Lineup))
				if !ok {
					continue
				}
				team := teams[side.TeamID]
				entry.Week = week
				entry.Team = team.Name
				entry.Owner = owners.Name(team)
				if best == nil || entry.Points > best.Points {
					best = &entry
				}
			}
		}
		if best != nil {
			best.Points = round2(best.Points)
			winners = append(winners, *best)
		}
	}
	return winners, nil
}

func startersWithPoints(players []domain.PlayerPerformance) []domain.PlayerPerformance {
	var out []domain.PlayerPerformance
	for _, p := range players {
		if p.Slot.IsStarting() && p.Points != nil {
			out = append(out, p)
		}
	}
	return out
}

// scorePayout scores one team's starters under rule. It reports false when
// the team cannot qualify.
func scorePayout(rule domain.PayoutRule, players []domain.PlayerPerformance) (PayoutWinner, bool) {
	switch rule.Type {
	case domain.PayoutHighestTotal:
		return PayoutWinner{Text: "Highest Scoring Team", Points: sumPoints(players), Players: playerNames(players)}, true

	case domain.PayoutTopPlayer:
		top := topPlayers(players, 1)
		if len(top) == 0 {
			return PayoutWinner{}, false
		}
		return PayoutWinner{Text: "Top Individual Player Score", Points: *top[0].Points, Players: playerNames(top)}, true

	case domain.PayoutTopSlot:
		var group []domain.PlayerPerformance
		bestPoints := -1.0
		for _, slot := range rule.Slots {
			eligible := atPosition(players, slot.Position, nil)
			if len(eligible) < slot.Count {
				continue
			}
			top := topPlayers(eligible, slot.Count)
			if pts := sumPoints(top); pts > bestPoints {
				bestPoints, group = pts, top
			}
		}
		if group == nil {
			return PayoutWinner{}, false
		}
		return PayoutWinner{Text: "Top " + rule.SlotSummary() + " Score", Points: bestPoints, Players: playerNames(group)}, true

	case domain.PayoutTopSlotCombo:
		used := map[int]bool{}
		var selected []domain.PlayerPerformance
		for _, slot := range rule.Slots {
			top := topPlayers(atPosition(players, slot.Position, used), slot.Count)
			for _, p := range top {
				used[p.PlayerID] = true
			}
			selected = append(selected, top...)
		}
		if len(selected) != rule.SlotTotal() {
			return PayoutWinner{}, false
		}
		return PayoutWinner{Text: "Top Combo: " + rule.SlotSummary(), Points: sumPoints(selected), Players: playerNames(selected)}, true
	}
	return PayoutWinner{}, false
}

func atPosition(players []domain.PlayerPerformance, pos domain.Position, used map[int]bool) []domain.PlayerPerformance {
	var out []domain.PlayerPerformance
	for _, p := range players {
		if domain.NormalizePosition(string(p.Position)) == pos && !used[p.PlayerID] {
			out = append(out, p)
		}
	}
	return out
}

func topPlayers(players []domain.PlayerPerformance, count int) []domain.PlayerPerformance {
	sorted := append([]domain.PlayerPerformance(nil), players...)
	slices.SortStableFunc(sorted, func(a, b domain.PlayerPerformance) int {
		switch {
		case *a.Points > *b.Points:
			return -1
		case *a.Points < *b.Points:
			return 1
		}
		return 0
	})
	if len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}

func sumPoints(players []domain.PlayerPerformance) float64 {
	total := 0.0
	for _, p := range players {
		total += p.PointsOrZero()
	}
	return total
}

func playerNames(players []domain.PlayerPerformance) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
