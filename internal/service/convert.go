package service

import (
	"sort"
	"strconv"
	"time"

	"league-history/internal/api"
	"league-history/internal/domain"
)

func convertSeason(l *api.League, year int, fetchedAt time.Time) *domain.Season {
	members := make(map[string]api.Member, len(l.Members))
	for _, m := range l.Members {
		members[m.ID] = m
	}

	s := &domain.Season{
		LeagueID:             l.ID,
		Year:                 year,
		Name:                 l.Settings.Name,
		Slots:                l.Settings.RosterSettings.SlotCounts(),
		RegularSeasonWeeks:   l.Settings.ScheduleSettings.MatchupPeriodCount,
		CurrentMatchupPeriod: l.Status.CurrentMatchupPeriod,
		FetchedAt:            fetchedAt,
	}

	for _, t := range l.Teams {
		s.Teams = append(s.Teams, convertTeam(t, members))
	}
	sort.Slice(s.Teams, func(i, j int) bool { return s.Teams[i].ID < s.Teams[j].ID })

	for _, item := range l.Schedule {
		if m, ok := convertMatchup(item); ok {
			s.Schedule = append(s.Schedule, m)
		}
	}

	s.MatchupPeriods = matchupPeriods(l.Settings.ScheduleSettings.MatchupPeriods, s.Schedule)
	s.ScoringPeriods = scoringPeriods(l.Settings.ScheduleSettings.MatchupPeriods)
	return s
}

func convertTeam(t api.Team, members map[string]api.Member) domain.Team {
	team := domain.Team{
		ID:            t.ID,
		Name:          t.DisplayName(),
		Abbrev:        t.Abbrev,
		Wins:          t.Record.Overall.Wins,
		Losses:        t.Record.Overall.Losses,
		Ties:          t.Record.Overall.Ties,
		PointsFor:     t.Record.Overall.PointsFor,
		PointsAgainst: t.Record.Overall.PointsAgainst,
		FinalStanding: t.RankCalculatedFinal,
	}

	ownerID := t.PrimaryOwner
	if ownerID == "" && len(t.Owners) > 0 {
		ownerID = t.Owners[0]
	}
	if ownerID != "" {
		m := members[ownerID]
		team.Owner = domain.Owner{ID: ownerID, FirstName: m.FirstName, LastName: m.LastName}
	}
	return team
}

func convertMatchup(item api.ScheduleItem) (domain.Matchup, bool) {
	if item.Home == nil {
		return domain.Matchup{}, false
	}
	m := domain.Matchup{
		Week:       item.MatchupPeriodID,
		HomeTeamID: item.Home.TeamID,
		HomeScore:  item.Home.TotalPoints,
	}
	if item.Away != nil {
		m.AwayTeamID = item.Away.TeamID
		m.AwayScore = item.Away.TotalPoints
	}
	return m, true
}

// matchupPeriods prefers the settings table and falls back to the weeks the
// schedule mentions.
func matchupPeriods(settings map[string][]int, schedule []domain.Matchup) []int {
	seen := map[int]bool{}
	for key := range settings {
		if w, err := strconv.Atoi(key); err == nil && w > 0 {
			seen[w] = true
		}
	}
	if len(seen) == 0 {
		for _, m := range schedule {
			if m.Week > 0 {
				seen[m.Week] = true
			}
		}
	}

	weeks := make([]int, 0, len(seen))
	for w := range seen {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

// scoringPeriods keeps the matchup periods that do not map one to one.
func scoringPeriods(settings map[string][]int) map[int][]int {
	out := map[int][]int{}
	for key, periods := range settings {
		w, err := strconv.Atoi(key)
		if err != nil || w <= 0 || len(periods) == 0 {
			continue
		}
		if len(periods) == 1 && periods[0] == w {
			continue
		}
		sorted := append([]int(nil), periods...)
		sort.Ints(sorted)
		out[w] = sorted
	}
	return out
}

// convertBoxScores keeps the matchups of week. Player points come from
// scoringPeriod.
func convertBoxScores(l *api.League, week, scoringPeriod int) []domain.BoxScore {
	var out []domain.BoxScore
	for _, item := range l.Schedule {
		if item.MatchupPeriodID != week || item.Home == nil {
			continue
		}
		m, _ := convertMatchup(item)
		box := domain.BoxScore{
			Matchup:    m,
			HomeLineup: convertLineup(item.Home, scoringPeriod),
		}
		if item.Away != nil {
			box.AwayLineup = convertLineup(item.Away, scoringPeriod)
		}
		out = append(out, box)
	}
	return out
}

func convertLineup(side *api.MatchupTeam, scoringPeriod int) []domain.PlayerPerformance {
	if side.RosterForCurrentScoringPeriod == nil {
		return nil
	}
	entries := side.RosterForCurrentScoringPeriod.Entries
	lineup := make([]domain.PlayerPerformance, 0, len(entries))
	for _, e := range entries {
		p := e.PlayerPoolEntry.Player
		id := e.PlayerID
		if id == 0 {
			id = p.ID
		}
		lineup = append(lineup, domain.PlayerPerformance{
			PlayerID: id,
			Name:     p.FullName,
			Position: api.PositionFromID(p.DefaultPositionID),
			Slot:     api.SlotFromID(e.LineupSlotID),
			Points:   p.ActualPoints(scoringPeriod),
		})
	}
	return lineup
}

func convertDraft(l *api.League, players []api.ProPlayer) []domain.DraftPick {
	names := make(map[int]string, len(players))
	for _, p := range players {
		names[p.ID] = p.FullName
	}

	picks := append([]api.DraftPick(nil), l.DraftDetail.Picks...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].OverallPickNumber < picks[j].OverallPickNumber })

	out := make([]domain.DraftPick, 0, len(picks))
	for _, p := range picks {
		name := names[p.PlayerID]
		if name == "" {
			name = "Player " + strconv.Itoa(p.PlayerID)
		}
		out = append(out, domain.DraftPick{
			Round:      p.RoundID,
			Pick:       p.RoundPickNumber,
			TeamID:     p.TeamID,
			PlayerID:   p.PlayerID,
			PlayerName: name,
		})
	}
	return out
}
