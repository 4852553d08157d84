package service

import (
	"testing"
	"time"

	"league-history/internal/api"
	"league-history/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statLine(period int, points float64) []api.Stat {
	return []api.Stat{
		{StatSourceID: 1, ScoringPeriodID: period, AppliedTotal: 99},
		{StatSourceID: 0, ScoringPeriodID: period, AppliedTotal: points},
	}
}

func testLeague() *api.League {
	return &api.League{
		ID:     77,
		Status: api.Status{CurrentMatchupPeriod: 3},
		Settings: api.Settings{
			Name: "Dynasty",
			RosterSettings: api.RosterSettings{LineupSlotCounts: map[string]int{
				"0": 1, "2": 2, "4": 2, "23": 1, "20": 6, "21": 1, "17": 0,
			}},
			ScheduleSettings: api.ScheduleSettings{
				MatchupPeriodCount: 13,
				MatchupPeriods:     map[string][]int{"2": {2}, "1": {1}, "14": {14, 15}},
			},
		},
		Members: []api.Member{
			{ID: "{A}", FirstName: "Ann", LastName: "Bee"},
			{ID: "{C}", FirstName: "Cat", LastName: "Dee"},
		},
		Teams: []api.Team{
			{ID: 2, Location: "Team", Nickname: "Two", Owners: []string{"{C}"}, Record: api.Record{Overall: api.RecordDetails{Wins: 3, Losses: 10, PointsFor: 1200.5}}},
			{ID: 1, Name: "Team One", PrimaryOwner: "{A}", Owners: []string{"{C}", "{A}"}, RankCalculatedFinal: 1},
			{ID: 3, Name: "Orphan"},
		},
		Schedule: []api.ScheduleItem{
			{MatchupPeriodID: 1, Home: &api.MatchupTeam{
				TeamID: 1, TotalPoints: 101.5,
				RosterForCurrentScoringPeriod: &api.RosterForPeriod{Entries: []api.RosterEntry{
					{PlayerID: 10, LineupSlotID: 0, PlayerPoolEntry: api.PlayerPoolEntry{Player: api.Player{ID: 10, FullName: "Quarter Back", DefaultPositionID: 1, Stats: statLine(1, 22.4)}}},
					{LineupSlotID: 20, PlayerPoolEntry: api.PlayerPoolEntry{Player: api.Player{ID: 11, FullName: "Bench Back", DefaultPositionID: 2, Stats: statLine(2, 5)}}},
				}},
			}, Away: &api.MatchupTeam{TeamID: 2, TotalPoints: 88}},
			{MatchupPeriodID: 1, Home: &api.MatchupTeam{TeamID: 3, TotalPoints: 70}},
			{MatchupPeriodID: 2, Home: &api.MatchupTeam{TeamID: 2, TotalPoints: 90}, Away: &api.MatchupTeam{TeamID: 1, TotalPoints: 91}},
			{MatchupPeriodID: 2},
		},
	}
}

func TestConvertSeason(t *testing.T) {
	fetched := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	s := convertSeason(testLeague(), 2023, fetched)

	assert.Equal(t, 77, s.LeagueID)
	assert.Equal(t, 2023, s.Year)
	assert.Equal(t, "Dynasty", s.Name)
	assert.Equal(t, 13, s.RegularSeasonWeeks)
	assert.Equal(t, 3, s.CurrentMatchupPeriod)
	assert.Equal(t, fetched, s.FetchedAt)
	assert.Equal(t, []int{1, 2, 14}, s.MatchupPeriods)
	assert.Equal(t, map[int][]int{14: {14, 15}}, s.ScoringPeriods)
	assert.Equal(t, []int{2}, s.ScoringPeriodsOf(2))
	assert.Equal(t, 15, s.FinalScoringPeriod(14))
	assert.Equal(t, domain.SlotConfiguration{
		domain.SlotQB: 1, domain.SlotRB: 2, domain.SlotWR: 2, domain.SlotFlex: 1,
	}, s.Slots)

	require.Len(t, s.Teams, 3)
	assert.Equal(t, "Team One", s.Teams[0].Name)
	assert.Equal(t, domain.Owner{ID: "{A}", FirstName: "Ann", LastName: "Bee"}, s.Teams[0].Owner)
	assert.Equal(t, 1, s.Teams[0].FinalStanding)
	assert.Equal(t, "Team Two", s.Teams[1].Name)
	assert.Equal(t, "{C}", s.Teams[1].Owner.ID)
	assert.Equal(t, 3, s.Teams[1].Wins)
	assert.Equal(t, 1200.5, s.Teams[1].PointsFor)
	assert.Empty(t, s.Teams[2].Owner.ID)

	require.Len(t, s.Schedule, 3)
	assert.True(t, s.Schedule[1].IsBye())
	assert.Equal(t, domain.Matchup{Week: 2, HomeTeamID: 2, AwayTeamID: 1, HomeScore: 90, AwayScore: 91}, s.Schedule[2])
}

func TestMatchupPeriods_FallsBackToSchedule(t *testing.T) {
	weeks := matchupPeriods(nil, []domain.Matchup{{Week: 3}, {Week: 1}, {Week: 3}, {Week: 0}})
	assert.Equal(t, []int{1, 3}, weeks)
}

func TestConvertBoxScores(t *testing.T) {
	boxes := convertBoxScores(testLeague(), 1, 1)
	require.Len(t, boxes, 2)

	first := boxes[0]
	assert.Equal(t, 1, first.HomeTeamID)
	assert.Equal(t, 2, first.AwayTeamID)
	require.Len(t, first.HomeLineup, 2)
	assert.Nil(t, first.AwayLineup)

	qb := first.HomeLineup[0]
	assert.Equal(t, 10, qb.PlayerID)
	assert.Equal(t, domain.PositionQB, qb.Position)
	assert.Equal(t, domain.SlotQB, qb.Slot)
	require.NotNil(t, qb.Points)
	assert.Equal(t, 22.4, *qb.Points)

	bench := first.HomeLineup[1]
	assert.Equal(t, 11, bench.PlayerID)
	assert.Equal(t, domain.SlotBench, bench.Slot)
	assert.Nil(t, bench.Points, "stat line for another week is not used")

	assert.True(t, boxes[1].IsBye())

	bySecondPeriod := convertBoxScores(testLeague(), 1, 2)
	require.Len(t, bySecondPeriod, 2)
	assert.Nil(t, bySecondPeriod[0].HomeLineup[0].Points)
	require.NotNil(t, bySecondPeriod[0].HomeLineup[1].Points)
	assert.Equal(t, 5.0, *bySecondPeriod[0].HomeLineup[1].Points)
	assert.Empty(t, convertBoxScores(testLeague(), 9, 9))
}

func TestConvertDraft(t *testing.T) {
	l := &api.League{DraftDetail: api.DraftDetail{Picks: []api.DraftPick{
		{OverallPickNumber: 2, RoundID: 1, RoundPickNumber: 2, TeamID: 2, PlayerID: 200},
		{OverallPickNumber: 1, RoundID: 1, RoundPickNumber: 1, TeamID: 1, PlayerID: 100},
	}}}

	picks := convertDraft(l, []api.ProPlayer{{ID: 100, FullName: "First Pick"}})
	assert.Equal(t, []domain.DraftPick{
		{Round: 1, Pick: 1, TeamID: 1, PlayerID: 100, PlayerName: "First Pick"},
		{Round: 1, Pick: 2, TeamID: 2, PlayerID: 200, PlayerName: "Player 200"},
	}, picks)
}
