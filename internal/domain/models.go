package domain

import (
	"sort"
	"strings"
	"time"
)

type Owner struct {
	ID        string
	FirstName string
	LastName  string
}

func (o Owner) Initials() string {
	first := []rune(strings.TrimSpace(o.FirstName))
	last := []rune(strings.TrimSpace(o.LastName))
	if len(first) == 0 || len(last) == 0 {
		return ""
	}
	return string(first[0]) + string(last[0])
}

type Team struct {
	ID            int
	Name          string
	Abbrev        string
	Owner         Owner
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	FinalStanding int
}

func (t Team) LeagueGames() int {
	return t.Wins + t.Losses
}

type Matchup struct {
	Week       int
	HomeTeamID int
	AwayTeamID int // 0 on a bye
	HomeScore  float64
	AwayScore  float64
}

func (m Matchup) IsBye() bool {
	return m.HomeTeamID == 0 || m.AwayTeamID == 0
}

type BoxScore struct {
	Matchup
	HomeLineup []PlayerPerformance
	AwayLineup []PlayerPerformance
}

// Side is one team's half of a box score.
type Side struct {
	TeamID        int
	Score         float64
	OpponentID    int
	OpponentScore float64
	Lineup        []PlayerPerformance
}

// Sides returns the home side first. Byes yield only the home side.
func (b BoxScore) Sides() []Side {
	home := Side{
		TeamID:        b.HomeTeamID,
		Score:         b.HomeScore,
		OpponentID:    b.AwayTeamID,
		OpponentScore: b.AwayScore,
		Lineup:        b.HomeLineup,
	}
	if b.AwayTeamID == 0 {
		return []Side{home}
	}
	return []Side{home, {
		TeamID:        b.AwayTeamID,
		Score:         b.AwayScore,
		OpponentID:    b.HomeTeamID,
		OpponentScore: b.HomeScore,
		Lineup:        b.AwayLineup,
	}}
}

type DraftPick struct {
	Round      int
	Pick       int
	TeamID     int
	PlayerID   int
	PlayerName string
}

type Season struct {
	LeagueID             int
	Year                 int
	Name                 string
	Teams                []Team
	Schedule             []Matchup
	Slots                SlotConfiguration
	MatchupPeriods       []int
	// matchup period -> scoring periods; missing entries are one to one
	ScoringPeriods       map[int][]int
	RegularSeasonWeeks   int
	CurrentMatchupPeriod int
	FetchedAt            time.Time
}

func (s *Season) Team(id int) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// ScoringPeriodsOf lists the scoring periods a matchup period spans.
func (s *Season) ScoringPeriodsOf(week int) []int {
	if periods := s.ScoringPeriods[week]; len(periods) > 0 {
		return periods
	}
	return []int{week}
}

// FinalScoringPeriod is the scoring period whose lineup closes a matchup
// period.
func (s *Season) FinalScoringPeriod(week int) int {
	periods := s.ScoringPeriodsOf(week)
	return periods[len(periods)-1]
}

// RegularSeason returns the schedule for weeks 1..RegularSeasonWeeks.
func (s *Season) RegularSeason() []Matchup {
	out := make([]Matchup, 0, len(s.Schedule))
	for _, m := range s.Schedule {
		if m.Week >= 1 && (s.RegularSeasonWeeks == 0 || m.Week <= s.RegularSeasonWeeks) {
			out = append(out, m)
		}
	}
	return out
}

// PlayedWeeks lists matchup periods up to the current one, sorted.
func (s *Season) PlayedWeeks(limit int) []int {
	weeks := append([]int(nil), s.MatchupPeriods...)
	sort.Ints(weeks)
	out := weeks[:0]
	for _, w := range weeks {
		if limit > 0 && w > limit {
			continue
		}
		out = append(out, w)
	}
	return out
}

// SeasonData bundles a season with the per-week detail a report asked for.
type SeasonData struct {
	Season    *Season
	BoxScores map[int][]BoxScore
	Draft     []DraftPick
}

// Weeks returns the weeks with box scores in ascending order.
func (d SeasonData) Weeks() []int {
	weeks := make([]int, 0, len(d.BoxScores))
	for w := range d.BoxScores {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

// LineupWeeks returns the loaded weeks whose lineup stats cover the whole
// matchup. Matchup periods spanning several scoring periods are left out
// since a box score carries a single scoring period's stats.
func (d SeasonData) LineupWeeks() []int {
	weeks := d.Weeks()
	out := weeks[:0]
	for _, w := range weeks {
		if d.Season == nil || len(d.Season.ScoringPeriodsOf(w)) == 1 {
			out = append(out, w)
		}
	}
	return out
}

type CachedResponse struct {
	ID        string // nanoid
	CacheKey  string
	Season    int
	Body      []byte
	FetchedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the payload is older than ttl. A zero ttl never
// expires.
func (c CachedResponse) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(c.FetchedAt) > ttl
}

// CurrentSeasonYear is the fantasy season in progress at now. Seasons start
// in late summer and finish in January.
func CurrentSeasonYear(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}
