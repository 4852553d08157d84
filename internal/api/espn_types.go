package api

import (
	"strconv"

	"league-history/internal/domain"
)

type League struct {
	ID          int            `json:"id"`
	SeasonID    int            `json:"seasonId"`
	Status      Status         `json:"status"`
	Settings    Settings       `json:"settings"`
	Teams       []Team         `json:"teams"`
	Members     []Member       `json:"members"`
	Schedule    []ScheduleItem `json:"schedule"`
	DraftDetail DraftDetail    `json:"draftDetail"`
}

type Status struct {
	CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
}

type Settings struct {
	Name             string           `json:"name"`
	RosterSettings   RosterSettings   `json:"rosterSettings"`
	ScheduleSettings ScheduleSettings `json:"scheduleSettings"`
}

type RosterSettings struct {
	// keyed by lineup slot id
	LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
}

type ScheduleSettings struct {
	// regular season length
	MatchupPeriodCount int `json:"matchupPeriodCount"`
	// matchup period id -> scoring period ids
	MatchupPeriods map[string][]int `json:"matchupPeriods"`
}

type Team struct {
	ID                  int      `json:"id"`
	Abbrev              string   `json:"abbrev"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Nickname            string   `json:"nickname"`
	Owners              []string `json:"owners"`
	PrimaryOwner        string   `json:"primaryOwner"`
	Record              Record   `json:"record"`
	RankCalculatedFinal int      `json:"rankCalculatedFinal"`
}

// DisplayName prefers the single name field newer seasons carry.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Location == "" {
		return t.Nickname
	}
	if t.Nickname == "" {
		return t.Location
	}
	return t.Location + " " + t.Nickname
}

type Record struct {
	Overall RecordDetails `json:"overall"`
}

type RecordDetails struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type ScheduleItem struct {
	ID              int          `json:"id"`
	MatchupPeriodID int          `json:"matchupPeriodId"`
	PlayoffTierType string       `json:"playoffTierType"`
	Winner          string       `json:"winner"`
	Home            *MatchupTeam `json:"home"`
	Away            *MatchupTeam `json:"away"`
}

type MatchupTeam struct {
	TeamID                        int              `json:"teamId"`
	TotalPoints                   float64          `json:"totalPoints"`
	RosterForCurrentScoringPeriod *RosterForPeriod `json:"rosterForCurrentScoringPeriod"`
}

type RosterForPeriod struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerID        int             `json:"playerId"`
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
}

type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
	Player           Player  `json:"player"`
}

type Player struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	Stats             []Stat `json:"stats"`
}

// ActualPoints returns the scored total for a scoring period, or nil when
// the player has no actual stat line for it.
func (p Player) ActualPoints(scoringPeriod int) *float64 {
	for _, s := range p.Stats {
		if s.StatSourceID == 0 && s.ScoringPeriodID == scoringPeriod {
			return domain.Points(s.AppliedTotal)
		}
	}
	return nil
}

type Stat struct {
	StatSourceID    int     `json:"statSourceId"`
	ScoringPeriodID int     `json:"scoringPeriodId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

type DraftDetail struct {
	Drafted bool        `json:"drafted"`
	Picks   []DraftPick `json:"picks"`
}

type DraftPick struct {
	OverallPickNumber int `json:"overallPickNumber"`
	RoundID           int `json:"roundId"`
	RoundPickNumber   int `json:"roundPickNumber"`
	TeamID            int `json:"teamId"`
	PlayerID          int `json:"playerId"`
}

// ProPlayer is an entry of the players_wl view.
type ProPlayer struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
}

var positionByID = map[int]domain.Position{
	1:  domain.PositionQB,
	2:  domain.PositionRB,
	3:  domain.PositionWR,
	4:  domain.PositionTE,
	5:  domain.PositionK,
	16: domain.PositionDST,
}

var slotByID = map[int]domain.Slot{
	0:  domain.SlotQB,
	2:  domain.SlotRB,
	4:  domain.SlotWR,
	6:  domain.SlotTE,
	16: domain.SlotDST,
	17: domain.SlotK,
	20: domain.SlotBench,
	21: domain.SlotIR,
	23: domain.SlotFlex,
}

// PositionFromID maps a default position id. Unsupported ids (IDP, punters,
// head coaches) return an empty Position.
func PositionFromID(id int) domain.Position {
	return positionByID[id]
}

// SlotFromID maps a lineup slot id. Unsupported slots (OP, IDP) keep their
// numeric id and still count as started.
func SlotFromID(id int) domain.Slot {
	if s, ok := slotByID[id]; ok {
		return s
	}
	return domain.Slot("SLOT_" + strconv.Itoa(id))
}

// SlotCounts converts lineupSlotCounts into a SlotConfiguration over the
// supported starting slots.
func (r RosterSettings) SlotCounts() domain.SlotConfiguration {
	out := domain.SlotConfiguration{}
	for key, count := range r.LineupSlotCounts {
		id, err := strconv.Atoi(key)
		if err != nil || count <= 0 {
			continue
		}
		slot, ok := slotByID[id]
		if !ok || !slot.IsStarting() {
			continue
		}
		out[slot] += count
	}
	return out
}
