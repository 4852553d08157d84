package service

import (
	"cmp"
	"math"
	"slices"

	"league-history/internal/domain"
	"league-history/internal/export"
)

var HistoryHeader = []string{
	"Year", "Team ID", "Owner ID", "Owner Name", "Team Name", "Wins", "Losses", "Ties",
	"Points For", "Points Against", "Final Standing", "Champion", "Sacko",
}

type HistoryRow struct {
	Year          int
	TeamID        int
	OwnerID       string
	OwnerName     string
	TeamName      string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	FinalStanding int
	Champion      bool
	Sacko         bool
}

func (r HistoryRow) Record() []string {
	return []string{
		export.Int(r.Year), export.Int(r.TeamID), r.OwnerID, r.OwnerName, r.TeamName,
		export.Int(r.Wins), export.Int(r.Losses), export.Int(r.Ties),
		export.Float(r.PointsFor, 2), export.Float(r.PointsAgainst, 2),
		export.Int(r.FinalStanding), export.Bool(r.Champion), export.Bool(r.Sacko),
	}
}

// BuildHistory lists every team of every season with its record, champion
// and Sacko flags.
func BuildHistory(seasons []*domain.SeasonData, owners *domain.OwnerDirectory) []HistoryRow {
	var rows []HistoryRow
	for _, data := range seasonsByYear(seasons) {
		s := data.Season
		sacko := SackoTeam(s)
		for _, t := range s.Teams {
			rows = append(rows, HistoryRow{
				Year:          s.Year,
				TeamID:        t.ID,
				OwnerID:       t.Owner.ID,
				OwnerName:     owners.Name(t),
				TeamName:      t.Name,
				Wins:          t.Wins,
				Losses:        t.Losses,
				Ties:          t.Ties,
				PointsFor:     t.PointsFor,
				PointsAgainst: t.PointsAgainst,
				FinalStanding: t.FinalStanding,
				Champion:      t.FinalStanding == 1,
				Sacko:         t.ID == sacko,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b HistoryRow) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(standingKey(a.FinalStanding), standingKey(b.FinalStanding)),
			cmp.Compare(a.TeamID, b.TeamID),
		)
	})
	return rows
}

// standingKey sorts unranked teams after ranked ones.
func standingKey(rank int) int {
	if rank <= 0 {
		return math.MaxInt
	}
	return rank
}

type standing struct {
	teamID    int
	wins      int
	pointsFor float64
}

// SackoTeam returns the team last in the standings after the regular season,
// ordered by wins then points for. Unplayed and bye matchups do not count;
// without any played matchup the season record is used. Zero means no teams.
func SackoTeam(s *domain.Season) int {
	table := make(map[int]*standing, len(s.Teams))
	for _, t := range s.Teams {
		table[t.ID] = &standing{teamID: t.ID}
	}

	played := false
	for _, m := range s.RegularSeason() {
		if m.IsBye() || (m.HomeScore == 0 && m.AwayScore == 0) {
			continue
		}
		home, away := table[m.HomeTeamID], table[m.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		played = true
		home.pointsFor += m.HomeScore
		away.pointsFor += m.AwayScore
		switch {
		case m.HomeScore > m.AwayScore:
			home.wins++
		case m.AwayScore > m.HomeScore:
			away.wins++
		}
	}

	if !played {
		for _, t := range s.Teams {
			table[t.ID].wins = t.Wins
			table[t.ID].pointsFor = t.PointsFor
		}
	}

	rows := make([]*standing, 0, len(table))
	for _, st := range table {
		rows = append(rows, st)
	}
	if len(rows) == 0 {
		return 0
	}
	slices.SortFunc(rows, func(a, b *standing) int {
		return cmp.Or(
			cmp.Compare(b.wins, a.wins),
			cmp.Compare(b.pointsFor, a.pointsFor),
			cmp.Compare(a.teamID, b.teamID),
		)
	})
	return rows[len(rows)-1].teamID
}
