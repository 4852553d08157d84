package service

import (
	"cmp"
	"slices"

	"league-history/internal/domain"
	"league-history/internal/export"
)

var HeadToHeadHeader = []string{
	"Owner ID", "Owner Name", "Opponent ID", "Opponent Name",
	"Wins", "Losses", "Ties", "Games Played", "Points For", "Points Against", "Win %",
}

type HeadToHeadRow struct {
	OwnerID       string
	OwnerName     string
	OpponentID    string
	OpponentName  string
	Wins          int
	Losses        int
	Ties          int
	GamesPlayed   int
	PointsFor     float64
	PointsAgainst float64
	WinPct        float64
}

func (r HeadToHeadRow) Record() []string {
	return []string{
		r.OwnerID, r.OwnerName, r.OpponentID, r.OpponentName,
		export.Int(r.Wins), export.Int(r.Losses), export.Int(r.Ties), export.Int(r.GamesPlayed),
		export.Float(r.PointsFor, 2), export.Float(r.PointsAgainst, 2), export.Float(r.WinPct, 2),
	}
}

// BuildHeadToHead totals every regular-season meeting between two owners
// across all seasons, once from each side. Owners are named as of their most
// recent season.
func BuildHeadToHead(seasons []*domain.SeasonData, owners *domain.OwnerDirectory) []HeadToHeadRow {
	pairs := map[domain.OwnerPair]*HeadToHeadRow{}
	names := map[string]string{}

	for _, data := range seasonsByYear(seasons) {
		s := data.Season
		teams := teamIndex(s)
		for _, t := range s.Teams {
			if t.Owner.ID != "" {
				names[t.Owner.ID] = owners.Name(t)
			}
		}

		for _, m := range s.RegularSeason() {
			if m.IsBye() || (m.HomeScore == 0 && m.AwayScore == 0) {
				continue
			}
			home, away := teams[m.HomeTeamID].Owner.ID, teams[m.AwayTeamID].Owner.ID
			if home == "" || away == "" {
				continue
			}
			tally(pairs, domain.OwnerPair{OwnerID: home, OpponentID: away}, m.HomeScore, m.AwayScore)
			tally(pairs, domain.OwnerPair{OwnerID: away, OpponentID: home}, m.AwayScore, m.HomeScore)
		}
	}

	rows := make([]HeadToHeadRow, 0, len(pairs))
	for key, r := range pairs {
		r.OwnerName = names[key.OwnerID]
		r.OpponentName = names[key.OpponentID]
		if r.GamesPlayed > 0 {
			r.WinPct = round2(100 * float64(r.Wins) / float64(r.GamesPlayed))
		}
		r.PointsFor = round2(r.PointsFor)
		r.PointsAgainst = round2(r.PointsAgainst)
		rows = append(rows, *r)
	}

	slices.SortFunc(rows, func(a, b HeadToHeadRow) int {
		return cmp.Or(
			cmp.Compare(a.OwnerName, b.OwnerName),
			cmp.Compare(a.OpponentName, b.OpponentName),
			cmp.Compare(a.OwnerID, b.OwnerID),
			cmp.Compare(a.OpponentID, b.OpponentID),
		)
	})
	return rows
}

func tally(pairs map[domain.OwnerPair]*HeadToHeadRow, key domain.OwnerPair, pointsFor, pointsAgainst float64) {
	r := pairs[key]
	if r == nil {
		r = &HeadToHeadRow{OwnerID: key.OwnerID, OpponentID: key.OpponentID}
		pairs[key] = r
	}
	r.GamesPlayed++
	r.PointsFor += pointsFor
	r.PointsAgainst += pointsAgainst
	switch {
	case pointsFor > pointsAgainst:
		r.Wins++
	case pointsFor < pointsAgainst:
		r.Losses++
	default:
		r.Ties++
	}
}
