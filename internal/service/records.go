package service

import (
	"league-history/internal/domain"
	"league-history/internal/export"
)

var RecordsHeader = []string{"Category", "Owner", "Detail", "Points", "Year", "Week"}

const (
	CategoryTeamGameHigh   = "Most Points (Team Game)"
	CategoryTeamGameLow    = "Least Points (Team Game)"
	CategoryTeamSeasonHigh = "Most Points (Team Season)"
	CategoryTeamSeasonLow  = "Least Points (Team Season)"
	CategoryPlayerGame     = "Top Player (Single Game)"
	CategoryPlayerSeason   = "Top Player (Season)"
)

// CategoryPositionGame names the single-game record for a position.
func CategoryPositionGame(p domain.Position) string {
	return "Top " + string(p) + " (Single Game)"
}

type RecordRow struct {
	Category string
	Owner    string
	Detail   string
	Points   float64
	Year     int
	// zero for season records
	Week int
}

func (r RecordRow) Record() []string {
	week := ""
	if r.Week > 0 {
		week = export.Int(r.Week)
	}
	return []string{r.Category, r.Owner, r.Detail, export.Float(r.Points, 2), export.Int(r.Year), week}
}

type playerSeasonKey struct {
	year     int
	playerID int
	owner    string
}

type playerSeasonTotal struct {
	key    playerSeasonKey
	name   string
	points float64
}

// BuildRecords finds per-season team and player highs and lows over the
// regular season and the best player season of all. Player records consider
// every rostered player, bench included. Earlier entries win ties.
func BuildRecords(seasons []*domain.SeasonData, owners *domain.OwnerDirectory) []RecordRow {
	var rows []RecordRow
	var seasonTotals []*playerSeasonTotal
	totalIndex := map[playerSeasonKey]*playerSeasonTotal{}

	for _, data := range seasonsByYear(seasons) {
		s := data.Season
		teams := teamIndex(s)
		ownerOf := func(teamID int) string {
			if t, ok := teams[teamID]; ok {
				return owners.Name(t)
			}
			return domain.UnknownOwner
		}

		var gameHigh, gameLow, playerHigh *RecordRow
		byPosition := map[domain.Position]*RecordRow{}
		teamTotals := map[int]float64{}
		var teamOrder []int

		for _, week := range data.LineupWeeks() {
			if s.RegularSeasonWeeks > 0 && week > s.RegularSeasonWeeks {
				continue
			}
			for _, box := range data.BoxScores[week] {
				for _, side := range box.Sides() {
					owner := ownerOf(side.TeamID)
					if _, seen := teamTotals[side.TeamID]; !seen {
						teamOrder = append(teamOrder, side.TeamID)
					}
					teamTotals[side.TeamID] += side.Score

					if gameHigh == nil || side.Score > gameHigh.Points {
						gameHigh = &RecordRow{Category: CategoryTeamGameHigh, Owner: owner, Points: side.Score, Year: s.Year, Week: week}
					}
					if gameLow == nil || side.Score < gameLow.Points {
						gameLow = &RecordRow{Category: CategoryTeamGameLow, Owner: owner, Points: side.Score, Year: s.Year, Week: week}
					}

					for _, p := range side.Lineup {
						if p.Points == nil || p.Name == "" {
							continue
						}
						pts := *p.Points

						key := playerSeasonKey{year: s.Year, playerID: p.PlayerID, owner: owner}
						total := totalIndex[key]
						if total == nil {
							total = &playerSeasonTotal{key: key, name: p.Name}
							totalIndex[key] = total
							seasonTotals = append(seasonTotals, total)
						}
						total.points += pts

						if playerHigh == nil || pts > playerHigh.Points {
							playerHigh = &RecordRow{Category: CategoryPlayerGame, Owner: owner, Detail: p.Name, Points: pts, Year: s.Year, Week: week}
						}
						pos := domain.NormalizePosition(string(p.Position))
						if !pos.Valid() {
							continue
						}
						if best := byPosition[pos]; best == nil || pts > best.Points {
							byPosition[pos] = &RecordRow{Category: CategoryPositionGame(pos), Owner: owner, Detail: p.Name, Points: pts, Year: s.Year, Week: week}
						}
					}
				}
			}
		}

		if gameHigh == nil {
			continue
		}
		rows = append(rows, *gameHigh, *gameLow)

		highTeam, lowTeam := teamOrder[0], teamOrder[0]
		for _, id := range teamOrder[1:] {
			if teamTotals[id] > teamTotals[highTeam] {
				highTeam = id
			}
			if teamTotals[id] < teamTotals[lowTeam] {
				lowTeam = id
			}
		}
		rows = append(rows,
			RecordRow{Category: CategoryTeamSeasonHigh, Owner: ownerOf(highTeam), Points: teamTotals[highTeam], Year: s.Year},
			RecordRow{Category: CategoryTeamSeasonLow, Owner: ownerOf(lowTeam), Points: teamTotals[lowTeam], Year: s.Year},
		)

		if playerHigh != nil {
			rows = append(rows, *playerHigh)
		}
		for _, pos := range domain.Positions {
			if rec := byPosition[pos]; rec != nil {
				rows = append(rows, *rec)
			}
		}
	}

	var best *playerSeasonTotal
	for _, t := range seasonTotals {
		if best == nil || t.points > best.points {
			best = t
		}
	}
	if best != nil {
		rows = append(rows, RecordRow{
			Category: CategoryPlayerSeason,
			Owner:    best.key.owner,
			Detail:   best.name,
			Points:   best.points,
			Year:     best.key.year,
		})
	}

	for i := range rows {
		rows[i].Points = round2(rows[i].Points)
	}
	return rows
}
