package service

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"league-history/internal/domain"
	"league-history/internal/export"
)

var DraftHabitsHeader = []string{
	"Owner ID", "Owner Name", "Most Drafted Player", "Times Drafted", "Drafted Seasons",
}

type DraftHabitRow struct {
	OwnerID      string
	OwnerName    string
	PlayerID     int
	PlayerName   string
	TimesDrafted int
	Seasons      []int
}

func (r DraftHabitRow) SeasonList() string {
	parts := make([]string, len(r.Seasons))
	for i, y := range r.Seasons {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, " / ")
}

func (r DraftHabitRow) Record() []string {
	return []string{r.OwnerID, r.OwnerName, r.PlayerName, export.Int(r.TimesDrafted), r.SeasonList()}
}

type draftedPlayer struct {
	id      int
	name    string
	seasons []int
	// position in the owner's draft history, for ties
	first int
}

// BuildDraftHabits finds the player each owner drafted most often. Ties go to
// the player the owner drafted first.
func BuildDraftHabits(seasons []*domain.SeasonData, owners *domain.OwnerDirectory) []DraftHabitRow {
	players := map[string]map[int]*draftedPlayer{}
	names := map[string]string{}
	seq := map[string]int{}

	for _, data := range seasonsByYear(seasons) {
		s := data.Season
		teams := teamIndex(s)
		for _, pick := range data.Draft {
			team, ok := teams[pick.TeamID]
			if !ok || team.Owner.ID == "" {
				continue
			}
			owner := team.Owner.ID
			names[owner] = owners.Name(team)
			if players[owner] == nil {
				players[owner] = map[int]*draftedPlayer{}
			}
			p := players[owner][pick.PlayerID]
			if p == nil {
				p = &draftedPlayer{id: pick.PlayerID, first: seq[owner]}
				players[owner][pick.PlayerID] = p
			}
			seq[owner]++
			p.name = pick.PlayerName
			p.seasons = append(p.seasons, s.Year)
		}
	}

	rows := make([]DraftHabitRow, 0, len(players))
	for owner, drafted := range players {
		var top *draftedPlayer
		for _, p := range drafted {
			if top == nil || len(p.seasons) > len(top.seasons) ||
				(len(p.seasons) == len(top.seasons) && p.first < top.first) {
				top = p
			}
		}
		if top == nil {
			continue
		}
		rows = append(rows, DraftHabitRow{
			OwnerID:      owner,
			OwnerName:    names[owner],
			PlayerID:     top.id,
			PlayerName:   top.name,
			TimesDrafted: len(top.seasons),
			Seasons:      top.seasons,
		})
	}

	slices.SortFunc(rows, func(a, b DraftHabitRow) int {
		return cmp.Or(
			cmp.Compare(b.TimesDrafted, a.TimesDrafted),
			cmp.Compare(a.OwnerName, b.OwnerName),
			cmp.Compare(a.OwnerID, b.OwnerID),
		)
	})
	return rows
}
