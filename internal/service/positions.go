package service

import (
	"cmp"
	"slices"

	"league-history/internal/domain"
	"league-history/internal/export"
)

// PositionsHeader is built from domain.Positions: one share column each.
// A share counts the player's own position, so a WR started at FLEX adds to
// "WR %" and there is no FLEX column.
var PositionsHeader = func() []string {
	h := []string{"Year", "Owner ID", "Owner Name", "Total Points"}
	for _, p := range domain.Positions {
		h = append(h, string(p)+" %")
	}
	return h
}()

type PositionsRow struct {
	Year        int
	OwnerID     string
	OwnerName   string
	TotalPoints float64
	// percent of TotalPoints, indexed like domain.Positions
	Shares []float64
}

func (r PositionsRow) Share(p domain.Position) float64 {
	for i, known := range domain.Positions {
		if known == p && i < len(r.Shares) {
			return r.Shares[i]
		}
	}
	return 0
}

func (r PositionsRow) Record() []string {
	rec := []string{export.Int(r.Year), r.OwnerID, r.OwnerName, export.Float(r.TotalPoints, 2)}
	for _, p := range domain.Positions {
		rec = append(rec, export.Float(r.Share(p), 2))
	}
	return rec
}

// BuildPositions splits each owner's starter points by the native position of
// the player. FLEX starters are included under their own position.
func BuildPositions(seasons []*domain.SeasonData, owners *domain.OwnerDirectory) []PositionsRow {
	var rows []PositionsRow
	for _, data := range seasonsByYear(seasons) {
		s := data.Season
		teams := teamIndex(s)
		byOwner := map[domain.OwnerYear]map[domain.Position]float64{}
		ownerTeam := map[domain.OwnerYear]domain.Team{}
		var order []domain.OwnerYear

		for _, week := range data.LineupWeeks() {
			for _, box := range data.BoxScores[week] {
				for _, side := range box.Sides() {
					team, ok := teams[side.TeamID]
					if !ok || team.Owner.ID == "" {
						continue
					}
					key := domain.OwnerYear{OwnerID: team.Owner.ID, Year: s.Year}
					if byOwner[key] == nil {
						byOwner[key] = map[domain.Position]float64{}
						ownerTeam[key] = team
						order = append(order, key)
					}
					for _, p := range side.Lineup {
						if !countsTowardPosition(p.Slot) {
							continue
						}
						pos := domain.NormalizePosition(string(p.Position))
						if pos.Valid() {
							byOwner[key][pos] += p.PointsOrZero()
						}
					}
				}
			}
		}

		for _, key := range order {
			points := byOwner[key]
			total := 0.0
			for _, v := range points {
				total += v
			}
			shares := make([]float64, len(domain.Positions))
			for i, pos := range domain.Positions {
				shares[i] = round2(percent(points[pos], total))
			}
			rows = append(rows, PositionsRow{
				Year:        s.Year,
				OwnerID:     key.OwnerID,
				OwnerName:   owners.Name(ownerTeam[key]),
				TotalPoints: round2(total),
				Shares:      shares,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b PositionsRow) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.OwnerName, b.OwnerName))
	})
	return rows
}

// countsTowardPosition is true for the fixed position slots and FLEX.
func countsTowardPosition(slot domain.Slot) bool {
	if slot == domain.SlotFlex {
		return true
	}
	for _, p := range domain.Positions {
		if slot == domain.PositionSlot(p) {
			return true
		}
	}
	return false
}
