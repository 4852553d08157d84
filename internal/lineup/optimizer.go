// Package lineup computes the best legal lineup a team could have started in
// a week and how close the lineup it actually started came to it.
package lineup

import (
	"fmt"
	"sort"

	"league-history/internal/domain"
)

var flexPositions = []domain.Position{domain.PositionRB, domain.PositionWR, domain.PositionTE}

// Lineup is the optimal selection for one team-week.
type Lineup struct {
	Players []domain.PlayerPerformance
	Points  float64
}

type Evaluation struct {
	Lineup     Lineup
	Actual     float64
	Optimal    float64
	Efficiency float64
}

// Optimal fills each position slot greedily in QB, RB, WR, TE, K, D/ST order
// and then the FLEX slots from the unused RB/WR/TE performances. Bench and IR
// players are candidates too. Performances without points or with negative
// points are never selected; a slot with too few candidates stays short.
func Optimal(performances []domain.PlayerPerformance, slots domain.SlotConfiguration) (Lineup, error) {
	if err := slots.Validate(); err != nil {
		return Lineup{}, err
	}

	byPosition := make(map[domain.Position][]domain.PlayerPerformance, len(domain.Positions))
	for _, p := range performances {
		if !p.Eligible() {
			continue
		}
		p.Position = domain.NormalizePosition(string(p.Position))
		if !p.Position.Valid() {
			continue
		}
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	used := make(map[int]bool)
	var out Lineup
	take := func(candidates []domain.PlayerPerformance, count int) {
		for _, p := range selectBest(candidates, count, used) {
			out.Players = append(out.Players, p)
			out.Points += *p.Points
		}
	}

	for _, pos := range domain.Positions {
		take(byPosition[pos], slots[domain.PositionSlot(pos)])
	}

	var flexPool []domain.PlayerPerformance
	for _, pos := range flexPositions {
		for _, p := range byPosition[pos] {
			if !used[p.PlayerID] {
				flexPool = append(flexPool, p)
			}
		}
	}
	take(flexPool, slots[domain.SlotFlex])

	return out, nil
}

// selectBest returns up to count unused candidates by points descending,
// keeping input order among equal scores, and marks them used.
func selectBest(candidates []domain.PlayerPerformance, count int, used map[int]bool) []domain.PlayerPerformance {
	if count <= 0 || len(candidates) == 0 {
		return nil
	}
	sorted := append([]domain.PlayerPerformance(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].Points > *sorted[j].Points
	})

	picked := make([]domain.PlayerPerformance, 0, count)
	for _, p := range sorted {
		if len(picked) == count {
			break
		}
		if used[p.PlayerID] {
			continue
		}
		used[p.PlayerID] = true
		picked = append(picked, p)
	}
	return picked
}

// ActualPoints sums the starters. Unknown points count as zero.
func ActualPoints(performances []domain.PlayerPerformance) float64 {
	total := 0.0
	for _, p := range performances {
		if p.Slot.IsStarting() {
			total += p.PointsOrZero()
		}
	}
	return total
}

func Efficiency(actual, optimal float64) float64 {
	if optimal <= 0 {
		return 0
	}
	return actual / optimal * 100
}

func Evaluate(performances []domain.PlayerPerformance, slots domain.SlotConfiguration) (Evaluation, error) {
	best, err := Optimal(performances, slots)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to build optimal lineup: %w", err)
	}
	actual := ActualPoints(performances)
	return Evaluation{
		Lineup:     best,
		Actual:     actual,
		Optimal:    best.Points,
		Efficiency: Efficiency(actual, best.Points),
	}, nil
}
