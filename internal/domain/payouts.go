package domain

import (
	"fmt"
	"sort"
	"strings"
)

type PayoutType string

const (
	PayoutHighestTotal PayoutType = "highest_total_points"
	PayoutTopPlayer    PayoutType = "top_player_overall"
	PayoutTopSlot      PayoutType = "top_slot"
	PayoutTopSlotCombo PayoutType = "top_slot_combo"
)

func (t PayoutType) Valid() bool {
	switch t {
	case PayoutHighestTotal, PayoutTopPlayer, PayoutTopSlot, PayoutTopSlotCombo:
		return true
	}
	return false
}

// SlotCount is one position requirement of a payout rule.
type SlotCount struct {
	Position Position
	Count    int
}

type PayoutRule struct {
	Week  int
	Type  PayoutType
	Slots []SlotCount
}

func (r PayoutRule) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("week %d: unknown payout type %q", r.Week, r.Type)
	}
	if (r.Type == PayoutTopSlot || r.Type == PayoutTopSlotCombo) && len(r.Slots) == 0 {
		return fmt.Errorf("week %d: %s needs slots", r.Week, r.Type)
	}
	for _, s := range r.Slots {
		if !s.Position.Valid() || s.Count <= 0 {
			return fmt.Errorf("week %d: bad slot %s=%d", r.Week, s.Position, s.Count)
		}
	}
	return nil
}

func (r PayoutRule) SlotTotal() int {
	total := 0
	for _, s := range r.Slots {
		total += s.Count
	}
	return total
}

// SlotSummary renders slots as "2×RB, 1×WR".
func (r PayoutRule) SlotSummary() string {
	parts := make([]string, 0, len(r.Slots))
	for _, s := range r.Slots {
		parts = append(parts, fmt.Sprintf("%d×%s", s.Count, s.Position))
	}
	return strings.Join(parts, ", ")
}

// SortSlots orders slot counts by position fill order so rule evaluation does
// not depend on map iteration.
func SortSlots(slots []SlotCount) {
	rank := make(map[Position]int, len(Positions))
	for i, p := range Positions {
		rank[p] = i
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return rank[slots[i].Position] < rank[slots[j].Position]
	})
}
