package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfiguration is returned for slot configurations that cannot be
// used to build a lineup.
var ErrInvalidConfiguration = errors.New("invalid slot configuration")

type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "D/ST"
)

// Positions lists every scoring position in fill order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// NormalizePosition maps provider spellings onto a Position. Unknown values
// come back upper-cased and are not part of Positions.
func NormalizePosition(raw string) Position {
	p := strings.ToUpper(strings.TrimSpace(raw))
	switch p {
	case "DEF", "DST", "D/ST", "D":
		return PositionDST
	case "PK":
		return PositionK
	}
	return Position(p)
}

func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

type Slot string

const (
	SlotQB    Slot = "QB"
	SlotRB    Slot = "RB"
	SlotWR    Slot = "WR"
	SlotTE    Slot = "TE"
	SlotK     Slot = "K"
	SlotDST   Slot = "D/ST"
	SlotFlex  Slot = "FLEX"
	SlotBench Slot = "BENCH"
	SlotIR    Slot = "IR"
)

// IsStarting reports whether points scored in the slot count for the team.
func (s Slot) IsStarting() bool {
	return s != "" && s != SlotBench && s != SlotIR
}

// NormalizeSlot accepts the spellings used by league settings and config
// files ("BE", "RB/WR/TE", "DEF", lower case keys).
func NormalizeSlot(raw string) Slot {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "BE", "BN", "BENCH":
		return SlotBench
	case "RB/WR/TE", "W/R/T", "FLEX", "OP":
		return SlotFlex
	case "DEF", "DST", "D/ST":
		return SlotDST
	}
	return Slot(s)
}

// PositionSlot is the fixed starting slot a position fills.
func PositionSlot(p Position) Slot {
	return Slot(p)
}

type PlayerPerformance struct {
	PlayerID int
	Name     string
	Position Position
	Slot     Slot
	// nil when the provider has no stat line for the week
	Points *float64
}

func (p PlayerPerformance) PointsOrZero() float64 {
	if p.Points == nil {
		return 0
	}
	return *p.Points
}

// Eligible reports whether the performance may be placed in an optimal lineup.
func (p PlayerPerformance) Eligible() bool {
	return p.Points != nil && *p.Points >= 0 && !math.IsNaN(*p.Points)
}

func Points(v float64) *float64 {
	return &v
}

// SlotConfiguration maps a starting slot to the number of starters it takes.
type SlotConfiguration map[Slot]int

var configurableSlots = map[Slot]bool{
	SlotQB: true, SlotRB: true, SlotWR: true, SlotTE: true,
	SlotK: true, SlotDST: true, SlotFlex: true,
}

func (c SlotConfiguration) Validate() error {
	for slot, count := range c {
		if !configurableSlots[slot] {
			return fmt.Errorf("%w: unknown slot %q", ErrInvalidConfiguration, slot)
		}
		if count < 0 {
			return fmt.Errorf("%w: slot %s has negative count %d", ErrInvalidConfiguration, slot, count)
		}
	}
	return nil
}

func (c SlotConfiguration) Starters() int {
	total := 0
	for _, count := range c {
		total += count
	}
	return total
}

func (c SlotConfiguration) Clone() SlotConfiguration {
	out := make(SlotConfiguration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// SlotConfigurationFromMap decodes a loosely typed mapping such as the one a
// JSON or YAML file produces. Missing or fractional counts are rejected.
func SlotConfigurationFromMap(raw map[string]any) (SlotConfiguration, error) {
	cfg := make(SlotConfiguration, len(raw))
	for key, value := range raw {
		slot := NormalizeSlot(key)
		count, err := toCount(value)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %s: %v", ErrInvalidConfiguration, key, err)
		}
		cfg[slot] += count
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toCount(value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, errors.New("missing count")
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float32:
		return floatCount(float64(v))
	case float64:
		return floatCount(v)
	default:
		return 0, fmt.Errorf("count must be an integer, got %T", value)
	}
}

func floatCount(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("count must be an integer, got %v", v)
	}
	return int(v), nil
}
