package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		raw  string
		want Position
	}{
		{"QB", PositionQB},
		{"rb", PositionRB},
		{"DEF", PositionDST},
		{"dst", PositionDST},
		{"D/ST", PositionDST},
		{" te ", PositionTE},
		{"HC", Position("HC")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePosition(tt.raw))
		})
	}
	assert.False(t, NormalizePosition("HC").Valid())
}

func TestSlotIsStarting(t *testing.T) {
	assert.True(t, SlotQB.IsStarting())
	assert.True(t, SlotFlex.IsStarting())
	assert.False(t, SlotBench.IsStarting())
	assert.False(t, SlotIR.IsStarting())
	assert.False(t, Slot("").IsStarting())
	assert.Equal(t, SlotBench, NormalizeSlot("BE"))
	assert.Equal(t, SlotFlex, NormalizeSlot("RB/WR/TE"))
}

func TestSlotConfigurationFromMap(t *testing.T) {
	cfg, err := SlotConfigurationFromMap(map[string]any{
		"qb":   1,
		"RB":   float64(2),
		"wr":   int64(2),
		"flex": 2,
		"d/st": 1,
		"K":    1,
		"TE":   1,
	})
	require.NoError(t, err)

	assert.Equal(t, SlotConfiguration{
		SlotQB: 1, SlotRB: 2, SlotWR: 2, SlotTE: 1, SlotFlex: 2, SlotK: 1, SlotDST: 1,
	}, cfg)
	assert.Equal(t, 10, cfg.Starters())
}

func TestSlotConfigurationFromMap_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"missing count", map[string]any{"QB": nil}},
		{"fractional count", map[string]any{"RB": 1.5}},
		{"negative count", map[string]any{"WR": -2}},
		{"string count", map[string]any{"TE": "one"}},
		{"unknown slot", map[string]any{"SUPERFLEX": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SlotConfigurationFromMap(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestOwnerDirectory(t *testing.T) {
	dir := NewOwnerDirectory(map[string]string{"{ABC}": "Big Al", "4": "Team Four"})

	assert.Equal(t, "Big Al", dir.Name(Team{ID: 1, Owner: Owner{ID: "{ABC}", FirstName: "Alan", LastName: "Smith"}}))
	assert.Equal(t, "Team Four", dir.Name(Team{ID: 4, Owner: Owner{ID: "{X}"}}))
	assert.Equal(t, "jD", dir.Name(Team{ID: 2, Owner: Owner{ID: "{Y}", FirstName: "jane", LastName: "Doe"}}))
	assert.Equal(t, UnknownOwner, dir.Name(Team{ID: 3}))
}

func TestOutcomes(t *testing.T) {
	var o Outcomes
	o.Record(2021, 0, nil)
	o.Record(2021, 3, assert.AnError)

	require.Len(t, o.Failed(), 1)
	assert.Equal(t, 3, o.Failed()[0].Week)
	assert.Len(t, o.Succeeded(), 1)
	assert.Contains(t, o.Failed()[0].String(), "2021 week 3")
	assert.Equal(t, KindSeason, o[0].Kind)
	assert.Equal(t, KindWeek, o[1].Kind)

	b, err := o[1].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"week","year":2021,"week":3,"status":"failed","error":"`+assert.AnError.Error()+`"}`, string(b))

	o.RecordDraft(2021, assert.AnError)
	b, err = o[2].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"draft","year":2021,"status":"failed","error":"`+assert.AnError.Error()+`"}`, string(b))
	assert.Equal(t, "2021 draft: "+assert.AnError.Error(), o[2].String())
}

func TestPayoutRuleValidate(t *testing.T) {
	assert.NoError(t, PayoutRule{Week: 1, Type: PayoutHighestTotal}.Validate())
	assert.Error(t, PayoutRule{Week: 2, Type: "most_touchdowns"}.Validate())
	assert.Error(t, PayoutRule{Week: 3, Type: PayoutTopSlot}.Validate())

	r := PayoutRule{Week: 4, Type: PayoutTopSlotCombo, Slots: []SlotCount{{PositionWR, 2}, {PositionQB, 1}}}
	SortSlots(r.Slots)
	assert.Equal(t, "1×QB, 2×WR", r.SlotSummary())
	assert.Equal(t, 3, r.SlotTotal())
}
